// Copyright 2015 The Govisor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use file except in compliance with the License.
// You may obtain a copy of the license at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bootd

import (
	"sync"
	"time"
)

// BeamPidPromise is a single-assignment slot holding the OS pid of the
// BEAM-based child, as reported by the child itself over the control
// channel. It transitions empty -> filled exactly once; a second
// Fulfill is a silent no-op, never an error.
type BeamPidPromise struct {
	mu     sync.Mutex
	filled bool
	pid    int32
	ready  chan struct{}
}

// NewBeamPidPromise returns an empty promise.
func NewBeamPidPromise() *BeamPidPromise {
	return &BeamPidPromise{ready: make(chan struct{})}
}

// Fulfill assigns pid if, and only if, the promise is still empty.
func (p *BeamPidPromise) Fulfill(pid int32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.filled {
		return
	}
	p.pid = pid
	p.filled = true
	close(p.ready)
}

// Wait blocks for up to timeout for the pid to be fulfilled. ok is
// false if the deadline passed first.
func (p *BeamPidPromise) Wait(timeout time.Duration) (pid int32, ok bool) {
	select {
	case <-p.ready:
		p.mu.Lock()
		defer p.mu.Unlock()
		return p.pid, true
	case <-time.After(timeout):
		return 0, false
	}
}
