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

import "sync"

// ExitPromise is the single-shot signal the main task blocks on. Any
// task may Deliver it to request orderly shutdown; delivering it more
// than once is a no-op.
type ExitPromise struct {
	once sync.Once
	ch   chan struct{}
}

// NewExitPromise returns an undelivered promise.
func NewExitPromise() *ExitPromise {
	return &ExitPromise{ch: make(chan struct{})}
}

// Deliver wakes every task blocked in Wait. Safe to call more than
// once, and safe to call concurrently.
func (e *ExitPromise) Deliver() {
	e.once.Do(func() { close(e.ch) })
}

// Wait blocks until Deliver is called.
func (e *ExitPromise) Wait() {
	<-e.ch
}

// SafeExit is the idempotent shutdown guard: it runs a cleanup
// procedure exactly once, regardless of how many tasks call Trigger,
// and regardless of whether they call it concurrently.
//
// Two locks protect it: stateMu guards the "are we done" latch for a
// fast no-op path, and runMu is held for the full duration of the one
// real cleanup run, so that a concurrent caller blocks until that run
// finishes rather than racing past it.
type SafeExit struct {
	stateMu sync.Mutex
	runMu   sync.Mutex
	done    bool

	cleanup func()
	exit    *ExitPromise
}

// NewSafeExit builds a guard around cleanup, a procedure run at most
// once, and exit, the promise delivered once cleanup has returned.
func NewSafeExit(cleanup func(), exit *ExitPromise) *SafeExit {
	return &SafeExit{cleanup: cleanup, exit: exit}
}

// Trigger runs the cleanup procedure exactly once across however many
// goroutines call it, however many times, and however they overlap in
// time. Every call, including the no-op ones, returns only after
// cleanup has definitely finished.
func (s *SafeExit) Trigger(reason string, logger *Logger) {
	s.stateMu.Lock()
	if s.done {
		s.stateMu.Unlock()
		return
	}
	s.stateMu.Unlock()

	s.runMu.Lock()
	defer s.runMu.Unlock()

	s.stateMu.Lock()
	if s.done {
		s.stateMu.Unlock()
		return
	}
	s.stateMu.Unlock()
	defer func() {
		s.stateMu.Lock()
		s.done = true
		s.stateMu.Unlock()
	}()

	if logger != nil {
		logger.Printf("safeexit: %s", reason)
	}
	if s.cleanup != nil {
		s.cleanup()
	}
	s.exit.Deliver()
}
