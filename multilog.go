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
	"strings"
	"sync"
)

// MultiLogger implements an io.Writer that fans a single stream of
// line-delimited text out to a set of other writers. The orchestrator
// uses it so that a child's output lands, as one record, in both the
// daemon log and that child's own log without the writer needing to
// know about both.
type MultiLogger struct {
	mu      sync.Mutex
	writers []writerNamed
}

type writerNamed struct {
	name string
	w    interface{ Write([]byte) (int, error) }
}

// NewMultiLogger returns an empty fan-out writer.
func NewMultiLogger() *MultiLogger {
	return &MultiLogger{}
}

// Add registers w, under name, as a destination for future writes.
// Adding the same name twice replaces the earlier destination.
func (m *MultiLogger) Add(name string, w interface{ Write([]byte) (int, error) }) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, x := range m.writers {
		if x.name == name {
			m.writers[i].w = w
			return
		}
	}
	m.writers = append(m.writers, writerNamed{name: name, w: w})
}

// Remove drops a previously added destination.
func (m *MultiLogger) Remove(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, x := range m.writers {
		if x.name == name {
			m.writers = append(m.writers[:i], m.writers[i+1:]...)
			return
		}
	}
}

// Write implements io.Writer. The input is split on newlines and each
// line is delivered, whole, to every registered destination.
func (m *MultiLogger) Write(b []byte) (int, error) {
	text := strings.Trim(string(b), "\n")
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, line := range strings.Split(text, "\n") {
		for _, dest := range m.writers {
			dest.w.Write([]byte(line + "\n"))
		}
	}
	return len(b), nil
}
