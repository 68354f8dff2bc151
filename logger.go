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
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

// Logger is an append-only, timestamped log file with an
// error-formatting helper. Every write goes through the embedded
// *log.Logger, which synchronizes internally, so interleaved writes
// from multiple goroutines always produce whole, line-oriented
// records.
//
// Open failures and write failures are never fatal: a Logger that
// could not open its file degrades to an in-memory no-op sink, logging
// the failure to stderr exactly once.
type Logger struct {
	mu   sync.Mutex
	path string
	file *os.File
	std  *log.Logger
}

// OpenLogger opens (creating if necessary) an append-only log file at
// path. If the file cannot be opened, the returned Logger silently
// discards everything written to it after reporting the failure to
// stderr once; this is a transient-I/O condition per the daemon's
// error-handling policy, never a fatal one.
func OpenLogger(path string) *Logger {
	l := &Logger{path: path}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bootd: cannot open log %s: %v\n", path, err)
		l.std = log.New(io.Discard, "", log.LstdFlags)
		return l
	}
	l.file = f
	l.std = log.New(f, "", log.LstdFlags)
	return l
}

// Std returns the standard library logger backing this Logger, for
// handing to collaborators (ProcessRunner, supervisors, ControlServer)
// that only need a plain *log.Logger and shouldn't need to know about
// this package.
func (l *Logger) Std() *log.Logger {
	return l.std
}

// Printf writes a formatted record.
func (l *Logger) Printf(format string, v ...interface{}) {
	l.std.Printf(format, v...)
}

// LogError is the error-formatting helper: it writes "context: err" as
// a single record, or just "context" if err is nil.
func (l *Logger) LogError(context string, err error) {
	if err == nil {
		l.std.Print(context)
		return
	}
	l.std.Printf("%s: %v", context, err)
}

// Writer exposes the underlying io.Writer (the open file, or a
// discarding stand-in) so it can be registered with a MultiLogger.
func (l *Logger) Writer() io.Writer {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		return l.file
	}
	return io.Discard
}

// Close flushes and closes the underlying file. It is safe to call
// more than once.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
