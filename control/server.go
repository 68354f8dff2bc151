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

// Package control implements the UDP, OSC-addressed control surface: a
// listener on the loopback address, bound to the "daemon" port,
// dispatching on OSC address and authenticating every method with a
// 32-bit token.
//
// The OSC 1.0 codec and dispatcher are github.com/hypebeast/go-osc.
// The shape of a small address -> handler table sitting in front of a
// transport is grounded on govisor/rpc/server.go's HTTP route table.
package control

import (
	"log"

	"github.com/hypebeast/go-osc/osc"
)

// Hooks are the weak, decoupled callbacks the control server fires on
// a successful, authenticated dispatch. None of them may block for
// long: OSC messages are dispatched strictly sequentially.
type Hooks struct {
	KeepAlive  func() error
	Exit       func()
	RestartTau func()
	TauPid     func(pid int32)
}

// Server is the UDP control listener. It never blocks the caller: run
// it with `go server.Serve()`.
type Server struct {
	srv    *osc.Server
	logger *log.Logger
	token  int32
	hooks  Hooks
}

// NewServer builds a Server bound to addr (expected to be
// "127.0.0.1:<daemon-port>"), with the method table wired to
// hooks. Binding itself is deferred to Serve, matching go-osc's
// ListenAndServe, which owns the socket for its own lifetime.
func NewServer(addr string, token int32, logger *log.Logger, hooks Hooks) *Server {
	s := &Server{logger: logger, token: token, hooks: hooks}

	d := osc.NewStandardDispatcher()
	d.AddMsgHandler("/daemon/keep-alive", func(msg *osc.Message) {
		s.withToken(msg, 0, func() {
			if s.hooks.KeepAlive == nil {
				return
			}
			if err := s.hooks.KeepAlive(); err != nil {
				s.logger.Printf("control: /daemon/keep-alive: %v", err)
			}
		})
	})
	d.AddMsgHandler("/daemon/exit", func(msg *osc.Message) {
		s.withToken(msg, 0, func() {
			if s.hooks.Exit != nil {
				s.hooks.Exit()
			}
		})
	})
	d.AddMsgHandler("/daemon/restart-tau", func(msg *osc.Message) {
		s.withToken(msg, 0, func() {
			if s.hooks.RestartTau != nil {
				s.hooks.RestartTau()
			}
		})
	})
	d.AddMsgHandler("/tau/pid", func(msg *osc.Message) {
		s.withToken(msg, 0, func() {
			pid, ok := argInt32(msg, 1)
			if !ok {
				s.logger.Printf("control: /tau/pid missing pid argument")
				return
			}
			if s.hooks.TauPid != nil {
				s.hooks.TauPid(pid)
			}
		})
	})

	s.srv = &osc.Server{Addr: addr, Dispatcher: d}
	return s
}

// Serve runs the receive loop. It returns only on a listener error,
// which is logged: the control server runs on its own goroutine and
// must never take the main task down with it.
func (s *Server) Serve() {
	if err := s.srv.ListenAndServe(); err != nil {
		s.logger.Printf("control: listener exited: %v", err)
	}
}

// withToken verifies that argument index tokenIdx of msg matches the
// daemon's token before running fn. A mismatch is logged and dropped
// silently.
func (s *Server) withToken(msg *osc.Message, tokenIdx int, fn func()) {
	token, ok := argInt32(msg, tokenIdx)
	if !ok {
		s.logger.Printf("control: %s missing token argument", msg.Address)
		return
	}
	if token != s.token {
		s.logger.Printf("control: %s token mismatch", msg.Address)
		return
	}
	fn()
}

func argInt32(msg *osc.Message, idx int) (int32, bool) {
	if idx >= len(msg.Arguments) {
		return 0, false
	}
	switch v := msg.Arguments[idx].(type) {
	case int32:
		return v, true
	case int:
		return int32(v), true
	default:
		return 0, false
	}
}
