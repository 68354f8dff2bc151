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

package control

import (
	"io"
	"log"
	"testing"

	"github.com/hypebeast/go-osc/osc"

	. "github.com/smartystreets/goconvey/convey"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestWithTokenGating(t *testing.T) {
	Convey("A matching token runs the handler", t, func() {
		s := &Server{logger: testLogger(), token: 424242}
		ran := false

		msg := osc.NewMessage("/daemon/keep-alive")
		msg.Append(int32(424242))
		s.withToken(msg, 0, func() { ran = true })

		So(ran, ShouldBeTrue)
	})

	Convey("A mismatched token does not run the handler", t, func() {
		s := &Server{logger: testLogger(), token: 424242}
		ran := false

		msg := osc.NewMessage("/daemon/keep-alive")
		msg.Append(int32(1))
		s.withToken(msg, 0, func() { ran = true })

		So(ran, ShouldBeFalse)
	})

	Convey("A missing token argument does not run the handler", t, func() {
		s := &Server{logger: testLogger(), token: 424242}
		ran := false

		msg := osc.NewMessage("/daemon/keep-alive")
		s.withToken(msg, 0, func() { ran = true })

		So(ran, ShouldBeFalse)
	})
}

func TestArgInt32(t *testing.T) {
	Convey("argInt32 accepts both int32 and int arguments", t, func() {
		msg := osc.NewMessage("/tau/pid")
		msg.Append(int32(1))
		msg.Append(7)

		v, ok := argInt32(msg, 0)
		So(ok, ShouldBeTrue)
		So(v, ShouldEqual, int32(1))

		v, ok = argInt32(msg, 1)
		So(ok, ShouldBeTrue)
		So(v, ShouldEqual, int32(7))

		_, ok = argInt32(msg, 5)
		So(ok, ShouldBeFalse)
	})
}
