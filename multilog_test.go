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
	"bytes"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestMultiLoggerFanOut(t *testing.T) {
	Convey("A write reaches every registered destination", t, func() {
		m := NewMultiLogger()
		var a, b bytes.Buffer
		m.Add("a", &a)
		m.Add("b", &b)

		m.Write([]byte("hello\n"))

		So(a.String(), ShouldEqual, "hello\n")
		So(b.String(), ShouldEqual, "hello\n")

		Convey("Remove stops future writes from reaching it", func() {
			m.Remove("b")
			m.Write([]byte("again\n"))

			So(a.String(), ShouldEqual, "hello\nagain\n")
			So(b.String(), ShouldEqual, "hello\n")
		})
	})

	Convey("Adding the same name twice replaces the destination", t, func() {
		m := NewMultiLogger()
		var first, second bytes.Buffer
		m.Add("x", &first)
		m.Add("x", &second)

		m.Write([]byte("once\n"))

		So(first.String(), ShouldEqual, "")
		So(second.String(), ShouldEqual, "once\n")
	})
}
