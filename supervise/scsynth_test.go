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

package supervise

import (
	"io"
	"log"
	"testing"
	"time"

	"github.com/soundmesh/bootd"

	. "github.com/smartystreets/goconvey/convey"
)

// fakePlatform is a minimal platform.Platform double for tests that
// need to exercise both the JACK and no-JACK code paths without
// depending on runtime.GOOS.
type fakePlatform struct {
	hasJACK bool
}

func (f fakePlatform) Name() string            { return "fake" }
func (f fakePlatform) SupportsSignals() bool   { return true }
func (f fakePlatform) Shell() (string, string) { return "sh", "-c" }
func (f fakePlatform) HasJACK() bool           { return f.hasJACK }

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestScsynthSkipsJACKWhenUnsupported(t *testing.T) {
	Convey("On a platform without JACK, Start launches only the engine", t, func() {
		s := NewScsynth("true", bootd.AudioOptions{}, testLogger(), fakePlatform{hasJACK: false})
		s.Start()

		time.Sleep(20 * time.Millisecond)
		So(s.jack, ShouldBeNil)
		So(s.engine, ShouldNotBeNil)

		s.Kill()
	})
}
