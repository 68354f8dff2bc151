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

//go:build darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris

package proc

import (
	"io"
	"log"
	"os/exec"
	"testing"
	"time"

	"github.com/soundmesh/bootd/platform"

	. "github.com/smartystreets/goconvey/convey"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestRunnerStartAndKill(t *testing.T) {
	Convey("Starting a long-lived child", t, func() {
		cmd := exec.Command("sleep", "3600")
		r := NewRunner("sleep", cmd, testLogger(), platform.Detect(), false)
		r.Start()

		time.Sleep(20 * time.Millisecond)
		So(r.Liveness(), ShouldBeTrue)
		So(r.Pid(), ShouldBeGreaterThan, 0)

		Convey("Kill stops it and Wait returns", func() {
			r.Kill()
			So(r.Liveness(), ShouldBeFalse)

			done := make(chan struct{})
			go func() { r.Wait(); close(done) }()
			select {
			case <-done:
			case <-time.After(time.Second):
				t.Fatal("Wait did not return after Kill")
			}
		})
	})
}

func TestRunnerSpawnFailure(t *testing.T) {
	Convey("A command that cannot be spawned leaves the Runner inert", t, func() {
		cmd := exec.Command("/nonexistent/path/to/nothing")
		r := NewRunner("bogus", cmd, testLogger(), platform.Detect(), false)
		r.Start()

		So(r.Liveness(), ShouldBeFalse)
		So(r.Pid(), ShouldEqual, 0)
		So(func() { r.Kill() }, ShouldNotPanic)
	})
}

func TestRunnerKillIsIdempotent(t *testing.T) {
	Convey("A second Kill after the child has already exited is a no-op", t, func() {
		cmd := exec.Command("true")
		r := NewRunner("true", cmd, testLogger(), platform.Detect(), false)
		r.Start()
		r.Wait()

		So(func() { r.Kill() }, ShouldNotPanic)
	})
}

func TestRunnerGroupKill(t *testing.T) {
	Convey("A Runner started with group=true kills the whole process group", t, func() {
		cmd := exec.Command("sh", "-c", "sleep 3600 & wait")
		platform.SetProcessGroup(cmd)
		r := NewRunner("shellgroup", cmd, testLogger(), platform.Detect(), true)
		r.Start()

		time.Sleep(50 * time.Millisecond)
		So(r.Liveness(), ShouldBeTrue)

		r.Kill()
		So(r.Liveness(), ShouldBeFalse)
	})
}
