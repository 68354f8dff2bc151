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
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRotateLogs(t *testing.T) {
	Convey("Rotating a directory with existing log content", t, func() {
		dir := t.TempDir()
		os.WriteFile(filepath.Join(dir, "daemon.log"), []byte("old content\n"), 0644)

		logger := OpenLogger(filepath.Join(dir, "debug.log"))
		RotateLogs(dir, logger)

		Convey("the canonical files are truncated", func() {
			b, err := os.ReadFile(filepath.Join(dir, "daemon.log"))
			So(err, ShouldBeNil)
			So(string(b), ShouldEqual, "")
		})

		Convey("a history snapshot was written", func() {
			entries, err := os.ReadDir(filepath.Join(dir, "history"))
			So(err, ShouldBeNil)
			So(len(entries), ShouldEqual, 1)

			snapshot, err := os.ReadDir(filepath.Join(dir, "history", entries[0].Name()))
			So(err, ShouldBeNil)

			var names []string
			for _, e := range snapshot {
				names = append(names, e.Name())
			}
			So(names, ShouldContain, "daemon.log")
		})
	})

	Convey("Rotating never fails on an empty directory", t, func() {
		dir := t.TempDir()
		logger := OpenLogger(filepath.Join(dir, "debug.log"))
		So(func() { RotateLogs(dir, logger) }, ShouldNotPanic)
	})
}
