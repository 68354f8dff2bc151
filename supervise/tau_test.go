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
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestTauArgsOrder(t *testing.T) {
	Convey("The BEAM child argument vector follows the fixed 15-item order", t, func() {
		args := TauArgs{
			CuesOn:          true,
			UDPLoopbackOnly: true,
			MIDIOn:          false,
			LinkOn:          true,
			CuesPort:        4560,
			APIPort:         1,
			SpiderPort:      2,
			DaemonPort:      3,
			LogPath:         "/tmp/beam-child.log",
			MIDIEnabled:     false,
			LinkEnabled:     true,
			PhxPort:         4,
			PhxSecret:       "s3cr3t",
			Token:           -7,
			RuntimeEnvTag:   "dev",
		}
		So(args.toArgv(), ShouldResemble, []string{
			"1", "1", "0", "1",
			"4560", "1", "2", "3",
			"/tmp/beam-child.log",
			"0", "1",
			"4", "s3cr3t", "-7", "dev",
		})
	})
}
