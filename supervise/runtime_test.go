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

func TestRuntimeArgsOrder(t *testing.T) {
	Convey("The runtime argument vector is -u followed by the seven ports and the token, in order", t, func() {
		args := RuntimeArgs{
			ListenFromGUI: 1,
			SendToGUI:     2,
			Scsynth:       3,
			ScsynthSend:   4,
			OSCCues:       4560,
			Tau:           5,
			ListenFromTau: 6,
			Token:         -99,
		}
		So(args.toArgv(), ShouldResemble, []string{
			"-u", "1", "2", "3", "4", "4560", "5", "6", "-99",
		})
	})
}
