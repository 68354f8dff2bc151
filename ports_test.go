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
	"net"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestAllocatePorts(t *testing.T) {
	Convey("Allocating the default policy", t, func() {
		logger := OpenLogger(t.TempDir() + "/daemon.log")
		ports, err := AllocatePorts(DefaultPolicy, logger)
		So(err, ShouldBeNil)

		Convey("every named port is present", func() {
			for _, p := range DefaultPolicy {
				_, ok := ports[p.Name]
				So(ok, ShouldBeTrue)
			}
		})

		Convey("osc-cues takes its fixed default when free", func() {
			So(ports["osc-cues"], ShouldEqual, 4560)
		})

		Convey("paired ports copy their partner exactly", func() {
			So(ports["gui-send-to-spider"], ShouldEqual, ports["spider-listen-to-gui"])
			So(ports["spider-send-to-gui"], ShouldEqual, ports["gui-listen-to-spider"])
			So(ports["scsynth-send"], ShouldEqual, ports["scsynth"])
		})
	})

	Convey("A paired policy referencing another paired entry is rejected", t, func() {
		logger := OpenLogger(t.TempDir() + "/daemon.log")
		policy := []PortPolicy{
			{Name: "a", Kind: Dynamic},
			{Name: "b", Kind: Paired, PairOf: "a"},
			{Name: "c", Kind: Paired, PairOf: "b"},
		}
		_, err := AllocatePorts(policy, logger)
		So(err, ShouldNotBeNil)
	})

	Convey("A fixed port that is already bound falls back to dynamic", t, func() {
		conn, err := net.ListenPacket("udp", "127.0.0.1:4560")
		So(err, ShouldBeNil)
		defer conn.Close()

		logger := OpenLogger(t.TempDir() + "/daemon.log")
		ports, err := AllocatePorts(DefaultPolicy, logger)
		So(err, ShouldBeNil)
		So(ports["osc-cues"], ShouldNotEqual, 4560)
		So(ports["osc-cues"], ShouldBeGreaterThanOrEqualTo, 29153)
	})
}
