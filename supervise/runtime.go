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
	"log"
	"os/exec"
	"strconv"

	"github.com/soundmesh/bootd/platform"
	"github.com/soundmesh/bootd/proc"
)

// RuntimeArgs is the fixed, ordered port vector the runtime/language
// server expects after its "-u" flag.
type RuntimeArgs struct {
	ListenFromGUI uint16
	SendToGUI     uint16
	Scsynth       uint16
	ScsynthSend   uint16
	OSCCues       uint16
	Tau           uint16
	ListenFromTau uint16
	Token         int32
}

func (a RuntimeArgs) toArgv() []string {
	return []string{
		"-u",
		strconv.Itoa(int(a.ListenFromGUI)),
		strconv.Itoa(int(a.SendToGUI)),
		strconv.Itoa(int(a.Scsynth)),
		strconv.Itoa(int(a.ScsynthSend)),
		strconv.Itoa(int(a.OSCCues)),
		strconv.Itoa(int(a.Tau)),
		strconv.Itoa(int(a.ListenFromTau)),
		strconv.Itoa(int(a.Token)),
	}
}

// Runtime supervises the runtime/language server. It has no pre- or
// post-start steps: unlike Scsynth and Tau it is a single plain child
// process, so Runtime is a thin wrapper around proc.Runner.
type Runtime struct {
	path   string
	args   RuntimeArgs
	logger *log.Logger
	plat   platform.Platform
	child  *proc.Runner
}

// NewRuntime builds a supervisor for the runtime server at path with
// the given port vector.
func NewRuntime(path string, args RuntimeArgs, logger *log.Logger, plat platform.Platform) *Runtime {
	return &Runtime{path: path, args: args, logger: logger, plat: plat}
}

// Start launches the runtime server.
func (r *Runtime) Start() {
	cmd := exec.Command(r.path, r.args.toArgv()...)
	platform.SetProcessGroup(cmd)
	r.child = proc.NewRunner("runtime-server", cmd, r.logger, r.plat, true)
	r.child.Start()
}

// Kill stops the runtime server.
func (r *Runtime) Kill() {
	if r.child != nil {
		r.child.Kill()
	}
}
