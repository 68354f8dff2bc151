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
	"strings"
	"sync"
	"time"

	"github.com/soundmesh/bootd"
	"github.com/soundmesh/bootd/control"
	"github.com/soundmesh/bootd/platform"
	"github.com/soundmesh/bootd/proc"
)

// TauArgs is the fixed, ordered argument vector the BEAM IO server
// expects on its command line. Field order matches argument order
// exactly; it must not be reordered.
type TauArgs struct {
	CuesOn          bool
	UDPLoopbackOnly bool
	MIDIOn          bool
	LinkOn          bool
	CuesPort        uint16
	APIPort         uint16
	SpiderPort      uint16
	DaemonPort      uint16
	LogPath         string
	MIDIEnabled     bool
	LinkEnabled     bool
	PhxPort         uint16
	PhxSecret       string
	Token           int32
	RuntimeEnvTag   string
}

func (a TauArgs) toArgv() []string {
	return []string{
		boolArg(a.CuesOn),
		boolArg(a.UDPLoopbackOnly),
		boolArg(a.MIDIOn),
		boolArg(a.LinkOn),
		strconv.Itoa(int(a.CuesPort)),
		strconv.Itoa(int(a.APIPort)),
		strconv.Itoa(int(a.SpiderPort)),
		strconv.Itoa(int(a.DaemonPort)),
		a.LogPath,
		boolArg(a.MIDIEnabled),
		boolArg(a.LinkEnabled),
		strconv.Itoa(int(a.PhxPort)),
		a.PhxSecret,
		strconv.Itoa(int(a.Token)),
		a.RuntimeEnvTag,
	}
}

func boolArg(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// Tau supervises the BEAM IO server. Unlike Scsynth and Runtime, it
// can be asked to restart in place without tearing down the rest of
// the daemon, and it self-reports its own OS pid over the
// control channel rather than being started with a known pid, since
// the launched process is a shell wrapper around the BEAM release
// script.
type Tau struct {
	path   string
	args   TauArgs
	logger *log.Logger
	plat   platform.Platform
	client *control.Client

	pidPromise *bootd.BeamPidPromise

	mu         sync.Mutex
	restarting bool
	child      *proc.Runner
}

// NewTau builds a supervisor for the BEAM child at path, arguments
// args, requesting its self-reported pid from client (which must be
// addressed at the tau API port) and delivering it to promise.
func NewTau(path string, args TauArgs, logger *log.Logger, plat platform.Platform, client *control.Client, promise *bootd.BeamPidPromise) *Tau {
	return &Tau{path: path, args: args, logger: logger, plat: plat, client: client, pidPromise: promise}
}

// Start launches the BEAM child via the platform shell (grounded on
// govisor/process.go's use of a shell wrapper for arbitrary command
// strings) and begins the pid-request retry loop.
func (t *Tau) Start() {
	t.mu.Lock()
	var cmd *exec.Cmd
	if shell, flag := t.plat.Shell(); shell != "" {
		cmd = exec.Command(shell, flag, t.path+" "+strings.Join(t.args.toArgv(), " "))
	} else {
		cmd = exec.Command(t.path, t.args.toArgv()...)
	}
	platform.SetProcessGroup(cmd)
	t.child = proc.NewRunner("tau", cmd, t.logger, t.plat, true)
	t.child.Start()
	t.mu.Unlock()

	go t.requestPidUntilFulfilled()
}

// requestPidUntilFulfilled sends /send-pid-to-daemon once a second
// until the BEAM child answers on /tau/pid. It gives up silently once
// pidPromise is already fulfilled by some other path.
func (t *Tau) requestPidUntilFulfilled() {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()
	for range ticker.C {
		if _, ok := t.pidPromise.Wait(0); ok {
			return
		}
		if err := t.client.Send("/send-pid-to-daemon", t.args.Token); err != nil {
			t.logger.Printf("tau: pid request failed: %v", err)
		}
	}
}

// Restart collapses concurrent restart requests to at most one
// in-flight: a request arriving while a restart is already running is
// dropped.
func (t *Tau) Restart() {
	t.mu.Lock()
	if t.restarting {
		t.mu.Unlock()
		t.logger.Printf("tau: restart already in progress, dropping request")
		return
	}
	t.restarting = true
	child := t.child
	t.mu.Unlock()

	if child != nil {
		child.Kill()
	}

	t.Start()

	t.mu.Lock()
	t.restarting = false
	t.mu.Unlock()
}

// Kill stops the BEAM child.
func (t *Tau) Kill() {
	t.mu.Lock()
	child := t.child
	t.mu.Unlock()
	if child != nil {
		child.Kill()
	}
}
