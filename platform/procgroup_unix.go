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

//go:build !windows

package platform

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// SetProcessGroup arranges for cmd, once started, to be the leader of
// its own process group. The supervisors use this so that
// KillProcessGroup reaches a child together with any processes it
// forks, without the daemon tracking each descendant's pid. Each such
// child leads a separate group: the audio engine and a JACK daemon the
// audio-engine supervisor started are killed one after the other, and
// the PulseAudio/JACK wiring scripts are not placed in a group of
// their own.
func SetProcessGroup(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}

// KillProcessGroup sends sig to every process in pid's process group.
// "No such process" is treated as success, matching the idempotent
// best-effort contract of ProcessRunner.Kill.
func KillProcessGroup(pid int, sig Sig) error {
	var usig syscall.Signal
	switch sig {
	case SIGKILL:
		usig = syscall.SIGKILL
	default:
		usig = syscall.SIGTERM
	}
	err := unix.Kill(-pid, usig)
	if err == unix.ESRCH {
		return nil
	}
	return err
}
