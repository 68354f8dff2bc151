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

//go:build windows

package platform

import "os/exec"

// SetProcessGroup is a no-op on Windows: there is no JACK prelude to
// group, since HasJACK is always false for the windows variant.
func SetProcessGroup(cmd *exec.Cmd) {}

// KillProcessGroup is unused on Windows but kept so proc.Runner.Kill
// compiles unchanged; Runner.Kill calls it only when
// Platform.SupportsSignals() is true, which it never is on Windows.
func KillProcessGroup(pid int, sig Sig) error {
	return nil
}
