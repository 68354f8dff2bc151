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

import "errors"

var (
	ErrPortsExhausted   = errors.New("no free port found in ephemeral range")
	ErrPairedUnresolved = errors.New("paired port policy references an unresolved partner")
	ErrPairOfPair       = errors.New("paired port policy may not reference another paired port")
	ErrPidTimeout       = errors.New("timed out waiting for self-reported pid")
	ErrAlreadyFired     = errors.New("kill switch already fired")
)
