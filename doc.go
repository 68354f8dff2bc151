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

// Package bootd provides the boot-time building blocks shared by the
// daemon's supervisors and control surface: port discovery, config
// loading, the append-only logger, the watchdog kill switch, and the
// single-use exit guard.
//
// The three child supervisors (audio engine, runtime server, BEAM IO
// server) and the UDP control server live in the proc, supervise, and
// control subpackages; cmd/bootd wires everything together as the
// orchestrator.
package bootd
