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
	"time"

	"github.com/soundmesh/bootd"
	"github.com/soundmesh/bootd/platform"
	"github.com/soundmesh/bootd/proc"
)

// Scsynth supervises the audio engine. On Linux-family
// platforms it runs a pre-start JACK probe/spawn and a post-start
// PulseAudio<->JACK wiring step; both are advisory, and their
// failures are logged, never fatal.
type Scsynth struct {
	path   string
	opts   bootd.AudioOptions
	logger *log.Logger
	plat   platform.Platform

	jack      *proc.Runner
	jackOwned bool
	engine    *proc.Runner
}

// NewScsynth builds a supervisor for the audio engine found at path,
// with the merged command-line options from bootd.LoadAudioConfig.
func NewScsynth(path string, opts bootd.AudioOptions, logger *log.Logger, plat platform.Platform) *Scsynth {
	return &Scsynth{path: path, opts: opts, logger: logger, plat: plat}
}

// Start runs the pre-start JACK prelude (Linux-family only), then
// launches the audio engine, then the post-start loopback wiring.
func (s *Scsynth) Start() {
	if s.plat.HasJACK() {
		s.startJACKIfNeeded()
	}

	cmd := exec.Command(s.path, s.opts.Flags...)
	if s.plat.HasJACK() {
		platform.SetProcessGroup(cmd)
	}
	s.engine = proc.NewRunner("scsynth", cmd, s.logger, s.plat, s.plat.HasJACK())
	s.engine.Start()

	if s.plat.HasJACK() {
		go s.postStartWiring()
	}
}

// startJACKIfNeeded probes for a running JACK server; if absent, it
// spawns a local one with a dummy driver at 48kHz/1024-frame buffer.
func (s *Scsynth) startJACKIfNeeded() {
	probe := exec.Command("jack_lsp")
	if err := probe.Run(); err == nil {
		s.logger.Printf("scsynth: jack already running")
		return
	}

	cmd := exec.Command("jackd", "-d", "dummy", "-r", "48000", "-p", "1024")
	platform.SetProcessGroup(cmd)
	s.jack = proc.NewRunner("jackd", cmd, s.logger, s.plat, true)
	s.jack.Start()
	s.jackOwned = true
}

// postStartWiring waits 5s for the engine to settle, then runs the
// PulseAudio<->JACK loopback wiring appropriate to whether this
// supervisor itself started JACK or found one already running.
func (s *Scsynth) postStartWiring() {
	time.Sleep(5 * time.Second)

	script := "pulse-jack-connect-existing.sh"
	if s.jackOwned {
		script = "pulse-jack-connect-owned.sh"
	}
	if err := exec.Command(script).Run(); err != nil {
		s.logger.Printf("scsynth: advisory wiring script %s failed: %v", script, err)
	}
}

// Kill stops the audio engine and, if this supervisor started a local
// JACK daemon, stops that too.
func (s *Scsynth) Kill() {
	if s.engine != nil {
		s.engine.Kill()
	}
	if s.jackOwned && s.jack != nil {
		s.jack.Kill()
	}
}
