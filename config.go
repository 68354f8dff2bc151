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
	"bufio"
	"os"
	"runtime"
	"strconv"
	"strings"

	shellwords "github.com/mattn/go-shellwords"
)

// audioKeyFlags is the fixed conversion table from human-readable
// audio-config keys to the audio engine's single-letter command flags.
// Unknown keys are silently ignored.
var audioKeyFlags = map[string]string{
	"sound_card_sample_rate": "-S",
	"num_inputs":             "-i",
	"num_outputs":            "-o",
	"block_size":             "-z",
	"hardware_buffer_size":   "-Z",
	"control_bus_channels":   "-c",
	"audio_bus_channels":     "-a",
	"max_nodes":              "-n",
	"max_synth_defs":         "-d",
	"real_time_memory_size":  "-m",
	"wire_buffers":           "-w",
	"random_seeds":           "-r",
	"verbosity":              "-v",
	"hardware_device_name":   "-H",
	"publish_rendezvous":     "-R",
	"max_logins":             "-l",
	"bind_address":           "-B",
}

// AudioOptions is the merged command-line option set for the audio
// engine (scsynth), after config loading and merging. The merged
// flag/value pairs appear in no defined order; any enable_inputs /
// enable_outputs overrides and then the extra flags follow them.
type AudioOptions struct {
	Flags []string
}

// RuntimeOptions is the normalized option set for the BEAM child's
// runtime behavior.
type RuntimeOptions struct {
	Env      string // "dev" or "prod"
	HTTPPort int    // 0 if unset/invalid
}

// readKeyValues parses a flat "key = value" (or "key: value") file,
// trimming whitespace and quotes from each side. A missing file or
// any parse error yields an empty map; neither is fatal.
func readKeyValues(path string, logger *Logger) map[string]string {
	out := map[string]string{}
	f, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.LogError("config: cannot open "+path, err)
		}
		return out
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		sep := strings.IndexAny(line, "=:")
		if sep < 0 {
			continue
		}
		key := strings.TrimSpace(line[:sep])
		val := strings.TrimSpace(line[sep+1:])
		val = strings.Trim(val, `"'`)
		out[key] = val
	}
	if err := scanner.Err(); err != nil {
		logger.LogError("config: error reading "+path, err)
		return map[string]string{}
	}
	return out
}

func boolString(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return "1"
	default:
		return "0"
	}
}

// LoadAudioConfig loads the audio-settings file at path and merges it
// with scsynthPort and per-platform defaults to produce the audio
// engine's command-line options.
//
// Merge order, earliest-loses (later entries override earlier ones):
// {-u: scsynthPort} <- built-in defaults <- OS-specific defaults <-
// parsed user options <- extra flags. An "override" escape hatch, if
// non-empty, replaces the entire merged set.
func LoadAudioConfig(path string, scsynthPort uint16, logger *Logger) AudioOptions {
	merged := map[string]string{
		"-u": strconv.Itoa(int(scsynthPort)),
	}
	for k, v := range audioDefaults() {
		merged[k] = v
	}
	for k, v := range audioPlatformDefaults() {
		merged[k] = v
	}

	raw := readKeyValues(path, logger)
	override := raw["override"]
	extra := raw["extra_flags"]
	delete(raw, "override")
	delete(raw, "extra_flags")

	for key, val := range raw {
		flag, ok := audioKeyFlags[key]
		if !ok {
			continue // unknown keys are silently ignored
		}
		merged[flag] = val
	}

	var flags []string
	if strings.TrimSpace(override) != "" {
		words, err := shellwords.Parse(override)
		if err != nil {
			logger.LogError("config: cannot parse override string", err)
		} else {
			flags = words
		}
		return AudioOptions{Flags: flags}
	}

	for flag, val := range merged {
		flags = append(flags, flag, val)
	}

	if v, ok := raw["enable_inputs"]; ok && boolString(v) == "0" {
		flags = append(flags, "-i", "0")
	}
	if v, ok := raw["enable_outputs"]; ok && boolString(v) == "0" {
		flags = append(flags, "-o", "0")
	}

	if strings.TrimSpace(extra) != "" {
		words, err := shellwords.Parse(extra)
		if err != nil {
			logger.LogError("config: cannot parse extra flags", err)
		} else {
			flags = append(flags, words...)
		}
	}

	return AudioOptions{Flags: flags}
}

func audioDefaults() map[string]string {
	return map[string]string{
		"-a": "1024",
		"-i": "2",
		"-o": "2",
		"-b": "1026",
		"-R": "0",
	}
}

// audioPlatformDefaults supplies OS-specific tuning that sits between
// the built-in defaults and the user's own options in the merge order.
func audioPlatformDefaults() map[string]string {
	switch runtime.GOOS {
	case "linux":
		return map[string]string{"-H": "pulse"}
	case "darwin":
		return map[string]string{}
	default:
		return map[string]string{}
	}
}

// LoadRuntimeConfig loads the runtime-settings file at path. Only
// "dev" and "prod" are accepted for the environment tag; anything
// else (including a missing file) defaults to "prod". Only a positive
// integer is accepted for the HTTP port; anything else yields 0.
func LoadRuntimeConfig(path string, logger *Logger) RuntimeOptions {
	raw := readKeyValues(path, logger)

	env := strings.ToLower(strings.TrimSpace(raw["env"]))
	if env != "dev" && env != "prod" {
		env = "prod"
	}

	port := 0
	if v, ok := raw["http_port"]; ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
			port = n
		}
	}

	return RuntimeOptions{Env: env, HTTPPort: port}
}
