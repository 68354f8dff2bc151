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
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// CanonicalLogNames are the six log files the orchestrator always
// maintains in the log directory.
var CanonicalLogNames = []string{
	"daemon.log",
	"debug.log",
	"gui.log",
	"audio-engine.log",
	"runtime-server.log",
	"beam-child.log",
}

const maxHistorySnapshots = 10

// RotateLogs copies every existing *.log file in dir into a
// timestamped subdirectory of dir/history, truncates the six
// canonical log files, and prunes dir/history so that at most
// maxHistorySnapshots subdirectories remain, oldest first dropped.
//
// Every failure here is non-fatal and best-effort: a daemon that
// cannot rotate its logs still boots.
func RotateLogs(dir string, logger *Logger) {
	historyRoot := filepath.Join(dir, "history")
	if err := os.MkdirAll(historyRoot, 0755); err != nil {
		logger.LogError("rotate: cannot create history directory", err)
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.LogError("rotate: cannot scan log directory", err)
		return
	}

	var existing []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(e.Name(), ".log") {
			existing = append(existing, e.Name())
		}
	}

	if len(existing) > 0 {
		snapshot := filepath.Join(historyRoot, sanitizedTimestamp(time.Now()))
		if err := os.MkdirAll(snapshot, 0755); err != nil {
			logger.LogError("rotate: cannot create snapshot directory", err)
		} else {
			for _, name := range existing {
				src := filepath.Join(dir, name)
				dst := filepath.Join(snapshot, name)
				if err := copyFile(src, dst); err != nil {
					logger.LogError("rotate: cannot copy "+name, err)
				}
			}
		}
	}

	for _, name := range CanonicalLogNames {
		path := filepath.Join(dir, name)
		f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
		if err != nil {
			logger.LogError("rotate: cannot truncate "+name, err)
			continue
		}
		f.Close()
	}

	pruneHistory(historyRoot, logger)
}

// sanitizedTimestamp produces a directory-name-safe timestamp, free of
// colons and other characters that are awkward on some filesystems.
func sanitizedTimestamp(t time.Time) string {
	return t.Format("2006-01-02T15-04-05.000000000")
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, in)
	return err
}

func pruneHistory(historyRoot string, logger *Logger) {
	entries, err := os.ReadDir(historyRoot)
	if err != nil {
		logger.LogError("rotate: cannot list history for pruning", err)
		return
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e.Name())
		}
	}
	sort.Strings(dirs)
	for len(dirs) > maxHistorySnapshots {
		victim := filepath.Join(historyRoot, dirs[0])
		if err := os.RemoveAll(victim); err != nil {
			logger.LogError("rotate: cannot prune "+dirs[0], err)
		}
		dirs = dirs[1:]
	}
}
