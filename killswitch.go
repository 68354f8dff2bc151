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
	"sync"
	"time"
)

const (
	killSwitchStartupGrace = 40 * time.Second
	killSwitchTickInterval = 10 * time.Second
	killSwitchMaxMisses    = 4 // fires on the 5th consecutive miss (~50s)
)

type killSwitchState int

const (
	ksArmed killSwitchState = iota
	ksFired
)

// KillSwitch is the watchdog timer that drives the one-shot kill
// switch. It arms on construction, after a 40-second startup
// grace during which no timeout can fire. Once armed, it checks every
// 10 seconds whether a keep-alive tick arrived since the previous
// check; the fifth consecutive miss (~50 seconds of silence) fires it.
//
// KeepAlive merely sets a tick flag; only the watcher goroutine reads
// and clears it, so the miss counter itself is never touched from more
// than one goroutine.
type KillSwitch struct {
	mu      sync.Mutex
	state   killSwitchState
	ticked  bool
	onFire  func()
	stop    chan struct{}
	stopped bool
}

// NewKillSwitch constructs a kill switch armed at time.Now()+40s. Once
// it fires, onFire is called exactly once, from the watcher goroutine.
func NewKillSwitch(onFire func()) *KillSwitch {
	k := &KillSwitch{onFire: onFire, stop: make(chan struct{})}
	go k.watch()
	return k
}

// KeepAlive resets the kill switch's failure counter. Safe to call
// from any goroutine, including the control server's receive loop. It
// returns ErrAlreadyFired if the switch fired before this tick arrived,
// since the race is otherwise silent: onFire has already run and the
// tick changes nothing.
func (k *KillSwitch) KeepAlive() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.state == ksFired {
		return ErrAlreadyFired
	}
	k.ticked = true
	return nil
}

// Deactivate stops the watcher without firing it. Only used in tests.
func (k *KillSwitch) Deactivate() {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.stopped {
		return
	}
	k.stopped = true
	close(k.stop)
}

func (k *KillSwitch) watch() {
	select {
	case <-time.After(killSwitchStartupGrace):
	case <-k.stop:
		return
	}

	misses := 0
	ticker := time.NewTicker(killSwitchTickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-k.stop:
			return
		case <-ticker.C:
			k.mu.Lock()
			if k.state == ksFired {
				k.mu.Unlock()
				return
			}
			if k.ticked {
				misses = 0
				k.ticked = false
			} else {
				misses++
			}
			fire := misses > killSwitchMaxMisses
			if fire {
				k.state = ksFired
			}
			k.mu.Unlock()

			if fire {
				if k.onFire != nil {
					k.onFire()
				}
				return
			}
		}
	}
}
