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
	"crypto/rand"
	"fmt"
	"math/big"
	"net"
)

const (
	ephemeralLow  = 29153
	ephemeralHigh = 65535
	seedSpan      = 39152 - ephemeralLow + 1 // [29153, 39152]
)

// PortKind distinguishes the three allocation policies.
type PortKind int

const (
	Dynamic PortKind = iota
	Fixed
	Paired
)

// PortPolicy is one entry in the ordered allocation table. Fixed ports
// carry their default in FixedPort; Paired ports carry the name of an
// already-resolved partner in PairOf.
type PortPolicy struct {
	Name      string
	Kind      PortKind
	FixedPort uint16
	PairOf    string
}

// PortMap is the fully resolved table of named ports. Every name in
// the policy table is bound to exactly one value, after construction
// it is never mutated.
type PortMap map[string]uint16

// DefaultPolicy is the canonical, ordered port policy table for the
// daemon's port set. Order matters: a Paired entry may only reference
// a name that appears earlier in this slice.
var DefaultPolicy = []PortPolicy{
	{Name: "spider-listen-to-gui", Kind: Dynamic},
	{Name: "gui-send-to-spider", Kind: Paired, PairOf: "spider-listen-to-gui"},
	{Name: "gui-listen-to-spider", Kind: Dynamic},
	{Name: "spider-send-to-gui", Kind: Paired, PairOf: "gui-listen-to-spider"},
	{Name: "scsynth", Kind: Dynamic},
	{Name: "scsynth-send", Kind: Paired, PairOf: "scsynth"},
	{Name: "osc-cues", Kind: Fixed, FixedPort: 4560},
	{Name: "tau", Kind: Dynamic},
	{Name: "spider", Kind: Dynamic},
	{Name: "phx", Kind: Dynamic},
	{Name: "daemon", Kind: Dynamic},
	{Name: "spider-listen-to-tau", Kind: Dynamic},
}

// isFree reports whether a UDP socket can be bound to 127.0.0.1:port.
// Any failure, of any kind, means the port is not free.
func isFree(port uint16) bool {
	addr := net.JoinHostPort("127.0.0.1", fmt.Sprintf("%d", port))
	conn, err := net.ListenPacket("udp", addr)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

func randomSeed() (uint16, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(seedSpan))
	if err != nil {
		return 0, err
	}
	return uint16(ephemeralLow + n.Int64()), nil
}

// firstFreeFrom scans upward from start (inclusive) up to ephemeralHigh
// for the first port that binds successfully. It does not wrap around:
// past ephemeralHigh it returns ErrPortsExhausted.
func firstFreeFrom(start uint16) (uint16, error) {
	for p := uint32(start); p <= ephemeralHigh; p++ {
		if isFree(uint16(p)) {
			return uint16(p), nil
		}
	}
	return 0, ErrPortsExhausted
}

// AllocatePorts resolves the policy table into a PortMap: Dynamic
// entries search upward from a random seed in
// [29153, 39152]; Fixed entries probe their default and fall back to
// Dynamic, silently, if occupied (logging the fallback); Paired
// entries copy an already-resolved partner's value.
//
// A Paired entry whose partner is itself Paired is rejected as a
// configuration error before any allocation is attempted.
func AllocatePorts(policy []PortPolicy, logger *Logger) (PortMap, error) {
	resolved := make(map[string]PortKind, len(policy))
	for _, p := range policy {
		if p.Kind == Paired {
			partnerKind, ok := resolved[p.PairOf]
			if ok && partnerKind == Paired {
				return nil, fmt.Errorf("%s pairs with %s: %w", p.Name, p.PairOf, ErrPairOfPair)
			}
		}
		resolved[p.Name] = p.Kind
	}

	seed, err := randomSeed()
	if err != nil {
		return nil, fmt.Errorf("generating port search seed: %w", err)
	}

	ports := make(PortMap, len(policy))
	for _, p := range policy {
		switch p.Kind {
		case Dynamic:
			port, err := firstFreeFrom(seed)
			if err != nil {
				return nil, err
			}
			ports[p.Name] = port
			seed = port + 1

		case Fixed:
			if isFree(p.FixedPort) {
				ports[p.Name] = p.FixedPort
				continue
			}
			logger.Printf("ports: fixed port %d for %s is occupied, falling back to dynamic", p.FixedPort, p.Name)
			port, err := firstFreeFrom(seed)
			if err != nil {
				return nil, err
			}
			ports[p.Name] = port
			seed = port + 1

		case Paired:
			partner, ok := ports[p.PairOf]
			if !ok {
				return nil, fmt.Errorf("%s pairs with %s: %w", p.Name, p.PairOf, ErrPairedUnresolved)
			}
			ports[p.Name] = partner

		default:
			return nil, fmt.Errorf("port %s: unknown policy kind %d", p.Name, p.Kind)
		}
	}
	return ports, nil
}
