// Copyright 2026 The Tapdeck Project Contributors.
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package hardware

import (
	"net"
	"time"

	"github.com/tapdeck-project/tapdeck/internal/syncutil"
)

const (
	netProbeTimeout = 2 * time.Second
	netCacheFor     = 5 * time.Second
)

// NetMonitor implements tapdeck.Network by probing a TCP endpoint,
// normally the playback server itself. Probes run in the background so
// Connected never blocks a control-loop tick; the result is cached
// between probes. The monitor starts out reporting down until the first
// probe lands, matching the device's assume-disconnected boot state.
type NetMonitor struct {
	addr string

	mu        syncutil.Mutex
	up        bool
	probing   bool
	lastProbe time.Time
}

// NewNetMonitor creates a monitor probing the given "host:port" address.
func NewNetMonitor(addr string) *NetMonitor {
	return &NetMonitor{addr: addr}
}

// Connected returns the last known connectivity state, kicking off a
// fresh background probe when the cached result has gone stale.
func (m *NetMonitor) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.probing && time.Since(m.lastProbe) >= netCacheFor {
		m.probing = true
		go m.probe()
	}
	return m.up
}

// Reconnect invalidates the cache so the next Connected call probes
// immediately.
func (m *NetMonitor) Reconnect() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.probing {
		m.probing = true
		go m.probe()
	}
}

func (m *NetMonitor) probe() {
	conn, err := net.DialTimeout("tcp", m.addr, netProbeTimeout)
	if conn != nil {
		_ = conn.Close()
	}

	m.mu.Lock()
	m.up = err == nil
	m.lastProbe = time.Now()
	m.probing = false
	m.mu.Unlock()
}

// StaticNetwork is a tapdeck.Network that always reports a fixed state.
// Used when no probe address is configured.
type StaticNetwork bool

// Connected reports the fixed state.
func (s StaticNetwork) Connected() bool { return bool(s) }

// Reconnect is a no-op.
func (s StaticNetwork) Reconnect() {}
