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

package testing

import (
	"time"

	"github.com/tapdeck-project/tapdeck"
	"github.com/tapdeck-project/tapdeck/internal/syncutil"
)

// FakeLED records every color pushed to it.
type FakeLED struct {
	mu     syncutil.Mutex
	colors []tapdeck.Color
	shows  int
}

// SetColor implements tapdeck.StatusLED.
func (f *FakeLED) SetColor(c tapdeck.Color) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.colors = append(f.colors, c)
}

// Show implements tapdeck.StatusLED.
func (f *FakeLED) Show() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shows++
	return nil
}

// Last returns the most recently set color.
func (f *FakeLED) Last() (tapdeck.Color, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.colors) == 0 {
		return tapdeck.Color{}, false
	}
	return f.colors[len(f.colors)-1], true
}

// Colors returns a copy of every color set so far.
func (f *FakeLED) Colors() []tapdeck.Color {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]tapdeck.Color, len(f.colors))
	copy(out, f.colors)
	return out
}

// Shows returns how many times Show was called.
func (f *FakeLED) Shows() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.shows
}

// Clock is a manually advanced clock for driving time-dependent state
// machines deterministically.
type Clock struct {
	mu syncutil.Mutex
	t  time.Time
}

// NewClock creates a clock starting at t.
func NewClock(t time.Time) *Clock {
	return &Clock{t: t}
}

// Now returns the current fake time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// FakeNetwork is a scriptable Network capability.
type FakeNetwork struct {
	mu         syncutil.Mutex
	up         bool
	reconnects int
}

// NewFakeNetwork creates a network monitor with the given initial state.
func NewFakeNetwork(up bool) *FakeNetwork {
	return &FakeNetwork{up: up}
}

// Connected implements tapdeck.Network.
func (f *FakeNetwork) Connected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.up
}

// SetConnected flips the simulated link state.
func (f *FakeNetwork) SetConnected(up bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.up = up
}

// Reconnect implements tapdeck.Network.
func (f *FakeNetwork) Reconnect() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reconnects++
}

// Reconnects returns how many reconnect attempts were requested.
func (f *FakeNetwork) Reconnects() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reconnects
}
