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

package tapdeck

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// testClock is a manual clock for in-package tests. The exported fake in
// internal/testing cannot be used here because that package imports this
// one.
type testClock struct {
	t time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Unix(1_700_000_000, 0)}
}

func (c *testClock) now() time.Time          { return c.t }
func (c *testClock) advance(d time.Duration) { c.t = c.t.Add(d) }

const testWindow = 50 * time.Millisecond

func newTestDebouncer(clock *testClock) *Debouncer {
	d := NewDebouncer(testWindow)
	d.now = clock.now
	d.lastChange = clock.now()
	return d
}

func TestDebouncerCleanPressFiresOnce(t *testing.T) {
	t.Parallel()

	clock := newTestClock()
	d := newTestDebouncer(clock)

	assert.False(t, d.Poll(true), "press must hold for the window first")
	clock.advance(60 * time.Millisecond)
	assert.True(t, d.Poll(true), "stable press fires one event")

	// Holding the button produces no further events.
	for i := 0; i < 10; i++ {
		clock.advance(10 * time.Millisecond)
		assert.False(t, d.Poll(true))
	}
}

func TestDebouncerBounceProducesNoEvent(t *testing.T) {
	t.Parallel()

	clock := newTestClock()
	d := newTestDebouncer(clock)

	// Contact chatter: the reading flips every 10ms, never holding for
	// the full window.
	pressed := true
	for i := 0; i < 8; i++ {
		assert.False(t, d.Poll(pressed))
		clock.advance(10 * time.Millisecond)
		pressed = !pressed
	}
	assert.False(t, d.Stable())
}

func TestDebouncerBounceThenSettleFiresOnce(t *testing.T) {
	t.Parallel()

	clock := newTestClock()
	d := newTestDebouncer(clock)

	for i := 0; i < 4; i++ {
		d.Poll(i%2 == 0)
		clock.advance(5 * time.Millisecond)
	}

	events := 0
	for i := 0; i < 20; i++ {
		if d.Poll(true) {
			events++
		}
		clock.advance(10 * time.Millisecond)
	}
	assert.Equal(t, 1, events)
	assert.True(t, d.Stable())
}

func TestDebouncerReleaseIsSilent(t *testing.T) {
	t.Parallel()

	clock := newTestClock()
	d := newTestDebouncer(clock)

	d.Poll(true)
	clock.advance(60 * time.Millisecond)
	assert.True(t, d.Poll(true))

	// A debounced release produces no event, only state.
	d.Poll(false)
	clock.advance(60 * time.Millisecond)
	assert.False(t, d.Poll(false))
	assert.False(t, d.Stable())

	// And the next clean press fires again.
	d.Poll(true)
	clock.advance(60 * time.Millisecond)
	assert.True(t, d.Poll(true))
}

func TestDebouncerPowerUpHeldButton(t *testing.T) {
	t.Parallel()

	clock := newTestClock()
	d := newTestDebouncer(clock)

	// Button already down at startup: no event until the reading holds
	// for the full window, then exactly one.
	assert.False(t, d.Poll(true))
	clock.advance(testWindow / 2)
	assert.False(t, d.Poll(true))
	clock.advance(testWindow)
	assert.True(t, d.Poll(true))
}
