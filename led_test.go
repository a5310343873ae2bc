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
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const testDisplay = 2 * time.Second

func newTestLEDController(clock *testClock) *LEDController {
	c := NewLEDController(testDisplay)
	c.now = clock.now
	c.enteredAt = clock.now()
	return c
}

func TestLEDControllerStartsDisconnected(t *testing.T) {
	t.Parallel()

	c := newTestLEDController(newTestClock())
	assert.Equal(t, LEDNoConnectivity, c.State())
}

func TestLEDControllerConnectivityTransitions(t *testing.T) {
	t.Parallel()

	clock := newTestClock()
	c := newTestLEDController(clock)

	c.ConnectivityRestored()
	assert.Equal(t, LEDIdle, c.State())
	assert.Equal(t, colorIdle, c.Tick())

	c.ConnectivityLost()
	assert.Equal(t, LEDNoConnectivity, c.State())

	// Restoring twice is a no-op the second time.
	c.ConnectivityRestored()
	c.ConnectivityRestored()
	assert.Equal(t, LEDIdle, c.State())
}

func TestLEDControllerStatusDisplayReverts(t *testing.T) {
	t.Parallel()

	for _, state := range []LEDState{LEDSuccess, LEDError} {
		state := state
		t.Run(state.String(), func(t *testing.T) {
			t.Parallel()

			clock := newTestClock()
			c := newTestLEDController(clock)
			c.Set(state)

			want := colorSuccess
			if state == LEDError {
				want = colorError
			}

			// Holds for exactly the display duration.
			assert.Equal(t, want, c.Tick())
			clock.advance(testDisplay)
			assert.Equal(t, want, c.Tick())
			assert.Equal(t, state, c.State())

			// One instant past it, reverts to Idle.
			clock.advance(time.Nanosecond)
			assert.Equal(t, colorIdle, c.Tick())
			assert.Equal(t, LEDIdle, c.State())
		})
	}
}

func TestLEDControllerBusyHasNoTimeout(t *testing.T) {
	t.Parallel()

	clock := newTestClock()
	c := newTestLEDController(clock)
	c.Set(LEDBusy)

	clock.advance(time.Hour)
	assert.Equal(t, colorBusy, c.Tick())
	assert.Equal(t, LEDBusy, c.State())
}

// Connectivity loss never interrupts an in-progress display or
// operation. Only Idle yields to NoConnectivity.
func TestLEDControllerLossOnlyFromIdle(t *testing.T) {
	t.Parallel()

	for _, state := range []LEDState{LEDBusy, LEDSuccess, LEDError} {
		state := state
		t.Run(state.String(), func(t *testing.T) {
			t.Parallel()

			c := newTestLEDController(newTestClock())
			c.Set(state)
			c.ConnectivityLost()
			assert.Equal(t, state, c.State())
		})
	}
}

func TestLEDControllerReenterResetsTimer(t *testing.T) {
	t.Parallel()

	clock := newTestClock()
	c := newTestLEDController(clock)

	c.Set(LEDSuccess)
	clock.advance(testDisplay - 100*time.Millisecond)
	c.Set(LEDSuccess)
	clock.advance(testDisplay - 100*time.Millisecond)

	// Still showing: the second Set restarted the display window.
	assert.Equal(t, colorSuccess, c.Tick())
}

func TestLEDControllerBreathing(t *testing.T) {
	t.Parallel()

	clock := newTestClock()
	c := newTestLEDController(clock)

	got := c.Tick()
	ms := float64(clock.now().UnixMilli())
	want := uint8((math.Sin(ms/breathePeriodMs) + 1.0) * 0.5 * breathePeak)
	assert.Equal(t, Color{R: want, G: 0, B: want}, got)

	// The phase follows absolute time, so a second controller created
	// later agrees with the first at the same instant.
	clock.advance(1234 * time.Millisecond)
	other := newTestLEDController(clock)
	assert.Equal(t, c.Tick(), other.Tick())
}

func TestLEDStateString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "idle", LEDIdle.String())
	assert.Equal(t, "no-connectivity", LEDNoConnectivity.String())
	assert.Equal(t, "busy", LEDBusy.String())
	assert.Equal(t, "success", LEDSuccess.String())
	assert.Equal(t, "error", LEDError.String())
	assert.Equal(t, "unknown", LEDState(99).String())
}
