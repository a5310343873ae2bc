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
	"time"
)

// LEDState represents the device status rendered on the single LED.
type LEDState int

const (
	// LEDIdle indicates the device is connected and waiting for a press.
	LEDIdle LEDState = iota
	// LEDNoConnectivity indicates the network is down.
	LEDNoConnectivity
	// LEDBusy indicates a read-decode-request operation is in flight.
	LEDBusy
	// LEDSuccess indicates the last operation succeeded.
	LEDSuccess
	// LEDError indicates the last operation failed.
	LEDError
)

// String returns a human-readable state name for log lines.
func (s LEDState) String() string {
	switch s {
	case LEDIdle:
		return "idle"
	case LEDNoConnectivity:
		return "no-connectivity"
	case LEDBusy:
		return "busy"
	case LEDSuccess:
		return "success"
	case LEDError:
		return "error"
	default:
		return "unknown"
	}
}

// Status colors. Brightness values match the original kiosk hardware,
// which runs the LED well below full scale.
var (
	colorIdle    = Color{R: 0, G: 0, B: 40}
	colorBusy    = Color{R: 40, G: 30, B: 0}
	colorSuccess = Color{R: 0, G: 40, B: 0}
	colorError   = Color{R: 40, G: 0, B: 0}
)

// Breathing animation parameters for the no-connectivity state.
const (
	breathePeriodMs = 500.0
	breathePeak     = 60.0
)

// LEDController is the finite state machine behind the status LED. It
// holds exactly one active state plus the timestamp the state was entered,
// and renders a color as a pure function of (state, time).
type LEDController struct {
	now        func() time.Time
	enteredAt  time.Time
	displayFor time.Duration
	state      LEDState
}

// NewLEDController creates a controller showing Success and Error for
// displayFor before auto-reverting to Idle. The initial state is
// NoConnectivity: the device assumes disconnected until proven otherwise.
func NewLEDController(displayFor time.Duration) *LEDController {
	c := &LEDController{
		displayFor: displayFor,
		now:        time.Now,
	}
	c.set(LEDNoConnectivity)
	return c
}

// State returns the active state.
func (c *LEDController) State() LEDState {
	return c.state
}

// Set transitions to a new state, resetting the entry timestamp even when
// re-entering the current state.
func (c *LEDController) Set(state LEDState) {
	c.set(state)
}

func (c *LEDController) set(state LEDState) {
	c.state = state
	c.enteredAt = c.now()
}

// ConnectivityLost forces the NoConnectivity state, but only from Idle.
// An in-flight Busy, Success, or Error display is never interrupted by a
// connectivity change.
func (c *LEDController) ConnectivityLost() {
	if c.state == LEDIdle {
		c.set(LEDNoConnectivity)
	}
}

// ConnectivityRestored leaves NoConnectivity for Idle. A no-op in every
// other state.
func (c *LEDController) ConnectivityRestored() {
	if c.state == LEDNoConnectivity {
		c.set(LEDIdle)
	}
}

// Tick advances the timed auto-reversion and returns the color to render.
// It runs every control-loop tick whether or not the state changed: the
// breathing animation and the Success/Error display timers both depend on
// being evaluated continuously.
func (c *LEDController) Tick() Color {
	n := c.now()

	switch c.state {
	case LEDIdle:
		return colorIdle

	case LEDNoConnectivity:
		// Breathing purple. The phase is a function of absolute time, not
		// time-in-state, so re-entering the state does not snap the
		// animation.
		ms := float64(n.UnixMilli())
		brightness := uint8((math.Sin(ms/breathePeriodMs) + 1.0) * 0.5 * breathePeak)
		return Color{R: brightness, G: 0, B: brightness}

	case LEDBusy:
		// Busy has no timeout; only an explicit outcome leaves it.
		return colorBusy

	case LEDSuccess:
		if n.Sub(c.enteredAt) > c.displayFor {
			c.set(LEDIdle)
			return colorIdle
		}
		return colorSuccess

	case LEDError:
		if n.Sub(c.enteredAt) > c.displayFor {
			c.set(LEDIdle)
			return colorIdle
		}
		return colorError

	default:
		return Color{}
	}
}
