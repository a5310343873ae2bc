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

import "time"

// Debouncer converts a noisy digital button signal into discrete,
// single-fire press events. A raw reading is promoted to stable only once
// it has held unchanged for the debounce window, and a press event fires
// exactly once per physical press, on the tick where the stable reading
// transitions from released to pressed.
type Debouncer struct {
	now        func() time.Time
	lastChange time.Time
	window     time.Duration
	lastRaw    bool
	stable     bool
}

// NewDebouncer creates a debouncer with the given debounce window. The
// button starts in the released state and must hold a reading for the
// full window before it is trusted, bounce at power-up included.
func NewDebouncer(window time.Duration) *Debouncer {
	d := &Debouncer{
		window: window,
		now:    time.Now,
	}
	d.lastChange = d.now()
	return d
}

// Poll samples the raw reading once per control-loop tick and reports
// whether a press event occurred on this tick.
func (d *Debouncer) Poll(pressed bool) bool {
	n := d.now()
	if pressed != d.lastRaw {
		d.lastChange = n
		d.lastRaw = pressed
	}

	if n.Sub(d.lastChange) < d.window || pressed == d.stable {
		return false
	}

	d.stable = pressed
	return d.stable
}

// Stable returns the current debounced reading.
func (d *Debouncer) Stable() bool {
	return d.stable
}
