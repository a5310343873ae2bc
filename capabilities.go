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
	"context"
	"time"
)

// Color is an RGB triple for the status LED.
type Color struct {
	R, G, B uint8
}

// TagReader is the near-field capability the device consumes. Calls block
// the caller for up to their timeout; the control loop stalls while a read
// is in progress.
type TagReader interface {
	// DetectTag waits up to timeout for a tag in the field and returns
	// its UID, or ErrNoTagDetected.
	DetectTag(ctx context.Context, timeout time.Duration) ([]byte, error)

	// ReadPage reads one fixed-size page of tag memory.
	ReadPage(ctx context.Context, page uint8) ([]byte, error)

	// WritePage writes one fixed-size page of tag memory. Only the
	// provisioning tool writes tags; the kiosk itself never does.
	WritePage(ctx context.Context, page uint8, data []byte) error
}

// StatusLED renders the device's single status LED. SetColor stages the
// color and Show pushes it to the hardware, matching addressable-LED
// drivers that latch on a strobe.
type StatusLED interface {
	SetColor(c Color)
	Show() error
}

// Network reports connectivity status and triggers reconnect attempts.
// Connected is polled every tick, so implementations are expected to
// cache their probe result; Reconnect invalidates that cache and kicks
// off a fresh attempt.
type Network interface {
	Connected() bool
	Reconnect()
}
