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

// Package tapdeck implements the control core of a button-triggered NFC
// playback kiosk: a press reads an NDEF URI from a tag, turns it into a
// playback request against a local media server, and reports the outcome
// on a single RGB status LED.
//
// The package is hardware-agnostic. Peripherals are consumed through the
// small capability interfaces in capabilities.go (tag reader, status LED,
// button sample, network monitor), with real implementations in the
// hardware package and virtual ones in internal/testing.
//
// The Device control loop is deliberately synchronous: one tick renders
// the LED, checks connectivity, polls the button, and runs at most one
// read-decode-request operation to completion. Tag reads and playback
// requests block the loop for their full timeout. This mirrors the
// single-threaded firmware the kiosk behavior is defined by, and the
// single-operation invariant is still enforced explicitly with an
// in-flight guard so the contract holds even if a caller drives ticks
// from more than one goroutine.
package tapdeck
