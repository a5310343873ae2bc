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

import "errors"

// Error categories for the kiosk control loop. None of these are fatal to
// the device: each surfaces as an LED error state plus a diagnostic log
// line, after which the device returns to idle and awaits the next press.
var (
	// Tag errors
	ErrNoTagDetected = errors.New("no tag detected")
	ErrTagReadFailed = errors.New("tag read failed")

	// Decode errors
	ErrNoURIFound = errors.New("no NDEF URI record found")

	// Request errors
	ErrNetworkFailure = errors.New("playback request failed")
)
