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

//go:build !linux

package hardware

import "errors"

// ErrNoReaderFound is returned when no I2C bus answers at the PN532
// address.
var ErrNoReaderFound = errors.New("no PN532 found on any I2C bus")

// DetectI2CBus is only implemented on Linux; pass an explicit device
// path on other platforms.
func DetectI2CBus() (string, error) {
	return "", errors.New("I2C bus detection requires Linux")
}
