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

//go:build linux

package hardware

import (
	"errors"
	"path/filepath"
	"sort"

	"golang.org/x/sys/unix"
)

// i2cSlave is the ioctl command to set the target slave address.
const i2cSlave = 0x0703

// ErrNoReaderFound is returned when no I2C bus answers at the PN532
// address.
var ErrNoReaderFound = errors.New("no PN532 found on any I2C bus")

// DetectI2CBus scans /dev/i2c-* for a device acknowledging the PN532
// address and returns the first matching bus path. The probe is a bare
// address-level write; it does not disturb a reader already in use.
func DetectI2CBus() (string, error) {
	buses, err := filepath.Glob("/dev/i2c-*")
	if err != nil || len(buses) == 0 {
		return "", ErrNoReaderFound
	}
	sort.Strings(buses)

	for _, path := range buses {
		if probeI2CAddr(path, pn532Addr) {
			return path, nil
		}
	}
	return "", ErrNoReaderFound
}

// probeI2CAddr reports whether something acknowledges addr on the bus.
func probeI2CAddr(path string, addr uint8) bool {
	fd, err := unix.Open(path, unix.O_RDWR, 0)
	if err != nil {
		return false
	}
	defer func() { _ = unix.Close(fd) }()

	if err := unix.IoctlSetInt(fd, i2cSlave, int(addr)); err != nil {
		return false
	}

	// A zero-length write succeeds only when the address ACKs.
	_, err = unix.Write(fd, nil)
	return err == nil
}
