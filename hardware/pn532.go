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

// Package hardware implements the kiosk's capability interfaces on real
// peripherals: a PN532 reader over I2C or UART, a WS2812B status LED
// over SPI, a GPIO button, and a TCP-probe network monitor.
package hardware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tapdeck-project/tapdeck"
)

// PN532 commands used by the kiosk.
const (
	cmdSAMConfiguration    = 0x14
	cmdInDataExchange      = 0x40
	cmdInListPassiveTarget = 0x4A
)

// NTAG2xx memory commands tunneled through InDataExchange.
const (
	ntagCmdRead  = 0x30
	ntagCmdWrite = 0xA2
)

// baudTypeA selects 106 kbps ISO14443 Type A targets.
const baudTypeA = 0x00

// readTimeout bounds a single page read or write exchange.
const readTimeout = 250 * time.Millisecond

// errResponseTimeout is returned by transports when the device does not
// answer within the deadline. DetectTag maps it to ErrNoTagDetected.
var errResponseTimeout = errors.New("response timeout")

// transport moves one command frame to the PN532 and returns the
// response payload after the response command byte.
type transport interface {
	call(ctx context.Context, cmd byte, args []byte, timeout time.Duration) ([]byte, error)
	close() error
}

// Reader drives a PN532 as a tapdeck.TagReader.
type Reader struct {
	t transport
}

// NewI2CReader opens a PN532 on the given I2C bus ("/dev/i2c-1").
func NewI2CReader(busName string) (*Reader, error) {
	t, err := newI2CTransport(busName)
	if err != nil {
		return nil, err
	}
	return newReader(t)
}

// NewUARTReader opens a PN532 on the given serial port ("/dev/ttyUSB0").
func NewUARTReader(portName string) (*Reader, error) {
	t, err := newUARTTransport(portName)
	if err != nil {
		return nil, err
	}
	return newReader(t)
}

func newReader(t transport) (*Reader, error) {
	r := &Reader{t: t}
	if err := r.samConfig(context.Background()); err != nil {
		_ = t.close()
		return nil, fmt.Errorf("SAM configuration failed: %w", err)
	}
	return r, nil
}

// samConfig puts the PN532 in normal mode with the IRQ pin enabled.
func (r *Reader) samConfig(ctx context.Context) error {
	_, err := r.t.call(ctx, cmdSAMConfiguration, []byte{0x01, 0x14, 0x01}, time.Second)
	return err
}

// DetectTag waits up to timeout for a Type A tag in the field and returns
// its UID, or tapdeck.ErrNoTagDetected when none shows up.
func (r *Reader) DetectTag(ctx context.Context, timeout time.Duration) ([]byte, error) {
	resp, err := r.t.call(ctx, cmdInListPassiveTarget, []byte{0x01, baudTypeA}, timeout)
	if err != nil {
		if errors.Is(err, errResponseTimeout) {
			return nil, tapdeck.ErrNoTagDetected
		}
		return nil, fmt.Errorf("tag detection failed: %w", err)
	}

	// Response: NbTg, Tg, SENS_RES (2), SEL_RES, NFCID length, NFCID.
	if len(resp) < 1 || resp[0] == 0 {
		return nil, tapdeck.ErrNoTagDetected
	}
	if len(resp) < 6 {
		return nil, fmt.Errorf("%w: short InListPassiveTarget response", tapdeck.ErrTagReadFailed)
	}
	uidLen := int(resp[5])
	if len(resp) < 6+uidLen {
		return nil, fmt.Errorf("%w: truncated UID", tapdeck.ErrTagReadFailed)
	}
	uid := make([]byte, uidLen)
	copy(uid, resp[6:6+uidLen])
	return uid, nil
}

// ReadPage reads one 4-byte page. The NTAG READ command returns 16 bytes
// (four pages); only the requested page is kept, matching the sequential
// page-read contract the decoder is written against.
func (r *Reader) ReadPage(ctx context.Context, page uint8) ([]byte, error) {
	resp, err := r.exchange(ctx, []byte{ntagCmdRead, page})
	if err != nil {
		return nil, err
	}
	if len(resp) < 4 {
		return nil, fmt.Errorf("%w: short page read", tapdeck.ErrTagReadFailed)
	}
	return resp[:4], nil
}

// WritePage writes one 4-byte page.
func (r *Reader) WritePage(ctx context.Context, page uint8, data []byte) error {
	if len(data) != 4 {
		return fmt.Errorf("page write needs exactly 4 bytes, got %d", len(data))
	}
	args := append([]byte{ntagCmdWrite, page}, data...)
	_, err := r.exchange(ctx, args)
	return err
}

// exchange tunnels a tag command through InDataExchange to target 1 and
// strips the status byte.
func (r *Reader) exchange(ctx context.Context, tagCmd []byte) ([]byte, error) {
	args := append([]byte{0x01}, tagCmd...)
	resp, err := r.t.call(ctx, cmdInDataExchange, args, readTimeout)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", tapdeck.ErrTagReadFailed, err)
	}
	if len(resp) < 1 {
		return nil, fmt.Errorf("%w: empty InDataExchange response", tapdeck.ErrTagReadFailed)
	}
	if status := resp[0] & 0x3F; status != 0 {
		return nil, fmt.Errorf("%w: status 0x%02X", tapdeck.ErrTagReadFailed, status)
	}
	return resp[1:], nil
}

// Close releases the underlying transport.
func (r *Reader) Close() error {
	return r.t.close()
}
