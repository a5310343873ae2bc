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

package hardware

import (
	"context"
	"fmt"
	"time"

	"github.com/tapdeck-project/tapdeck/internal/frame"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

const (
	// PN532 7-bit I2C address (the datasheet's 0x48 is the 8-bit write
	// address including the R/W bit; periph.io and the Linux kernel
	// expect the 7-bit form: 0x48 >> 1 = 0x24).
	pn532Addr = 0x24

	// Status byte prepended to every I2C read; bit 0 set means a frame
	// is ready.
	pn532Ready = 0x01

	// Max clock frequency (400 kHz).
	maxClockFreq = 400 * physic.KiloHertz

	// ackTimeout bounds the wait for the command ACK.
	ackTimeout = 100 * time.Millisecond

	// readyPollInterval is the pause between ready-byte polls.
	readyPollInterval = 5 * time.Millisecond

	// respBufLen covers the largest response the kiosk's command set can
	// produce (InDataExchange with a 16-byte NTAG read) plus frame
	// overhead and the ready byte.
	respBufLen = 64
)

// i2cTransport implements transport over an I2C bus via periph.io.
type i2cTransport struct {
	dev     *i2c.Dev
	bus     i2c.BusCloser
	busName string
}

func newI2CTransport(busName string) (*i2cTransport, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("failed to open I2C bus %s: %w", busName, err)
	}
	_ = bus.SetSpeed(maxClockFreq) // Ignore error, continue with default speed

	return &i2cTransport{
		dev:     &i2c.Dev{Addr: pn532Addr, Bus: bus},
		bus:     bus,
		busName: busName,
	}, nil
}

// sleepCtx performs a context-aware sleep. Returns ctx.Err() if the
// context is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// readWhenReady polls the ready byte until the device has a frame, then
// reads n payload bytes.
func (t *i2cTransport) readWhenReady(ctx context.Context, n int, deadline time.Time) ([]byte, error) {
	buf := make([]byte, n+1)
	for {
		if err := t.dev.Tx(nil, buf); err != nil {
			return nil, fmt.Errorf("I2C read on %s: %w", t.busName, err)
		}
		if buf[0]&pn532Ready != 0 {
			return buf[1:], nil
		}
		if time.Now().After(deadline) {
			return nil, errResponseTimeout
		}
		if err := sleepCtx(ctx, readyPollInterval); err != nil {
			return nil, err
		}
	}
}

func (t *i2cTransport) call(ctx context.Context, cmd byte, args []byte, timeout time.Duration) ([]byte, error) {
	if err := t.dev.Tx(frame.Build(cmd, args), nil); err != nil {
		return nil, fmt.Errorf("I2C write on %s: %w", t.busName, err)
	}

	ack, err := t.readWhenReady(ctx, len(frame.AckFrame), time.Now().Add(ackTimeout))
	if err != nil {
		return nil, err
	}
	if !frame.IsAck(ack) {
		return nil, fmt.Errorf("no ACK for command 0x%02X on %s", cmd, t.busName)
	}

	raw, err := t.readWhenReady(ctx, respBufLen, time.Now().Add(timeout))
	if err != nil {
		return nil, err
	}

	resp, err := frame.Extract(raw, cmd)
	if err != nil {
		return nil, fmt.Errorf("bad response to command 0x%02X: %w", cmd, err)
	}
	return resp, nil
}

func (t *i2cTransport) close() error {
	if err := t.bus.Close(); err != nil {
		return fmt.Errorf("close I2C bus %s: %w", t.busName, err)
	}
	return nil
}
