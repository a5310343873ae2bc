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
	"go.bug.st/serial"
)

// Over UART the PN532 must be woken before each command by a 0x55
// preamble followed by idle bytes.
var uartWakeup = []byte{0x55, 0x00, 0x00, 0x00, 0x00, 0x00}

// uartReadSlice is the per-Read timeout; call deadlines are enforced on
// top of it.
const uartReadSlice = 50 * time.Millisecond

// uartTransport implements transport over a serial port.
type uartTransport struct {
	port     serial.Port
	portName string
}

func newUARTTransport(portName string) (*uartTransport, error) {
	port, err := serial.Open(portName, &serial.Mode{
		BaudRate: 115200,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", portName, err)
	}
	if err := port.SetReadTimeout(uartReadSlice); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("failed to set read timeout on %s: %w", portName, err)
	}
	return &uartTransport{port: port, portName: portName}, nil
}

func (t *uartTransport) call(ctx context.Context, cmd byte, args []byte, timeout time.Duration) ([]byte, error) {
	if err := t.port.ResetInputBuffer(); err != nil {
		return nil, fmt.Errorf("reset input on %s: %w", t.portName, err)
	}

	out := append(append([]byte{}, uartWakeup...), frame.Build(cmd, args)...)
	if _, err := t.port.Write(out); err != nil {
		return nil, fmt.Errorf("UART write on %s: %w", t.portName, err)
	}

	ack, err := t.readAtLeast(ctx, len(frame.AckFrame), time.Now().Add(ackTimeout))
	if err != nil {
		return nil, err
	}
	if !frame.IsAck(ack) {
		return nil, fmt.Errorf("no ACK for command 0x%02X on %s", cmd, t.portName)
	}

	deadline := time.Now().Add(timeout)
	buf := ack[len(frame.AckFrame):]
	for {
		resp, extractErr := frame.Extract(buf, cmd)
		if extractErr == nil {
			return resp, nil
		}

		chunk, readErr := t.readSome(ctx, deadline)
		if readErr != nil {
			return nil, readErr
		}
		buf = append(buf, chunk...)
	}
}

// readAtLeast accumulates reads until n bytes arrived or the deadline
// passed.
func (t *uartTransport) readAtLeast(ctx context.Context, n int, deadline time.Time) ([]byte, error) {
	var buf []byte
	for len(buf) < n {
		chunk, err := t.readSome(ctx, deadline)
		if err != nil {
			return nil, err
		}
		buf = append(buf, chunk...)
	}
	return buf, nil
}

// readSome performs one bounded read, returning errResponseTimeout once
// the deadline has passed without data.
func (t *uartTransport) readSome(ctx context.Context, deadline time.Time) ([]byte, error) {
	tmp := make([]byte, 64)
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		n, err := t.port.Read(tmp)
		if err != nil {
			return nil, fmt.Errorf("UART read on %s: %w", t.portName, err)
		}
		if n > 0 {
			return tmp[:n], nil
		}
		if time.Now().After(deadline) {
			return nil, errResponseTimeout
		}
	}
}

func (t *uartTransport) close() error {
	if err := t.port.Close(); err != nil {
		return fmt.Errorf("close serial port %s: %w", t.portName, err)
	}
	return nil
}
