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
	"fmt"

	"github.com/tapdeck-project/tapdeck"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// WS2812B timing emulated over SPI: each data bit becomes three SPI bits
// (1 -> 110, 0 -> 100) clocked at 3x the 800 kHz bit rate. The latch is
// a stretch of idle-low longer than 50us, sent as trailing zero bytes.
const (
	ws2812Freq  = 2400 * physic.KiloHertz
	ws2812Bit1  = 0b110
	ws2812Bit0  = 0b100
	ws2812Latch = 16 // zero bytes appended after the pixel data
)

// WS2812 drives a single WS2812B status LED as a tapdeck.StatusLED.
type WS2812 struct {
	conn  spi.Conn
	port  spi.PortCloser
	color tapdeck.Color
}

// NewWS2812 opens the LED on the given SPI port ("/dev/spidev0.0").
func NewWS2812(portName string) (*WS2812, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	port, err := spireg.Open(portName)
	if err != nil {
		return nil, fmt.Errorf("failed to open SPI port %s: %w", portName, err)
	}

	conn, err := port.Connect(ws2812Freq, spi.Mode0, 8)
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("failed to configure SPI port %s: %w", portName, err)
	}

	return &WS2812{conn: conn, port: port}, nil
}

// SetColor stages the color for the next Show.
func (w *WS2812) SetColor(c tapdeck.Color) {
	w.color = c
}

// Show pushes the staged color to the LED.
func (w *WS2812) Show() error {
	buf := encodePixel(w.color.G, w.color.R, w.color.B) // WS2812B wire order is GRB
	buf = append(buf, make([]byte, ws2812Latch)...)
	if err := w.conn.Tx(buf, nil); err != nil {
		return fmt.Errorf("SPI write failed: %w", err)
	}
	return nil
}

// Close releases the SPI port.
func (w *WS2812) Close() error {
	return w.port.Close()
}

// encodePixel expands color bytes into the 3-SPI-bits-per-bit stream.
// Each input byte becomes 24 output bits (3 bytes), MSB first.
func encodePixel(channels ...uint8) []byte {
	out := make([]byte, 0, len(channels)*3)
	var acc uint32
	bits := 0
	for _, ch := range channels {
		for i := 7; i >= 0; i-- {
			sym := uint32(ws2812Bit0)
			if ch&(1<<uint(i)) != 0 {
				sym = ws2812Bit1
			}
			acc = acc<<3 | sym
			bits += 3
			for bits >= 8 {
				bits -= 8
				out = append(out, byte(acc>>uint(bits)))
			}
		}
	}
	return out
}
