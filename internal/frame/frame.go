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

// Package frame implements the PN532 host frame format: preamble, start
// code, length with complement, direction byte, payload, and data
// checksum. Only the normal information frame and the ACK frame are
// needed by the kiosk; extended frames are not supported.
package frame

import (
	"bytes"
	"errors"
)

// Frame direction constants - these indicate the direction of data flow
const (
	HostToPn532 = 0xD4 // Commands from host to PN532
	Pn532ToHost = 0xD5 // Responses from PN532 to host
)

// Frame markers and control bytes
const (
	Preamble   = 0x00 // Frame preamble byte
	StartCode1 = 0x00 // Start code byte 1
	StartCode2 = 0xFF // Start code byte 2
	Postamble  = 0x00 // Frame postamble byte
)

// AckFrame is sent by the PN532 to acknowledge a command frame.
var AckFrame = []byte{0x00, 0x00, 0xFF, 0x00, 0xFF, 0x00}

// Frame parsing errors
var (
	ErrFrameTooShort   = errors.New("frame too short")
	ErrFrameMarker     = errors.New("frame start code not found")
	ErrLengthChecksum  = errors.New("length checksum mismatch")
	ErrDataChecksum    = errors.New("data checksum mismatch")
	ErrWrongDirection  = errors.New("unexpected frame direction")
	ErrUnexpectedReply = errors.New("unexpected response command")
	ErrErrorFrame      = errors.New("device reported application error")
)

// CalculateChecksum computes the checksum for a data buffer.
// This is a simple sum of all bytes in the provided data.
func CalculateChecksum(data []byte) byte {
	chk := byte(0)
	for _, b := range data {
		chk += b
	}
	return chk
}

// Build assembles a command frame for cmd with the given arguments.
func Build(cmd byte, args []byte) []byte {
	length := byte(len(args) + 2) // TFI + command byte

	out := make([]byte, 0, int(length)+7)
	out = append(out, Preamble, StartCode1, StartCode2)
	out = append(out, length, ^length+1)
	out = append(out, HostToPn532, cmd)
	out = append(out, args...)

	dcs := ^(CalculateChecksum(append([]byte{HostToPn532, cmd}, args...))) + 1
	out = append(out, dcs, Postamble)
	return out
}

// IsAck reports whether buf begins with an ACK frame.
func IsAck(buf []byte) bool {
	return len(buf) >= len(AckFrame) && bytes.Equal(buf[:len(AckFrame)], AckFrame)
}

// Extract validates a response frame to command cmd and returns the
// payload after the response command byte. buf may carry leading padding
// before the start code, as the I2C transport delivers.
func Extract(buf []byte, cmd byte) ([]byte, error) {
	start := bytes.Index(buf, []byte{StartCode1, StartCode2})
	if start < 0 {
		return nil, ErrFrameMarker
	}
	body := buf[start+2:]

	if len(body) < 4 {
		return nil, ErrFrameTooShort
	}

	length := body[0]
	if body[0]+body[1] != 0 {
		return nil, ErrLengthChecksum
	}
	if length == 0 {
		return nil, ErrFrameTooShort
	}
	if len(body) < int(length)+3 {
		return nil, ErrFrameTooShort
	}

	data := body[2 : 2+int(length)]
	dcs := body[2+int(length)]
	if CalculateChecksum(data)+dcs != 0 {
		return nil, ErrDataChecksum
	}

	if data[0] != Pn532ToHost {
		// A 0x7F error frame shows up here as a one-byte payload.
		if length == 1 && data[0] == 0x7F {
			return nil, ErrErrorFrame
		}
		return nil, ErrWrongDirection
	}
	if len(data) < 2 || data[1] != cmd+1 {
		return nil, ErrUnexpectedReply
	}

	return data[2:], nil
}
