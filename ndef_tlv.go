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

// TLV type constants per NFC Forum Type 2 Tag specification
const (
	TLVTypeNull       = 0x00 // NULL TLV - padding byte, no length field
	TLVTypeNDEF       = 0x03 // NDEF Message TLV - contains NDEF data
	TLVTypeTerminator = 0xFE // Terminator TLV - end of data area, no length field
)

// TLV parsing errors
var (
	ErrTLVDataTooShort = errors.New("TLV data too short")
	ErrTLVNDEFNotFound = errors.New("NDEF TLV not found")
)

// NDEFLocation represents the location of NDEF data within a TLV structure.
type NDEFLocation struct {
	// Offset is the byte offset where the NDEF message starts (after the
	// TLV type and length bytes).
	Offset int
	// Length is the declared length of the NDEF message in bytes. The
	// declared length is not trusted: record parsing is bounds-checked
	// against the end of the raw buffer, not against this value.
	Length int
}

// ScanForNDEFTLV walks the TLV sequence in a raw tag buffer and returns
// the location of the first NDEF Message TLV (0x03). NULL TLVs (0x00)
// carry no length byte and are skipped one byte at a time; a Terminator
// TLV (0xFE) ends the data area; every other type carries a single length
// byte and is skipped over. Tag memory uses the single-byte TLV length
// form, so a length field is always exactly one byte.
func ScanForNDEFTLV(data []byte) (*NDEFLocation, error) {
	if len(data) < 2 {
		return nil, ErrTLVDataTooShort
	}

	offset := 0
	for offset < len(data) {
		tlvType := data[offset]
		offset++

		switch tlvType {
		case TLVTypeNull:
			continue
		case TLVTypeTerminator:
			return nil, ErrTLVNDEFNotFound
		}

		if offset >= len(data) {
			return nil, ErrTLVDataTooShort
		}
		length := int(data[offset])
		offset++

		if tlvType == TLVTypeNDEF {
			return &NDEFLocation{Offset: offset, Length: length}, nil
		}

		// Lock Control, Memory Control, proprietary: skip the value.
		offset += length
	}

	return nil, ErrTLVNDEFNotFound
}
