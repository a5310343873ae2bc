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

import (
	"errors"
	"fmt"

	ndef "github.com/hsanjuan/go-ndef"
)

// maxTLVPayload is the largest NDEF message a single-byte TLV length field
// can describe without colliding with the 0xFF long-form marker.
const maxTLVPayload = 0xFE

// BuildURIMessage encodes a URI as a single well-known URI record wrapped
// in an NDEF Message TLV with a terminator, ready to be written to tag
// user memory starting at the first data page. The inverse of
// DecodeTagURI, used by the provisioning tool and round-trip tests.
func BuildURIMessage(uri string) ([]byte, error) {
	if uri == "" {
		return nil, errors.New("empty URI")
	}

	rec := ndef.NewURIRecord(uri)
	rec.SetMB(true)
	rec.SetME(true)

	msg := &ndef.Message{Records: []*ndef.Record{rec}}
	payload, err := msg.Marshal()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal NDEF message: %w", err)
	}

	if len(payload) > maxTLVPayload {
		return nil, fmt.Errorf("NDEF message too large for single-byte TLV length: %d bytes", len(payload))
	}

	out := make([]byte, 0, len(payload)+3)
	out = append(out, TLVTypeNDEF, byte(len(payload)))
	out = append(out, payload...)
	out = append(out, TLVTypeTerminator)
	return out, nil
}
