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

// Package testing provides virtual peripherals for exercising the kiosk
// control core without hardware: a simulated NTAG-style tag, a recording
// LED, a manual clock, and a scriptable network.
package testing

import (
	"context"
	"fmt"
	"time"

	"github.com/tapdeck-project/tapdeck"
)

// TestTagUID is the default UID for virtual tags (7-byte NXP-style UID).
var TestTagUID = []byte{0x04, 0xA2, 0x2B, 0x6A, 0x94, 0x66, 0x80}

const virtualPageSize = 4

// VirtualTag simulates an NTAG-style tag behind the TagReader capability.
// Page memory is sparse; unwritten pages read as zeros, which a decoder
// sees as NULL TLV padding.
type VirtualTag struct {
	Pages map[uint8][]byte
	UID   []byte
	// FailFromPage makes reads of that page and beyond fail, simulating
	// a tag leaving the field mid-read. Zero disables it.
	FailFromPage uint8
	// Present controls whether DetectTag sees the tag at all.
	Present bool
	// PageReads counts successful page reads.
	PageReads int
}

// NewVirtualTag creates an empty, present tag.
func NewVirtualTag(uid []byte) *VirtualTag {
	if uid == nil {
		uid = TestTagUID
	}
	return &VirtualTag{
		UID:     uid,
		Pages:   make(map[uint8][]byte),
		Present: true,
	}
}

// NewVirtualTagWithURI creates a tag whose user memory holds uri as a
// TLV-wrapped NDEF URI record, the way a provisioned kiosk tag is
// written.
func NewVirtualTagWithURI(uri string) (*VirtualTag, error) {
	data, err := tapdeck.BuildURIMessage(uri)
	if err != nil {
		return nil, fmt.Errorf("encode tag content: %w", err)
	}
	vt := NewVirtualTag(nil)
	vt.LoadData(data)
	return vt, nil
}

// LoadData writes raw bytes into user memory starting at page 4.
func (vt *VirtualTag) LoadData(data []byte) {
	page := uint8(4)
	for off := 0; off < len(data); off += virtualPageSize {
		end := off + virtualPageSize
		if end > len(data) {
			end = len(data)
		}
		pg := make([]byte, virtualPageSize)
		copy(pg, data[off:end])
		vt.Pages[page] = pg
		page++
	}
}

// DetectTag implements tapdeck.TagReader.
func (vt *VirtualTag) DetectTag(_ context.Context, _ time.Duration) ([]byte, error) {
	if !vt.Present {
		return nil, tapdeck.ErrNoTagDetected
	}
	return vt.UID, nil
}

// ReadPage implements tapdeck.TagReader.
func (vt *VirtualTag) ReadPage(_ context.Context, page uint8) ([]byte, error) {
	if !vt.Present {
		return nil, tapdeck.ErrTagReadFailed
	}
	if vt.FailFromPage != 0 && page >= vt.FailFromPage {
		return nil, fmt.Errorf("%w: page %d", tapdeck.ErrTagReadFailed, page)
	}
	vt.PageReads++
	if pg, ok := vt.Pages[page]; ok {
		out := make([]byte, virtualPageSize)
		copy(out, pg)
		return out, nil
	}
	return make([]byte, virtualPageSize), nil
}

// WritePage implements tapdeck.TagReader.
func (vt *VirtualTag) WritePage(_ context.Context, page uint8, data []byte) error {
	if !vt.Present {
		return tapdeck.ErrNoTagDetected
	}
	if len(data) != virtualPageSize {
		return fmt.Errorf("page write needs exactly %d bytes, got %d", virtualPageSize, len(data))
	}
	pg := make([]byte, virtualPageSize)
	copy(pg, data)
	vt.Pages[page] = pg
	return nil
}
