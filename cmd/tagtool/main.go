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

// Command tagtool provisions kiosk tags. It encodes a URI as a
// TLV-wrapped NDEF message and either prints the page layout or writes
// it to a tag on an attached reader.
//
//	tagtool -encode https://music.example.com/play/42
//	tagtool -write https://music.example.com/play/42 -device /dev/i2c-1
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/tapdeck-project/tapdeck"
	"github.com/tapdeck-project/tapdeck/hardware"
)

const (
	pageSize  = 4
	startPage = 4
	lastPage  = 36

	detectTimeout = 5 * time.Second
)

func main() {
	encodeURI := flag.String("encode", "", "URI to encode; prints the tag page layout")
	writeURI := flag.String("write", "", "URI to encode and write to a detected tag")
	devicePath := flag.String("device", "", "reader device (/dev/i2c-N or serial port, empty to autodetect)")
	debugFlag := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	if *debugFlag {
		tapdeck.SetDebugEnabled(true)
	}

	logger := log.New(os.Stderr, "[tagtool] ", 0)

	switch {
	case *encodeURI != "":
		if err := encode(*encodeURI); err != nil {
			logger.Fatalf("%v", err)
		}
	case *writeURI != "":
		if err := write(logger, *writeURI, *devicePath); err != nil {
			logger.Fatalf("%v", err)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
}

// pages splits the encoded message into 4-byte pages, zero-padding the
// last one, and checks it fits the tag's user memory.
func pages(uri string) ([][]byte, error) {
	data, err := tapdeck.BuildURIMessage(uri)
	if err != nil {
		return nil, err
	}

	capacity := (lastPage - startPage) * pageSize
	if len(data) > capacity {
		return nil, fmt.Errorf("encoded message is %d bytes, tag holds %d", len(data), capacity)
	}

	var out [][]byte
	for off := 0; off < len(data); off += pageSize {
		pg := make([]byte, pageSize)
		copy(pg, data[off:])
		out = append(out, pg)
	}
	return out, nil
}

func encode(uri string) error {
	pgs, err := pages(uri)
	if err != nil {
		return err
	}

	fmt.Printf("%d bytes in %d pages\n", len(pgs)*pageSize, len(pgs))
	for i, pg := range pgs {
		var ascii strings.Builder
		for _, b := range pg {
			if b >= 0x20 && b < 0x7F {
				ascii.WriteByte(b)
			} else {
				ascii.WriteByte('.')
			}
		}
		fmt.Printf("page %2d: %02X %02X %02X %02X  %s\n", startPage+i, pg[0], pg[1], pg[2], pg[3], ascii.String())
	}
	return nil
}

func write(logger *log.Logger, uri, devicePath string) error {
	pgs, err := pages(uri)
	if err != nil {
		return err
	}

	reader, err := openReader(logger, devicePath)
	if err != nil {
		return err
	}
	defer reader.Close()

	ctx := context.Background()

	logger.Printf("waiting for tag...")
	uid, err := reader.DetectTag(ctx, detectTimeout)
	if err != nil {
		return fmt.Errorf("no tag found: %w", err)
	}
	logger.Printf("tag %X detected, writing %d pages", uid, len(pgs))

	for i, pg := range pgs {
		page := uint8(startPage + i)
		if err := reader.WritePage(ctx, page, pg); err != nil {
			return fmt.Errorf("write page %d: %w", page, err)
		}
	}

	logger.Printf("done")
	return nil
}

func openReader(logger *log.Logger, devicePath string) (*hardware.Reader, error) {
	if devicePath == "" {
		bus, err := hardware.DetectI2CBus()
		if err != nil {
			return nil, fmt.Errorf("autodetect reader: %w", err)
		}
		logger.Printf("detected PN532 on %s", bus)
		devicePath = bus
	}
	if strings.Contains(devicePath, "i2c") {
		return hardware.NewI2CReader(devicePath)
	}
	return hardware.NewUARTReader(devicePath)
}
