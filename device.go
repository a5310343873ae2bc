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
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/tapdeck-project/tapdeck/internal/syncutil"
)

// Tag memory layout: NDEF data on NTAG2xx tags starts at page 4, pages
// are 4 bytes, and the raw buffer is capped at what a typical URL needs.
const (
	tagPageSize      = 4
	tagDataStartPage = 4
	tagDataEndPage   = 36
	rawTagBufferCap  = 128
)

// DeviceConfig contains the configuration snapshot and timing parameters
// of the kiosk. DeviceID and ServerBaseURL come from the persisted
// key-value store; both are optional and an empty value silently falls
// back to simpler behavior in BuildPlayURL.
type DeviceConfig struct {
	DeviceID      string
	ServerBaseURL string

	// DebounceWindow is how long a button reading must hold to be trusted.
	DebounceWindow time.Duration
	// StatusDisplay is how long Success/Error stay on the LED.
	StatusDisplay time.Duration
	// DetectTimeout bounds a single tag detection attempt.
	DetectTimeout time.Duration
	// RequestTimeout bounds the playback POST.
	RequestTimeout time.Duration
	// ReconnectInterval is the pause between reconnect attempts while the
	// network is down.
	ReconnectInterval time.Duration
	// TickInterval is the control-loop period.
	TickInterval time.Duration
}

// DefaultDeviceConfig returns the stock kiosk timing.
func DefaultDeviceConfig() *DeviceConfig {
	return &DeviceConfig{
		DebounceWindow:    50 * time.Millisecond,
		StatusDisplay:     2 * time.Second,
		DetectTimeout:     100 * time.Millisecond,
		RequestTimeout:    10 * time.Second,
		ReconnectInterval: 30 * time.Second,
		TickInterval:      10 * time.Millisecond,
	}
}

// Peripherals bundles the hardware capabilities a Device drives.
type Peripherals struct {
	Reader TagReader
	LED    StatusLED
	// Button samples the raw button input; true means pressed.
	Button  func() bool
	Network Network
}

// Device is the kiosk orchestrator. It owns all mutable runtime state:
// the LED state machine, the debouncer, the config snapshot, and the
// in-flight operation guard.
//
// The control loop is single-threaded and non-reentrant: Tick runs the
// whole of one cycle, and a tag read or playback request blocks it. The
// in-flight guard makes the one-operation-at-a-time invariant explicit
// rather than relying on the absence of concurrent callers.
type Device struct {
	config    *DeviceConfig
	reader    TagReader
	led       StatusLED
	button    func() bool
	network   Network
	leds      *LEDController
	debounce  *Debouncer
	requester *Requester
	logger    *log.Logger
	now       func() time.Time

	mu            syncutil.Mutex
	inFlight      bool
	lastReconnect time.Time
}

// DeviceOption customizes a Device.
type DeviceOption func(*Device)

// WithLogger sets the diagnostic logger.
func WithLogger(logger *log.Logger) DeviceOption {
	return func(d *Device) { d.logger = logger }
}

// WithClock overrides the monotonic time source. Used by tests to drive
// debounce windows and display timers deterministically.
func WithClock(now func() time.Time) DeviceOption {
	return func(d *Device) {
		d.now = now
		d.leds.now = now
		d.debounce.now = now
	}
}

// NewDevice creates a kiosk device from a config snapshot and its
// peripherals. The LED starts in the NoConnectivity state until the first
// tick proves otherwise.
func NewDevice(config *DeviceConfig, p Peripherals, opts ...DeviceOption) *Device {
	if config == nil {
		config = DefaultDeviceConfig()
	}

	d := &Device{
		config:   config,
		reader:   p.Reader,
		led:      p.LED,
		button:   p.Button,
		network:  p.Network,
		leds:     NewLEDController(config.StatusDisplay),
		debounce: NewDebouncer(config.DebounceWindow),
		logger:   log.New(os.Stderr, "[tapdeck] ", log.LstdFlags),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.requester = NewRequester(config.RequestTimeout, d.logger)
	return d
}

// LEDState returns the current LED state. Exposed for status reporting.
func (d *Device) LEDState() LEDState {
	return d.leds.State()
}

// Config returns the active configuration snapshot.
func (d *Device) Config() *DeviceConfig {
	return d.config
}

// Run drives the control loop until ctx is cancelled. Each tick is
// strictly sequential; a blocking tag read or playback request stalls the
// LED animation and connectivity monitoring for its duration, which is
// the accepted trade-off for a low-duty-cycle kiosk.
func (d *Device) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.config.TickInterval)
	defer ticker.Stop()

	d.logger.Printf("ready, awaiting button press")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			d.Tick(ctx)
		}
	}
}

// Tick runs one control-loop cycle: render the LED, evaluate
// connectivity, poll the button, and on a press event run a single
// read-decode-request operation to completion.
func (d *Device) Tick(ctx context.Context) {
	d.renderLED()

	if !d.network.Connected() {
		d.leds.ConnectivityLost()
		if d.now().Sub(d.lastReconnect) > d.config.ReconnectInterval {
			d.lastReconnect = d.now()
			d.logger.Printf("network down, triggering reconnect")
			d.network.Reconnect()
		}
		// No button or tag handling while disconnected.
		return
	}
	d.leds.ConnectivityRestored()

	if !d.debounce.Poll(d.button()) {
		return
	}

	if d.leds.State() == LEDBusy {
		Debugln("press ignored: operation in flight")
		return
	}

	d.handlePress(ctx)
}

// handlePress runs one complete operation. Presses arriving while an
// operation is in flight are dropped silently: never queued, never
// allowed to interrupt.
func (d *Device) handlePress(ctx context.Context) {
	d.mu.Lock()
	if d.inFlight {
		d.mu.Unlock()
		Debugln("press ignored: operation in flight")
		return
	}
	d.inFlight = true
	d.mu.Unlock()
	defer func() {
		d.mu.Lock()
		d.inFlight = false
		d.mu.Unlock()
	}()

	d.logger.Printf("button pressed, reading tag")

	data, err := d.readTag(ctx)
	if err != nil {
		d.logger.Printf("tag read failed: %v", err)
		d.leds.Set(LEDError)
		return
	}

	uri, err := DecodeTagURI(data)
	if err != nil {
		d.logger.Printf("decode failed: %v", err)
		d.leds.Set(LEDError)
		return
	}
	Debugf("tag URI: %s", uri)

	d.leds.Set(LEDBusy)
	d.renderLED()

	url := BuildPlayURL(uri, d.config.ServerBaseURL, d.config.DeviceID)
	if err := d.requester.Play(ctx, url); err != nil {
		d.logger.Printf("playback failed: %v", err)
		d.leds.Set(LEDError)
		return
	}
	d.leds.Set(LEDSuccess)
}

// readTag detects a tag and fills the raw buffer with sequential page
// reads, stopping at the first failed page or at capacity. The buffer
// length is however many bytes were read; at least one full page must
// arrive for the read to count.
func (d *Device) readTag(ctx context.Context) ([]byte, error) {
	uid, err := d.reader.DetectTag(ctx, d.config.DetectTimeout)
	if err != nil {
		return nil, err
	}
	Debugf("tag detected, uid %X", uid)

	buf := make([]byte, 0, rawTagBufferCap)
	for page := uint8(tagDataStartPage); page < tagDataEndPage && len(buf) < rawTagBufferCap-tagPageSize; page++ {
		pg, pageErr := d.reader.ReadPage(ctx, page)
		if pageErr != nil {
			break
		}
		buf = append(buf, pg...)
	}

	if len(buf) < tagPageSize {
		return nil, fmt.Errorf("%w: read %d bytes", ErrTagReadFailed, len(buf))
	}
	return buf, nil
}

// renderLED pushes the current LED color to the hardware. Runs every
// tick, and again immediately after entering Busy so the amber shows
// before the blocking request starts.
func (d *Device) renderLED() {
	d.led.SetColor(d.leds.Tick())
	if err := d.led.Show(); err != nil {
		Debugf("led show failed: %v", err)
	}
}
