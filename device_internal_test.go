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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Local stubs; the exported fakes in internal/testing import this
// package and cannot be used from in-package tests.

type stubReader struct {
	detectErr error
	detects   int
}

func (s *stubReader) DetectTag(context.Context, time.Duration) ([]byte, error) {
	s.detects++
	if s.detectErr != nil {
		return nil, s.detectErr
	}
	return []byte{0x04, 0xAA, 0xBB}, nil
}

func (s *stubReader) ReadPage(context.Context, uint8) ([]byte, error) {
	return nil, ErrTagReadFailed
}

func (s *stubReader) WritePage(context.Context, uint8, []byte) error { return nil }

type nopLED struct{}

func (nopLED) SetColor(Color) {}
func (nopLED) Show() error    { return nil }

type stubNetwork struct {
	up         bool
	reconnects int
}

func (s *stubNetwork) Connected() bool { return s.up }
func (s *stubNetwork) Reconnect()      { s.reconnects++ }

func newStubDevice(clock *testClock, reader *stubReader, network *stubNetwork, button *bool) *Device {
	d := NewDevice(DefaultDeviceConfig(), Peripherals{
		Reader:  reader,
		LED:     nopLED{},
		Button:  func() bool { return *button },
		Network: network,
	}, WithLogger(testLogger()), WithClock(clock.now))
	d.debounce.lastChange = clock.now()
	d.leds.enteredAt = clock.now()
	return d
}

// pressOnce drives the debouncer through a clean press.
func pressOnce(ctx context.Context, d *Device, clock *testClock, button *bool) {
	*button = true
	d.Tick(ctx)
	clock.advance(60 * time.Millisecond)
	d.Tick(ctx)
	*button = false
	clock.advance(60 * time.Millisecond)
	d.Tick(ctx)
}

func TestDevicePressIgnoredWhileBusy(t *testing.T) {
	t.Parallel()

	clock := newTestClock()
	reader := &stubReader{}
	button := false
	d := newStubDevice(clock, reader, &stubNetwork{up: true}, &button)

	d.leds.Set(LEDBusy)
	pressOnce(context.Background(), d, clock, &button)

	assert.Zero(t, reader.detects, "press during an in-flight operation must be dropped")
	assert.Equal(t, LEDBusy, d.LEDState())
}

func TestDeviceNoTagHandlingWhileDisconnected(t *testing.T) {
	t.Parallel()

	clock := newTestClock()
	reader := &stubReader{}
	network := &stubNetwork{up: false}
	button := false
	d := newStubDevice(clock, reader, network, &button)

	pressOnce(context.Background(), d, clock, &button)

	assert.Zero(t, reader.detects)
	assert.Equal(t, LEDNoConnectivity, d.LEDState())
}

func TestDeviceReconnectInterval(t *testing.T) {
	t.Parallel()

	clock := newTestClock()
	network := &stubNetwork{up: false}
	button := false
	d := newStubDevice(clock, &stubReader{}, network, &button)
	ctx := context.Background()

	// First tick while down triggers a reconnect immediately.
	d.Tick(ctx)
	assert.Equal(t, 1, network.reconnects)

	// Further ticks within the interval do not.
	for i := 0; i < 5; i++ {
		clock.advance(time.Second)
		d.Tick(ctx)
	}
	assert.Equal(t, 1, network.reconnects)

	clock.advance(31 * time.Second)
	d.Tick(ctx)
	assert.Equal(t, 2, network.reconnects)
}

func TestDeviceConnectivityRecovery(t *testing.T) {
	t.Parallel()

	clock := newTestClock()
	network := &stubNetwork{up: false}
	button := false
	d := newStubDevice(clock, &stubReader{}, network, &button)
	ctx := context.Background()

	d.Tick(ctx)
	assert.Equal(t, LEDNoConnectivity, d.LEDState())

	network.up = true
	d.Tick(ctx)
	assert.Equal(t, LEDIdle, d.LEDState())
}

func TestDeviceReadFailureShowsError(t *testing.T) {
	t.Parallel()

	clock := newTestClock()
	reader := &stubReader{detectErr: ErrNoTagDetected}
	button := false
	d := newStubDevice(clock, reader, &stubNetwork{up: true}, &button)

	pressOnce(context.Background(), d, clock, &button)

	assert.Equal(t, 1, reader.detects)
	assert.Equal(t, LEDError, d.LEDState())
}

func TestDeviceRunStopsOnCancel(t *testing.T) {
	t.Parallel()

	button := false
	d := NewDevice(DefaultDeviceConfig(), Peripherals{
		Reader:  &stubReader{detectErr: ErrNoTagDetected},
		LED:     nopLED{},
		Button:  func() bool { return button },
		Network: &stubNetwork{up: true},
	}, WithLogger(testLogger()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
