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

// Command tapdeckd runs the tapdeck kiosk: it reads provisioning config,
// opens the PN532 reader, LED, and button, and drives the control loop
// until terminated. A small HTTP endpoint on the LAN serves status and
// accepts provisioning updates, advertised over mDNS.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/tapdeck-project/tapdeck"
	"github.com/tapdeck-project/tapdeck/config"
	"github.com/tapdeck-project/tapdeck/hardware"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the config file")
	devicePath := flag.String("device", "", "reader device (/dev/i2c-N or serial port, empty to autodetect)")
	ledPort := flag.String("led-spi", "/dev/spidev0.0", "SPI port driving the status LED")
	buttonPin := flag.String("button", "GPIO13", "GPIO pin name of the play button")
	listenAddr := flag.String("listen", ":8420", "provisioning endpoint listen address (empty to disable)")
	debugFlag := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	if *debugFlag {
		tapdeck.SetDebugEnabled(true)
	}

	logger := log.New(os.Stderr, "[tapdeckd] ", log.LstdFlags)
	if err := run(logger, *configPath, *devicePath, *ledPort, *buttonPin, *listenAddr); err != nil {
		logger.Fatalf("%v", err)
	}
}

func run(logger *log.Logger, configPath, devicePath, ledPort, buttonPin, listenAddr string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := config.Open(configPath)
	if err != nil {
		return err
	}

	cfg := tapdeck.DefaultDeviceConfig()
	cfg.DeviceID, _ = store.Get(config.KeyDeviceID)
	cfg.ServerBaseURL, _ = store.Get(config.KeyServerURL)
	if cfg.ServerBaseURL == "" {
		logger.Printf("no server_url configured, playback requests will fail until provisioned")
	}

	reader, err := openReader(logger, devicePath)
	if err != nil {
		return err
	}
	defer reader.Close()

	led, err := hardware.NewWS2812(ledPort)
	if err != nil {
		return fmt.Errorf("open status LED: %w", err)
	}
	defer led.Close()

	button, err := hardware.NewButton(buttonPin)
	if err != nil {
		return fmt.Errorf("open button: %w", err)
	}

	network := newNetwork(cfg.ServerBaseURL)

	dev := tapdeck.NewDevice(cfg, tapdeck.Peripherals{
		Reader:  reader,
		LED:     led,
		Button:  button.Pressed,
		Network: network,
	}, tapdeck.WithLogger(logger))

	if listenAddr != "" {
		prov := newProvisionServer(logger, store, dev)
		if err := prov.start(listenAddr); err != nil {
			return err
		}
		defer prov.stop()
	}

	err = dev.Run(ctx)
	if errors.Is(err, context.Canceled) {
		logger.Printf("shutting down")
		return nil
	}
	return err
}

// openReader opens the PN532 on the given device path, autodetecting an
// I2C bus when no path is given. Serial ports select the UART transport;
// anything with "i2c" in the name selects I2C.
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

// newNetwork builds the connectivity monitor. With a configured server
// the monitor probes its host; without one there is nothing meaningful
// to probe, so connectivity is assumed up.
func newNetwork(serverBase string) tapdeck.Network {
	u, err := url.Parse(serverBase)
	if err != nil || u.Host == "" {
		return hardware.StaticNetwork(true)
	}
	host := u.Host
	if u.Port() == "" {
		port := "80"
		if u.Scheme == "https" {
			port = "443"
		}
		host = u.Hostname() + ":" + port
	}
	return hardware.NewNetMonitor(host)
}
