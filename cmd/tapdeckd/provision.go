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

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/grandcat/zeroconf"

	"github.com/tapdeck-project/tapdeck"
	"github.com/tapdeck-project/tapdeck/config"
)

const (
	mdnsService = "_tapdeck._tcp"
	mdnsDomain  = "local."
)

// provisionServer exposes the kiosk's config over the LAN so a phone or
// laptop can provision it without reflashing. GET /config returns the
// current values, POST /config updates and persists them, GET /status
// reports the LED state. The service is advertised over mDNS so the
// companion app can find the kiosk by scanning.
//
// Config changes take effect on the next daemon start; the control core
// works from an immutable snapshot.
type provisionServer struct {
	logger *log.Logger
	store  *config.Store
	dev    *tapdeck.Device
	srv    *http.Server
	mdns   *zeroconf.Server
}

func newProvisionServer(logger *log.Logger, store *config.Store, dev *tapdeck.Device) *provisionServer {
	return &provisionServer{
		logger: logger,
		store:  store,
		dev:    dev,
	}
}

// start begins listening and registers the mDNS service. mDNS failure is
// logged but not fatal; the endpoint still works by direct address.
func (p *provisionServer) start(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/config", p.handleConfig)
	mux.HandleFunc("/status", p.handleStatus)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("provisioning listen: %w", err)
	}

	p.srv = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if serveErr := p.srv.Serve(ln); serveErr != nil && serveErr != http.ErrServerClosed {
			p.logger.Printf("provisioning server: %v", serveErr)
		}
	}()
	p.logger.Printf("provisioning endpoint on %s", ln.Addr())

	p.registerMDNS(ln.Addr())
	return nil
}

func (p *provisionServer) registerMDNS(addr net.Addr) {
	tcpAddr, ok := addr.(*net.TCPAddr)
	if !ok {
		return
	}

	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "tapdeck"
	}
	instance := host
	if id, ok := p.store.Get(config.KeyDeviceID); ok {
		instance = id
	}

	txt := []string{"version=1"}
	if id, ok := p.store.Get(config.KeyDeviceID); ok {
		txt = append(txt, "device_id="+id)
	}

	server, err := zeroconf.Register(instance, mdnsService, mdnsDomain, tcpAddr.Port, txt, nil)
	if err != nil {
		p.logger.Printf("mDNS registration failed: %v", err)
		return
	}
	p.mdns = server
	p.logger.Printf("advertising %s as %q on port %d", mdnsService, instance, tcpAddr.Port)
}

func (p *provisionServer) stop() {
	if p.mdns != nil {
		p.mdns.Shutdown()
	}
	if p.srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = p.srv.Shutdown(ctx)
	}
}

// provisionPayload is the JSON shape of GET and POST /config.
type provisionPayload struct {
	DeviceID  string `json:"deviceId"`
	ServerURL string `json:"serverUrl"`
}

func (p *provisionServer) handleConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		var out provisionPayload
		out.DeviceID, _ = p.store.Get(config.KeyDeviceID)
		out.ServerURL, _ = p.store.Get(config.KeyServerURL)
		writeJSON(w, http.StatusOK, out)

	case http.MethodPost:
		var in provisionPayload
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&in); err != nil {
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		p.store.Set(config.KeyDeviceID, in.DeviceID)
		p.store.Set(config.KeyServerURL, in.ServerURL)
		if err := p.store.Save(); err != nil {
			p.logger.Printf("config save failed: %v", err)
			http.Error(w, "failed to persist config", http.StatusInternalServerError)
			return
		}
		p.logger.Printf("provisioned: device_id=%q server_url=%q (restart to apply)", in.DeviceID, in.ServerURL)
		writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})

	default:
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (p *provisionServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	deviceID, _ := p.store.Get(config.KeyDeviceID)
	writeJSON(w, http.StatusOK, map[string]string{
		"deviceId": deviceID,
		"led":      p.dev.LEDState().String(),
		"uptime":   strconv.FormatInt(int64(time.Since(startTime).Seconds()), 10),
	})
}

var startTime = time.Now()

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
