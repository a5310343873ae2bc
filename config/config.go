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

// Package config persists the kiosk's provisioning values as a small
// key-value store backed by a TOML file. The control core reads a
// snapshot once at startup; the provisioning endpoint writes through Set
// and Save.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Recognized keys. Unknown keys are preserved across load/save so a
// newer daemon does not strip values an older one wrote.
const (
	KeyDeviceID  = "device_id"
	KeyServerURL = "server_url"
)

// DefaultPath is where the daemon looks for its config file.
const DefaultPath = "/etc/tapdeck/config.toml"

// Store is a TOML-file-backed key-value store. Not safe for concurrent
// use; the daemon serializes access through the provisioning handler.
type Store struct {
	values map[string]string
	path   string
}

// Open loads the store at path, or returns an empty store when the file
// does not exist yet. A missing config is normal on first boot.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath
	}

	s := &Store{
		path:   path,
		values: make(map[string]string),
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("open config: %w", err)
	}

	if err := toml.Unmarshal(raw, &s.values); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return s, nil
}

// Get returns the value for key and whether it was present. Values are
// trimmed of surrounding whitespace.
func (s *Store) Get(key string) (string, bool) {
	v, ok := s.values[key]
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

// Set stores a value for key. The server URL is normalized by stripping
// trailing slashes so URL building can reason about exactly one join
// separator.
func (s *Store) Set(key, value string) {
	value = strings.TrimSpace(value)
	if key == KeyServerURL {
		value = strings.TrimRight(value, "/")
	}
	s.values[key] = value
}

// Save writes the store back to its file, creating the parent directory
// when needed.
func (s *Store) Save() error {
	raw, err := toml.Marshal(s.values)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}

	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}
