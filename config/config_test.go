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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMissingFile(t *testing.T) {
	t.Parallel()

	s, err := Open(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)

	_, ok := s.Get(KeyDeviceID)
	assert.False(t, ok)
}

func TestSetSaveReopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "kiosk", "config.toml")

	s, err := Open(path)
	require.NoError(t, err)
	s.Set(KeyDeviceID, "living-room")
	s.Set(KeyServerURL, "http://h:8584")
	require.NoError(t, s.Save())

	s2, err := Open(path)
	require.NoError(t, err)

	id, ok := s2.Get(KeyDeviceID)
	require.True(t, ok)
	assert.Equal(t, "living-room", id)

	url, ok := s2.Get(KeyServerURL)
	require.True(t, ok)
	assert.Equal(t, "http://h:8584", url)
}

func TestServerURLTrailingSlashStripped(t *testing.T) {
	t.Parallel()

	s, err := Open(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)

	s.Set(KeyServerURL, "http://h:8584///")
	url, ok := s.Get(KeyServerURL)
	require.True(t, ok)
	assert.Equal(t, "http://h:8584", url)
}

func TestGetTrimsAndRejectsBlank(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("device_id = \"  den  \"\nserver_url = \"   \"\n"), 0o644))

	s, err := Open(path)
	require.NoError(t, err)

	id, ok := s.Get(KeyDeviceID)
	require.True(t, ok)
	assert.Equal(t, "den", id)

	_, ok = s.Get(KeyServerURL)
	assert.False(t, ok, "whitespace-only values count as unset")
}

func TestUnknownKeysSurviveRewrite(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("wifi_ssid = \"attic\"\n"), 0o644))

	s, err := Open(path)
	require.NoError(t, err)
	s.Set(KeyDeviceID, "attic-deck")
	require.NoError(t, s.Save())

	s2, err := Open(path)
	require.NoError(t, err)

	ssid, ok := s2.Get("wifi_ssid")
	require.True(t, ok)
	assert.Equal(t, "attic", ssid)
}

func TestOpenRejectsMalformedTOML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("device_id = {{{"), 0o644))

	_, err := Open(path)
	require.Error(t, err)
}
