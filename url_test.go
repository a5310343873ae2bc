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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPlayURL(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		tagURI     string
		serverBase string
		deviceID   string
		want       string
	}{
		{
			name:       "path extracted and rebased onto server",
			tagURI:     "https://tag.example.com/play/42",
			serverBase: "http://h:8584",
			deviceID:   "living-room",
			want:       "http://h:8584/play/42?deviceId=living-room",
		},
		{
			name:       "doubled separator collapses at the join",
			tagURI:     "https://tag.example.com/play/42",
			serverBase: "http://h:8584/",
			deviceID:   "living-room",
			want:       "http://h:8584/play/42?deviceId=living-room",
		},
		{
			name:       "existing query uses ampersand",
			tagURI:     "https://tag.example.com/play/42?shuffle=1",
			serverBase: "http://h:8584",
			deviceID:   "kitchen",
			want:       "http://h:8584/play/42?shuffle=1&deviceId=kitchen",
		},
		{
			name:     "no server base keeps tag URI verbatim",
			tagURI:   "https://tag.example.com/play/42",
			deviceID: "kitchen",
			want:     "https://tag.example.com/play/42?deviceId=kitchen",
		},
		{
			name:       "no device id appends nothing",
			tagURI:     "https://tag.example.com/play/42",
			serverBase: "http://h:8584",
			want:       "http://h:8584/play/42",
		},
		{
			name:   "neither configured",
			tagURI: "https://tag.example.com/play/42",
			want:   "https://tag.example.com/play/42",
		},
		{
			name:       "fewer than three slashes uses whole URI as path",
			tagURI:     "spotify:album:xyz",
			serverBase: "http://h:8584",
			want:       "http://h:8584spotify:album:xyz",
		},
		{
			name:       "bare authority with trailing slash",
			tagURI:     "https://tag.example.com/",
			serverBase: "http://h:8584",
			deviceID:   "den",
			want:       "http://h:8584/?deviceId=den",
		},
		{
			name:       "empty tag URI",
			tagURI:     "",
			serverBase: "http://h:8584",
			deviceID:   "den",
			want:       "http://h:8584?deviceId=den",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := BuildPlayURL(tt.tagURI, tt.serverBase, tt.deviceID)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNthSlash(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 7, nthSlash("https://a/b", 2))
	assert.Equal(t, 9, nthSlash("https://a/b", 3))
	assert.Equal(t, -1, nthSlash("https://a", 3))
	assert.Equal(t, -1, nthSlash("", 1))
}
