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
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestRequesterPlaySuccess(t *testing.T) {
	t.Parallel()

	var gotMethod, gotURL string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotURL = r.URL.String()
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	r := NewRequester(time.Second, testLogger())
	err := r.Play(context.Background(), srv.URL+"/play/42?deviceId=kitchen")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/play/42?deviceId=kitchen", gotURL)
	assert.Empty(t, gotBody)
}

func TestRequesterPlayStatuses(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{name: "200 OK", status: http.StatusOK},
		{name: "204 no content", status: http.StatusNoContent},
		{name: "299 edge of success", status: 299},
		{name: "301 redirect status is failure", status: http.StatusMovedPermanently, wantErr: true},
		{name: "404 not found", status: http.StatusNotFound, wantErr: true},
		{name: "500 server error", status: http.StatusInternalServerError, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			err := NewRequester(time.Second, testLogger()).Play(context.Background(), srv.URL)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrNetworkFailure)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestRequesterPlayConnectionRefused(t *testing.T) {
	t.Parallel()

	// A server that is already closed refuses the connection.
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	err := NewRequester(time.Second, testLogger()).Play(context.Background(), srv.URL)
	require.ErrorIs(t, err, ErrNetworkFailure)
}

func TestRequesterPlayTimeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	start := time.Now()
	err := NewRequester(50*time.Millisecond, testLogger()).Play(context.Background(), srv.URL)
	require.ErrorIs(t, err, ErrNetworkFailure)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRequesterPlayBadURL(t *testing.T) {
	t.Parallel()

	err := NewRequester(time.Second, testLogger()).Play(context.Background(), "http://host\x00bad")
	require.ErrorIs(t, err, ErrNetworkFailure)
}
