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
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// maxResponseLog caps how much of a playback response body is read for
// the diagnostic log line. The body is informational only.
const maxResponseLog = 512

// Requester issues the playback request for a decoded tag URI: one
// synchronous POST with an empty body and a fixed timeout. Exactly one
// attempt, no retry, no backoff.
type Requester struct {
	client *http.Client
	logger *log.Logger
}

// NewRequester creates a requester whose requests time out after the
// given duration.
func NewRequester(timeout time.Duration, logger *log.Logger) *Requester {
	return &Requester{
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Play POSTs to url and reduces the outcome to success or failure: any
// status in [200,300) is success; timeouts, connection failures, and
// every other status return ErrNetworkFailure. The call blocks the
// control loop until the response or the timeout.
func (r *Requester) Play(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetworkFailure, err)
	}
	req.ContentLength = 0

	r.logger.Printf("POST %s", url)

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetworkFailure, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseLog))
	r.logger.Printf("response: %d %s", resp.StatusCode, strings.TrimSpace(string(body)))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: status %d", ErrNetworkFailure, resp.StatusCode)
	}
	return nil
}
