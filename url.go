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

import "strings"

// BuildPlayURL combines a decoded tag URI with the optional configured
// server base and device id to form the playback request URL.
//
// With a server base configured the tag URI's scheme and authority are
// stripped: the path begins at the URI's third '/' (the whole URI is used
// when it has fewer than three), and exactly one doubled separator is
// collapsed at the join. Without a base the tag URI is used unchanged. A
// configured device id is appended as a deviceId query parameter. The
// device id is not percent-encoded; provisioning restricts ids to
// URL-safe names.
func BuildPlayURL(tagURI, serverBase, deviceID string) string {
	target := tagURI

	if serverBase != "" {
		path := tagURI
		if i := nthSlash(tagURI, 3); i >= 0 {
			path = tagURI[i:]
		}

		base := serverBase
		if strings.HasSuffix(base, "/") && strings.HasPrefix(path, "/") {
			base = base[:len(base)-1]
		}
		target = base + path
	}

	if deviceID != "" {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + "deviceId=" + deviceID
	}

	return target
}

// nthSlash returns the index of the n-th '/' in s, or -1.
func nthSlash(s string, n int) int {
	count := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '/' {
			count++
			if count == n {
				return i
			}
		}
	}
	return -1
}
