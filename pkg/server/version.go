// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

package server

import (
	"net/http"
	"regexp"
)

const (
	// DefaultAPIVersion is served when the client does not ask for one.
	DefaultAPIVersion = "v1"

	// APIVersionHeader reports the API version a response was produced with.
	APIVersionHeader = "X-API-Version"
)

var (
	supportedAPIVersions = map[string]struct{}{"v1": {}}

	// application/vnd.nvidia.cmdexplain.v1+json
	vendorMediaType = regexp.MustCompile(`application/vnd\.nvidia\.cmdexplain\.(v[0-9]+)\+(json|yaml)`)
)

// negotiateAPIVersion reads the version from a vendor media type in Accept.
// Unsupported or malformed versions fall back to the default.
func negotiateAPIVersion(r *http.Request) string {
	m := vendorMediaType.FindStringSubmatch(r.Header.Get("Accept"))
	if m == nil || !isValidAPIVersion(m[1]) {
		return DefaultAPIVersion
	}
	return m[1]
}

func isValidAPIVersion(v string) bool {
	_, ok := supportedAPIVersions[v]
	return ok
}
