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

package serializer

import (
	"log/slog"
	"net/http"
	"strings"
)

const (
	contentTypeJSON  = "application/json"
	contentTypeYAML  = "application/yaml"
	contentTypeTable = "text/plain; charset=utf-8"

	// FormatQueryParam selects the response format on API requests.
	FormatQueryParam = "format"
)

// RespondJSON writes data as a JSON response with the given status code.
// The body is encoded before any header is written so an encoding failure
// becomes a clean 500 instead of a truncated 2xx.
func RespondJSON(w http.ResponseWriter, statusCode int, data any) {
	respond(w, statusCode, FormatJSON, data)
}

// Respond writes data in the format requested by r: the "format" query
// parameter first, then the Accept header, JSON otherwise.
func Respond(w http.ResponseWriter, r *http.Request, statusCode int, data any) {
	respond(w, statusCode, NegotiateFormat(r), data)
}

// NegotiateFormat picks the response format for r.
func NegotiateFormat(r *http.Request) Format {
	if r == nil {
		return FormatJSON
	}
	if f := Format(strings.ToLower(r.URL.Query().Get(FormatQueryParam))); !f.IsUnknown() {
		return f
	}
	accept := r.Header.Get("Accept")
	switch {
	case strings.Contains(accept, "yaml"):
		return FormatYAML
	case strings.Contains(accept, "text/plain"):
		return FormatTable
	default:
		return FormatJSON
	}
}

func respond(w http.ResponseWriter, statusCode int, format Format, data any) {
	var b []byte
	var err error
	if format == FormatJSON {
		b, err = marshalCompactJSON(data)
	} else {
		b, err = Marshal(format, data)
	}
	if err != nil {
		slog.Error("response encoding failed", "format", format, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType(format))
	w.WriteHeader(statusCode)
	if _, err := w.Write(b); err != nil {
		// connection is gone
		slog.Warn("response write failed", "error", err)
	}
}

func contentType(f Format) string {
	switch f {
	case FormatYAML:
		return contentTypeYAML
	case FormatTable:
		return contentTypeTable
	default:
		return contentTypeJSON
	}
}
