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

// Package header provides the Kubernetes-style envelope (kind, apiVersion,
// metadata) carried by every document cmdexplain emits.
package header

import (
	"fmt"
	"strings"
	"time"
)

const (
	// APIVersionDomain is the group suffix of every apiVersion.
	APIVersionDomain = "cmdexplain.nvidia.com"

	// APIVersionV1 is the current schema version.
	APIVersionV1 = "v1"

	// MetadataTimestamp is the metadata key holding the generation time.
	MetadataTimestamp = "timestamp"

	// MetadataVersion is the metadata key holding the producing binary version.
	MetadataVersion = "version"
)

// Header contains metadata and versioning information for cmdexplain documents.
type Header struct {
	// Kind is the type of the document, for example "Explanation".
	Kind string `json:"kind,omitempty" yaml:"kind,omitempty"`

	// APIVersion identifies the schema of the document.
	APIVersion string `json:"apiVersion,omitempty" yaml:"apiVersion,omitempty"`

	// Metadata contains key-value pairs about how the document was produced.
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Option is a functional option for configuring Header instances.
type Option func(*Header)

// WithKind sets the Kind and derives the matching APIVersion.
func WithKind(kind string) Option {
	return func(h *Header) {
		h.Kind = kind
		h.APIVersion = APIVersion(kind)
	}
}

// WithAPIVersion overrides the APIVersion.
func WithAPIVersion(version string) Option {
	return func(h *Header) {
		h.APIVersion = version
	}
}

// WithMetadata adds a metadata key-value pair.
func WithMetadata(key, value string) Option {
	return func(h *Header) {
		if h.Metadata == nil {
			h.Metadata = make(map[string]string)
		}
		h.Metadata[key] = value
	}
}

// WithTimestamp stamps the metadata with t in RFC 3339 UTC form.
func WithTimestamp(t time.Time) Option {
	return WithMetadata(MetadataTimestamp, t.UTC().Format(time.RFC3339))
}

// New creates a Header with the provided options applied in order.
func New(opts ...Option) *Header {
	h := &Header{
		Metadata: make(map[string]string),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Set initializes the header for kind, deriving the APIVersion and stamping
// the current time.
func (h *Header) Set(kind string) {
	h.Kind = kind
	h.APIVersion = APIVersion(kind)
	h.Metadata = map[string]string{
		MetadataTimestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// APIVersion builds "<kind>.cmdexplain.nvidia.com/v1".
func APIVersion(kind string) string {
	return fmt.Sprintf("%s.%s/%s", strings.ToLower(kind), APIVersionDomain, APIVersionV1)
}
