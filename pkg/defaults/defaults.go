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

package defaults

import "time"

// Spec source timeouts.
const (
	// SpecLoadTimeout bounds a single spec lookup across all sources.
	SpecLoadTimeout = 15 * time.Second

	// SpecRetryMaxElapsed caps the total time spent retrying a remote source.
	SpecRetryMaxElapsed = 10 * time.Second

	// SpecRetryInitialInterval is the first backoff interval for remote sources.
	SpecRetryInitialInterval = 250 * time.Millisecond

	// SpecWatchDebounce coalesces bursts of file system events.
	SpecWatchDebounce = 200 * time.Millisecond
)

// Size limits.
const (
	// MaxSpecBytes is the largest spec document a source will read.
	MaxSpecBytes int64 = 4 << 20

	// MaxCommandLineBytes is the largest command line the API accepts.
	MaxCommandLineBytes = 64 << 10
)

// Handler timeouts.
const (
	// ExplainHandlerTimeout bounds an explain request, spec load included.
	ExplainHandlerTimeout = 30 * time.Second
)

// Server timeouts.
const (
	ServerReadTimeout       = 10 * time.Second
	ServerReadHeaderTimeout = 5 * time.Second
	ServerWriteTimeout      = 30 * time.Second
	ServerIdleTimeout       = 120 * time.Second
	ServerShutdownTimeout   = 30 * time.Second
)

// HTTP client timeouts.
const (
	HTTPClientTimeout = 10 * time.Second
)

// Kubernetes timeouts.
const (
	// K8sGetTimeout bounds a single Kubernetes API read.
	K8sGetTimeout = 30 * time.Second
)
