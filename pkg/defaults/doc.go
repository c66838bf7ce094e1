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

// Package defaults provides centralized configuration constants for cmdexplain.
//
// Timeouts, retry parameters and size limits used across the codebase live
// here so the CLI, the API server and the spec sources agree on them.
//
// # Timeout Categories
//
//   - Spec source timeouts: loading a spec from disk, HTTP, Kubernetes or OCI
//   - Handler timeouts: HTTP request processing
//   - Server timeouts: HTTP server configuration and shutdown
//   - HTTP client timeouts: outbound requests made by spec sources
//
// # Usage
//
//	import "github.com/NVIDIA/cmdexplain/pkg/defaults"
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.SpecLoadTimeout)
//	defer cancel()
package defaults
