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

// Package registry resolves a program name to its command specification.
//
// A Registry consults an ordered list of Sources and returns the first spec
// found. Results, including "unavailable", are cached per program until
// Invalidate or Reset is called.
//
// # Sources
//
//   - builtin: specs compiled into the binary (mv, git, brew, npm, echo)
//   - directory: <dir>/<any depth>/<program>.<ext>, ext one of yaml, yml,
//     json, jsonc
//   - HTTP: <base>/<program>.<ext>, retried with exponential backoff
//   - ConfigMap: cm://namespace/name, one data key per program
//   - OCI: oci://registry/repository:tag, one layer per program titled
//     <program>.<ext>
//
// SourceFromURI builds a Source from any of these URI forms.
//
// # Usage
//
//	reg := registry.New(registry.WithSources(registry.NewEmbeddedSource()))
//	cs, err := reg.Get(ctx, "git")
//	if errors.IsCode(err, errors.ErrCodeNotFound) {
//		// no spec, explain the line without one
//	}
//
// Every spec is validated before it is cached, so callers may hand it to the
// parser directly.
package registry
