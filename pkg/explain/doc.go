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

// Package explain turns a raw command line into an Explanation: the tokens,
// the spec that governs the program, the parse tree and a flat node view
// that renderers walk to show what each token means.
//
// The Explainer resolves the program through a registry. A program with no
// spec is not an error; the explanation is returned with spec status
// "unavailable" and no parse tree. Empty input is rejected with
// ErrCodeInvalidRequest.
//
// Usage:
//
//	reg := registry.New()
//	ex := explain.New(reg, explain.WithVersion(version))
//	exp, err := ex.Explain(ctx, "git push origin main --force")
//	if err != nil {
//	    return err
//	}
//	for _, n := range exp.Nodes {
//	    fmt.Println(n.Token, n.Help())
//	}
//
// The same service is exposed over HTTP:
//
//	GET /v1/explain?cmd=git+push+origin+main
//	GET /v1/tokenize?cmd=echo+%22hello+world%22
//	GET /v1/specs?filter=g*
//
// Responses honor the "format" query parameter (json, yaml, table) and the
// Accept header.
package explain
