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

package explain

import (
	"net/http"

	cnserrors "github.com/NVIDIA/cmdexplain/pkg/errors"
	"github.com/NVIDIA/cmdexplain/pkg/serializer"
	"github.com/NVIDIA/cmdexplain/pkg/server"
)

const (
	// CommandQueryParam carries the command line on API requests.
	CommandQueryParam = "cmd"

	// FilterQueryParam carries the wildcard filter on /v1/specs.
	FilterQueryParam = "filter"
)

// Handlers returns the API routes served by e.
func (e *Explainer) Handlers() map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		"/v1/explain":  e.HandleExplain,
		"/v1/tokenize": e.HandleTokenize,
		"/v1/specs":    e.HandleSpecs,
	}
}

// commandParam reads the required cmd query parameter. It writes the error
// response and returns false when the request cannot proceed.
func commandParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	if r.Method != http.MethodGet {
		server.MethodNotAllowed(w, r, http.MethodGet)
		return "", false
	}

	q := r.URL.Query()
	if !q.Has(CommandQueryParam) {
		server.WriteError(w, r, http.StatusBadRequest, cnserrors.ErrCodeInvalidRequest,
			"missing required query parameter", false, map[string]any{
				"param": CommandQueryParam,
			})
		return "", false
	}
	return q.Get(CommandQueryParam), true
}

// HandleExplain explains the command line in the cmd query parameter.
//
// Example:
//
//	GET /v1/explain?cmd=git+reset+--hard+HEAD
func (e *Explainer) HandleExplain(w http.ResponseWriter, r *http.Request) {
	line, ok := commandParam(w, r)
	if !ok {
		return
	}

	exp, err := e.Explain(r.Context(), line)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "failed to explain command", nil)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	serializer.Respond(w, r, http.StatusOK, exp)
}

// HandleTokenize splits the command line in the cmd query parameter.
func (e *Explainer) HandleTokenize(w http.ResponseWriter, r *http.Request) {
	line, ok := commandParam(w, r)
	if !ok {
		return
	}

	tok, err := e.Tokenize(line)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "failed to tokenize command", nil)
		return
	}

	serializer.Respond(w, r, http.StatusOK, tok)
}

// HandleSpecs lists the available programs, optionally filtered.
//
// Example:
//
//	GET /v1/specs?filter=git,*sh
func (e *Explainer) HandleSpecs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		server.MethodNotAllowed(w, r, http.MethodGet)
		return
	}

	list, err := e.Specs(r.Context(), r.URL.Query().Get(FilterQueryParam))
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "failed to list specs", nil)
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=60")
	serializer.Respond(w, r, http.StatusOK, list)
}
