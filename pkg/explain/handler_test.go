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
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cnserrors "github.com/NVIDIA/cmdexplain/pkg/errors"
	"github.com/NVIDIA/cmdexplain/pkg/server"
)

func get(t *testing.T, h http.HandlerFunc, path string, query url.Values) *httptest.ResponseRecorder {
	t.Helper()
	target := path
	if query != nil {
		target += "?" + query.Encode()
	}
	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestHandlers_MethodNotAllowed(t *testing.T) {
	ex := newTestExplainer()
	for path, h := range ex.Handlers() {
		for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch} {
			t.Run(method+" "+path, func(t *testing.T) {
				w := httptest.NewRecorder()
				h(w, httptest.NewRequest(method, path+"?cmd=git", nil))

				assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
				assert.Equal(t, http.MethodGet, w.Header().Get("Allow"))
			})
		}
	}
}

func TestHandleExplain_JSON(t *testing.T) {
	ex := newTestExplainer()
	w := get(t, ex.HandleExplain, "/v1/explain", url.Values{"cmd": {"git reset --hard HEAD"}})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

	var exp Explanation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &exp))
	assert.Equal(t, KindExplanation, exp.Kind)
	assert.Equal(t, SpecFound, exp.Spec.Status)
	assert.Equal(t, []string{"git", "reset", "--hard", "HEAD"}, exp.Tokens)
	require.NotNil(t, exp.Command)
	require.NotNil(t, exp.Command.Subcommand)
	assert.Equal(t, "reset", exp.Command.Subcommand.Name)
	assert.NotEmpty(t, exp.Nodes)
}

func TestHandleExplain_Table(t *testing.T) {
	ex := newTestExplainer()
	w := get(t, ex.HandleExplain, "/v1/explain", url.Values{
		"cmd":    {"brew install --cask some-app"},
		"format": {"table"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, w.Body.String(), "ROLE")
	assert.Contains(t, w.Body.String(), "--cask")
}

func TestHandleExplain_BadRequests(t *testing.T) {
	ex := newTestExplainer(WithMaxCommandLength(32))

	tests := []struct {
		name  string
		query url.Values
	}{
		{"missing cmd", nil},
		{"blank cmd", url.Values{"cmd": {"   "}}},
		{"too long", url.Values{"cmd": {"git commit -m 'a very long commit message'"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(t, ex.HandleExplain, "/v1/explain", tt.query)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp server.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, string(cnserrors.ErrCodeInvalidRequest), resp.Code)
			assert.False(t, resp.Retryable)
		})
	}
}

func TestHandleExplain_ResolverFailure(t *testing.T) {
	ex := New(failingResolver{err: cnserrors.New(cnserrors.ErrCodeTimeout, "spec lookup timed out")})
	w := get(t, ex.HandleExplain, "/v1/explain", url.Values{"cmd": {"git status"}})

	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	var resp server.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Retryable)
}

func TestHandleTokenize(t *testing.T) {
	ex := newTestExplainer()
	w := get(t, ex.HandleTokenize, "/v1/tokenize", url.Values{"cmd": {`echo "hello world"`}})

	require.Equal(t, http.StatusOK, w.Code)
	var tok Tokenization
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tok))
	assert.Equal(t, []string{"echo", "hello world"}, tok.Tokens)
}

func TestHandleSpecs(t *testing.T) {
	ex := newTestExplainer()
	w := get(t, ex.HandleSpecs, "/v1/specs", url.Values{"filter": {"*v"}})

	require.Equal(t, http.StatusOK, w.Code)
	var list SpecList
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Specs, 1)
	assert.Equal(t, "mv", list.Specs[0].Program)

	ex = New(failingResolver{err: errors.New("disk on fire")})
	w = get(t, ex.HandleSpecs, "/v1/specs", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
