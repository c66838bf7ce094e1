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

package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/cmdexplain/pkg/server"
)

func testConfig(t *testing.T, sources ...string) *server.Config {
	t.Helper()
	t.Setenv(server.EnvConfig, "")
	t.Setenv(server.EnvSources, "")
	cfg := server.DefaultConfig()
	cfg.RateLimit = 0
	if len(sources) > 0 {
		cfg.Sources = sources
	}
	return cfg
}

func TestNewServer_Routes(t *testing.T) {
	s, _, err := newServer(testConfig(t))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Name   string   `json:"name"`
		Routes []string `json:"routes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, name, resp.Name)
	assert.Contains(t, resp.Routes, "GET /v1/explain")
	assert.Contains(t, resp.Routes, "GET /v1/tokenize")
	assert.Contains(t, resp.Routes, "GET /v1/specs")
}

func TestNewServer_ExplainEndpoint(t *testing.T) {
	s, _, err := newServer(testConfig(t))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/explain?cmd=git+status", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(server.RequestIDHeader))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Explanation", body["kind"])
	assert.Equal(t, "git", body["program"])

	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/explain?cmd=git", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestNewServer_DirectorySource(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "kubectl.yaml"), []byte(`
name: kubectl
description: Kubernetes command line tool
subcommands:
  - name: get
    description: Display one or many resources
    args:
      name: resource
`), 0o600))

	s, _, err := newServer(testConfig(t, dir, "builtin"))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/specs?filter=kube*,git", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var list struct {
		Specs []struct {
			Program string `json:"program"`
		} `json:"specs"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Specs, 2)
	assert.Equal(t, "git", list.Specs[0].Program)
	assert.Equal(t, "kubectl", list.Specs[1].Program)
}

func TestNewServer_BadSource(t *testing.T) {
	_, _, err := newServer(testConfig(t, "ftp://example.com/specs"))
	assert.Error(t, err)
}
