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
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cnserrors "github.com/NVIDIA/cmdexplain/pkg/errors"
)

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.Address = "127.0.0.1"
	cfg.Port = 0
	cfg.RateLimit = 0
	return cfg
}

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func TestServer_Health(t *testing.T) {
	s := New(WithConfig(testConfig()))

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)

	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestServer_Ready(t *testing.T) {
	s := New(WithConfig(testConfig()))

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	s.SetReady(true)
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ready", resp.Status)
}

func TestServer_RootListsRoutes(t *testing.T) {
	s := New(
		WithConfig(testConfig()),
		WithName("cmdexplain-test"),
		WithVersion("1.0.0"),
		WithHandler(map[string]http.HandlerFunc{
			"/v1/tokenize": okHandler,
			"/v1/explain":  okHandler,
		}),
	)

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Name    string   `json:"name"`
		Version string   `json:"version"`
		Routes  []string `json:"routes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "cmdexplain-test", resp.Name)
	assert.Equal(t, "1.0.0", resp.Version)
	assert.Equal(t, []string{
		"GET /v1/explain", "GET /v1/tokenize", "GET /health", "GET /ready", "GET /metrics",
	}, resp.Routes)

	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_Metrics(t *testing.T) {
	s := New(WithConfig(testConfig()), WithHandler(map[string]http.HandlerFunc{"/v1/explain": okHandler}))

	s.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/explain", nil))

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "cmdexplain_http_requests_total")
}

func TestMiddleware_RequestID(t *testing.T) {
	var seen string
	s := New(WithConfig(testConfig()), WithHandler(map[string]http.HandlerFunc{
		"/v1/explain": func(w http.ResponseWriter, r *http.Request) {
			seen = RequestIDFromContext(r.Context())
			okHandler(w, r)
		},
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/explain", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
	assert.Equal(t, DefaultAPIVersion, w.Header().Get(APIVersionHeader))

	req = httptest.NewRequest(http.MethodGet, "/v1/explain", nil)
	req.Header.Set(RequestIDHeader, "bad id with spaces")
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.NotEqual(t, "bad id with spaces", seen)
	assert.Len(t, seen, 36)
}

func TestMiddleware_RecoversPanic(t *testing.T) {
	s := New(WithConfig(testConfig()), WithHandler(map[string]http.HandlerFunc{
		"/v1/explain": func(http.ResponseWriter, *http.Request) { panic("boom") },
	}))

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/explain", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, string(cnserrors.ErrCodeInternal), resp.Code)
	assert.Equal(t, w.Header().Get(RequestIDHeader), resp.RequestID)
}

func TestMiddleware_RateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = 1
	cfg.RateLimitBurst = 1
	s := New(WithConfig(cfg), WithHandler(map[string]http.HandlerFunc{"/v1/explain": okHandler}))

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/explain", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/explain", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, string(cnserrors.ErrCodeRateLimitExceeded), resp.Code)
	assert.True(t, resp.Retryable)

	// health is not rate limited
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMiddleware_RequestTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.RequestTimeout = time.Minute
	var hasDeadline bool
	s := New(WithConfig(cfg), WithHandler(map[string]http.HandlerFunc{
		"/v1/explain": func(w http.ResponseWriter, r *http.Request) {
			_, hasDeadline = r.Context().Deadline()
			okHandler(w, r)
		},
	}))

	s.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/explain", nil))
	assert.True(t, hasDeadline)
}

func TestServer_ServeAndShutdown(t *testing.T) {
	cfg := testConfig()
	cfg.ShutdownTimeout = 5 * time.Second
	s := New(WithConfig(cfg))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.serve(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/health"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)
	assert.True(t, s.IsReady())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
	assert.False(t, s.IsReady())
}
