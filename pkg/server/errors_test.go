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
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cnserrors "github.com/NVIDIA/cmdexplain/pkg/errors"
)

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHTTPStatusFromCode(t *testing.T) {
	tests := map[cnserrors.ErrorCode]int{
		cnserrors.ErrCodeInvalidRequest:    http.StatusBadRequest,
		cnserrors.ErrCodeUnauthorized:      http.StatusUnauthorized,
		cnserrors.ErrCodeNotFound:          http.StatusNotFound,
		cnserrors.ErrCodeMethodNotAllowed:  http.StatusMethodNotAllowed,
		cnserrors.ErrCodeRateLimitExceeded: http.StatusTooManyRequests,
		cnserrors.ErrCodeUnavailable:       http.StatusServiceUnavailable,
		cnserrors.ErrCodeTimeout:           http.StatusGatewayTimeout,
		cnserrors.ErrCodeInternal:          http.StatusInternalServerError,
	}
	for code, want := range tests {
		assert.Equal(t, want, HTTPStatusFromCode(code), "code %s", code)
	}
	assert.Equal(t, http.StatusInternalServerError, HTTPStatusFromCode("SOMETHING_ELSE"))
}

func TestRetryableFromCode(t *testing.T) {
	for _, code := range []cnserrors.ErrorCode{
		cnserrors.ErrCodeTimeout, cnserrors.ErrCodeUnavailable,
		cnserrors.ErrCodeRateLimitExceeded, cnserrors.ErrCodeInternal,
	} {
		assert.True(t, retryableFromCode(code), "code %s", code)
	}
	for _, code := range []cnserrors.ErrorCode{
		cnserrors.ErrCodeInvalidRequest, cnserrors.ErrCodeUnauthorized,
		cnserrors.ErrCodeNotFound, cnserrors.ErrCodeMethodNotAllowed,
		cnserrors.ErrorCode("SOMETHING_ELSE"),
	} {
		assert.False(t, retryableFromCode(code), "code %s", code)
	}
}

func TestMergeDetails(t *testing.T) {
	assert.Nil(t, mergeDetails(nil, nil))
	assert.Nil(t, mergeDetails(map[string]any{}, map[string]any{}))

	got := mergeDetails(
		map[string]any{"program": "git", "shared": "old"},
		map[string]any{"source": "builtin", "shared": "new"},
	)
	assert.Equal(t, map[string]any{"program": "git", "source": "builtin", "shared": "new"}, got)
}

func TestWriteError_UsesContextRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/explain", nil)
	req = req.WithContext(context.WithValue(req.Context(), contextKeyRequestID, "req-123"))
	w := httptest.NewRecorder()

	WriteError(w, req, http.StatusBadRequest, cnserrors.ErrCodeInvalidRequest, "cmd is required", false,
		map[string]any{"param": "cmd"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, string(cnserrors.ErrCodeInvalidRequest), resp.Code)
	assert.Equal(t, "cmd is required", resp.Message)
	assert.Equal(t, "req-123", resp.RequestID)
	assert.False(t, resp.Retryable)
	assert.Equal(t, "cmd", resp.Details["param"])
}

func TestWriteError_GeneratesRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	WriteError(w, req, http.StatusInternalServerError, cnserrors.ErrCodeInternal, "x", true, nil)

	resp := decodeError(t, w)
	assert.NotEmpty(t, resp.RequestID)
	assert.Nil(t, resp.Details)
}

func TestWriteErrorFromErr_Structured(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	err := cnserrors.WrapWithContext(cnserrors.ErrCodeUnavailable, "spec source unavailable",
		errors.New("connection refused"), map[string]any{"source": "https://specs.example.com"})

	WriteErrorFromErr(w, req, err, "fallback", map[string]any{"program": "git"})

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, string(cnserrors.ErrCodeUnavailable), resp.Code)
	assert.Equal(t, "spec source unavailable", resp.Message)
	assert.True(t, resp.Retryable)
	assert.Equal(t, "https://specs.example.com", resp.Details["source"])
	assert.Equal(t, "git", resp.Details["program"])
	assert.Equal(t, "connection refused", resp.Details["error"])
}

func TestWriteErrorFromErr_PlainErrorIsInternal(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	WriteErrorFromErr(w, req, errors.New("boom"), "failed to explain command", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, string(cnserrors.ErrCodeInternal), resp.Code)
	assert.Equal(t, "failed to explain command", resp.Message)
	assert.True(t, resp.Retryable)
	assert.Equal(t, "boom", resp.Details["error"])
}

func TestMethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodDelete, "/v1/explain", nil)
	w := httptest.NewRecorder()

	MethodNotAllowed(w, req, http.MethodGet, http.MethodHead)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "GET, HEAD", w.Header().Get("Allow"))
	resp := decodeError(t, w)
	assert.Equal(t, string(cnserrors.ErrCodeMethodNotAllowed), resp.Code)
	assert.Equal(t, http.MethodDelete, resp.Details["method"])
}
