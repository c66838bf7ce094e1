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
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	cnserrors "github.com/NVIDIA/cmdexplain/pkg/errors"
	"github.com/NVIDIA/cmdexplain/pkg/serializer"
)

// WriteError writes an ErrorResponse with the request ID of r.
func WriteError(w http.ResponseWriter, r *http.Request, statusCode int,
	code cnserrors.ErrorCode, message string, retryable bool, details map[string]any) {

	requestID := RequestIDFromContext(r.Context())
	if requestID == "" {
		requestID = uuid.New().String()
	}

	serializer.RespondJSON(w, statusCode, ErrorResponse{
		Code:      string(code),
		Message:   message,
		Details:   details,
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
		Retryable: retryable,
	})
}

// WriteErrorFromErr writes err as an ErrorResponse. Structured errors keep
// their code, message and context; anything else is reported as INTERNAL
// with fallbackMessage. The cause, when present, is added as details.error.
func WriteErrorFromErr(w http.ResponseWriter, r *http.Request, err error, fallbackMessage string, details map[string]any) {
	var se *cnserrors.StructuredError
	if errors.As(err, &se) {
		merged := mergeDetails(se.Context, details)
		if se.Cause != nil {
			merged = mergeDetails(merged, map[string]any{"error": se.Cause.Error()})
		}
		if HTTPStatusFromCode(se.Code) >= http.StatusInternalServerError {
			slog.Error("request failed", "path", r.URL.Path, "code", se.Code, "error", err)
		}
		WriteError(w, r, HTTPStatusFromCode(se.Code), se.Code, se.Message, retryableFromCode(se.Code), merged)
		return
	}

	slog.Error("request failed", "path", r.URL.Path, "error", err)
	merged := mergeDetails(details, map[string]any{"error": err.Error()})
	WriteError(w, r, http.StatusInternalServerError, cnserrors.ErrCodeInternal, fallbackMessage, true, merged)
}

// HTTPStatusFromCode maps an error code to its HTTP status.
func HTTPStatusFromCode(code cnserrors.ErrorCode) int {
	switch code {
	case cnserrors.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case cnserrors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case cnserrors.ErrCodeNotFound:
		return http.StatusNotFound
	case cnserrors.ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case cnserrors.ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case cnserrors.ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	case cnserrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func retryableFromCode(code cnserrors.ErrorCode) bool {
	switch code {
	case cnserrors.ErrCodeTimeout, cnserrors.ErrCodeUnavailable,
		cnserrors.ErrCodeRateLimitExceeded, cnserrors.ErrCodeInternal:
		return true
	default:
		return false
	}
}

// mergeDetails returns a new map with b's entries over a's, or nil when
// both are empty.
func mergeDetails(a, b map[string]any) map[string]any {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	out := make(map[string]any, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

// MethodNotAllowed answers a request whose method is not in allowed.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request, allowed ...string) {
	allow := http.MethodGet
	if len(allowed) > 0 {
		allow = allowed[0]
		for _, m := range allowed[1:] {
			allow += ", " + m
		}
	}
	w.Header().Set("Allow", allow)
	WriteError(w, r, http.StatusMethodNotAllowed, cnserrors.ErrCodeMethodNotAllowed,
		"method not allowed", false, map[string]any{"method": r.Method})
}
