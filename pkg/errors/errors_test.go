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

package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestStructuredError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *StructuredError
		want string
	}{
		{
			name: "without cause",
			err:  New(ErrCodeNotFound, "spec not found"),
			want: "[NOT_FOUND] spec not found",
		},
		{
			name: "with cause",
			err:  Wrap(ErrCodeUnavailable, "source failed", stderrors.New("connection refused")),
			want: "[SERVICE_UNAVAILABLE] source failed: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStructuredError_UnwrapAndAs(t *testing.T) {
	cause := stderrors.New("boom")
	err := fmt.Errorf("outer: %w", WrapWithContext(ErrCodeInternal, "inner", cause, map[string]any{"k": "v"}))

	if !stderrors.Is(err, cause) {
		t.Fatal("expected errors.Is to find the cause")
	}

	var se *StructuredError
	if !stderrors.As(err, &se) {
		t.Fatalf("expected StructuredError, got %T", err)
	}
	if se.Context["k"] != "v" {
		t.Errorf("expected context k=v, got %#v", se.Context)
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(New(ErrCodeTimeout, "slow")); got != ErrCodeTimeout {
		t.Errorf("CodeOf() = %s, want %s", got, ErrCodeTimeout)
	}
	if got := CodeOf(stderrors.New("plain")); got != ErrCodeInternal {
		t.Errorf("CodeOf(plain) = %s, want %s", got, ErrCodeInternal)
	}
	if !IsCode(fmt.Errorf("wrapped: %w", New(ErrCodeNotFound, "x")), ErrCodeNotFound) {
		t.Error("IsCode() should see through wrapping")
	}
	if IsCode(nil, ErrCodeNotFound) {
		t.Error("IsCode(nil) should be false")
	}
}
