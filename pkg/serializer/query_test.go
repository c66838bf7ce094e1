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

package serializer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuery(t *testing.T) {
	data := map[string]any{
		"program": "git",
		"tokens":  []string{"git", "push", "origin"},
	}
	ctx := context.Background()

	got, err := Query(ctx, data, ".program")
	require.NoError(t, err)
	assert.Equal(t, "git", got)

	got, err = Query(ctx, data, ".tokens[]")
	require.NoError(t, err)
	assert.Equal(t, []any{"git", "push", "origin"}, got)

	got, err = Query(ctx, data, ".tokens | length")
	require.NoError(t, err)
	assert.EqualValues(t, 3, got)

	got, err = Query(ctx, data, "empty")
	require.NoError(t, err)
	assert.Equal(t, []any{}, got)
}

func TestQuery_Errors(t *testing.T) {
	_, err := Query(context.Background(), map[string]any{}, ".[")
	assert.ErrorContains(t, err, "invalid query")

	_, err = Query(context.Background(), map[string]any{"a": "x"}, ".a | error")
	assert.Error(t, err)
}
