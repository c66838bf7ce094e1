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

package header

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew_Options(t *testing.T) {
	ts := time.Date(2025, 3, 1, 12, 0, 0, 0, time.FixedZone("x", 3600))
	h := New(
		WithKind("Explanation"),
		WithMetadata(MetadataVersion, "v0.1.0"),
		WithTimestamp(ts),
	)

	assert.Equal(t, "Explanation", h.Kind)
	assert.Equal(t, "explanation.cmdexplain.nvidia.com/v1", h.APIVersion)
	assert.Equal(t, "v0.1.0", h.Metadata[MetadataVersion])
	assert.Equal(t, "2025-03-01T11:00:00Z", h.Metadata[MetadataTimestamp])
}

func TestNew_APIVersionOverride(t *testing.T) {
	h := New(WithKind("Spec"), WithAPIVersion("custom/v2"))
	assert.Equal(t, "custom/v2", h.APIVersion)
}

func TestWithMetadata_NilMap(t *testing.T) {
	h := &Header{}
	WithMetadata("k", "v")(h)
	assert.Equal(t, map[string]string{"k": "v"}, h.Metadata)
}

func TestSet(t *testing.T) {
	h := New(WithMetadata("stale", "x"))
	h.Set("Tokens")

	assert.Equal(t, "Tokens", h.Kind)
	assert.Equal(t, "tokens.cmdexplain.nvidia.com/v1", h.APIVersion)
	assert.NotContains(t, h.Metadata, "stale")
	_, err := time.Parse(time.RFC3339, h.Metadata[MetadataTimestamp])
	assert.NoError(t, err)
}
