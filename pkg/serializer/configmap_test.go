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
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"
)

func TestParseConfigMapURI(t *testing.T) {
	ns, name, err := ParseConfigMapURI("cm://tools/specs")
	require.NoError(t, err)
	assert.Equal(t, "tools", ns)
	assert.Equal(t, "specs", name)

	for _, bad := range []string{"tools/specs", "cm://", "cm://tools", "cm:///specs", "cm://tools/"} {
		_, _, err := ParseConfigMapURI(bad)
		assert.Error(t, err, bad)
	}
}

func TestConfigMapWriter_CreatesThenUpdates(t *testing.T) {
	ctx := context.Background()
	cs := fake.NewSimpleClientset()

	w := NewConfigMapWriter(FormatJSON, "tools", "explain", cs)
	require.NoError(t, w.Serialize(ctx, testConfig{Name: "git", Value: 1}))

	cm, err := cs.CoreV1().ConfigMaps("tools").Get(ctx, "explain", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, "cmdexplain", cm.Labels["app.kubernetes.io/managed-by"])

	var got testConfig
	require.NoError(t, json.Unmarshal([]byte(cm.Data["output.json"]), &got))
	assert.Equal(t, "git", got.Name)

	require.NoError(t, w.Serialize(ctx, testConfig{Name: "npm", Value: 2}))
	cm, err = cs.CoreV1().ConfigMaps("tools").Get(ctx, "explain", metav1.GetOptions{})
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(cm.Data["output.json"]), &got))
	assert.Equal(t, "npm", got.Name)
	assert.NoError(t, w.Close())
}

func TestConfigMapWriter_KeepsOtherKeys(t *testing.T) {
	ctx := context.Background()
	cs := fake.NewSimpleClientset(&corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{Name: "explain", Namespace: "tools"},
		Data:       map[string]string{"notes": "keep"},
	})

	w := NewConfigMapWriter(FormatYAML, "tools", "explain", cs)
	require.NoError(t, w.Serialize(ctx, testConfig{Name: "mv"}))

	cm, err := cs.CoreV1().ConfigMaps("tools").Get(ctx, "explain", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, "keep", cm.Data["notes"])
	assert.Contains(t, cm.Data["output.yaml"], "name: mv")
}
