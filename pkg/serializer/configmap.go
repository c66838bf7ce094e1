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
	"fmt"
	"log/slog"
	"strings"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/NVIDIA/cmdexplain/pkg/k8s/client"
)

const (
	// ConfigMapDataKeyPrefix prefixes the data key written by ConfigMapWriter;
	// the format extension is appended.
	ConfigMapDataKeyPrefix = "output."

	configMapManagedByLabel = "app.kubernetes.io/managed-by"
	configMapManagedBy      = "cmdexplain"
)

// ParseConfigMapURI splits cm://namespace/name into its parts.
func ParseConfigMapURI(uri string) (namespace, name string, err error) {
	rest, ok := strings.CutPrefix(uri, ConfigMapURIScheme)
	if !ok {
		return "", "", fmt.Errorf("invalid ConfigMap URI %q: expected %snamespace/name", uri, ConfigMapURIScheme)
	}
	namespace, name, ok = strings.Cut(rest, "/")
	if !ok || namespace == "" || name == "" || strings.Contains(name, "/") {
		return "", "", fmt.Errorf("invalid ConfigMap URI %q: expected %snamespace/name", uri, ConfigMapURIScheme)
	}
	return namespace, name, nil
}

// ConfigMapWriter stores serialized output in a Kubernetes ConfigMap,
// creating it when missing.
type ConfigMapWriter struct {
	format    Format
	namespace string
	name      string
	clientset kubernetes.Interface
}

// NewConfigMapWriter returns a writer for namespace/name. A nil clientset is
// resolved from the default kubeconfig on first use.
func NewConfigMapWriter(format Format, namespace, name string, clientset kubernetes.Interface) *ConfigMapWriter {
	if format.IsUnknown() {
		format = FormatJSON
	}
	return &ConfigMapWriter{
		format:    format,
		namespace: namespace,
		name:      name,
		clientset: clientset,
	}
}

// Serialize writes data under the "output.<ext>" key.
func (w *ConfigMapWriter) Serialize(ctx context.Context, data any) error {
	b, err := Marshal(w.format, data)
	if err != nil {
		return err
	}

	cs := w.clientset
	if cs == nil {
		c, _, kerr := client.GetKubeClient()
		if kerr != nil {
			return fmt.Errorf("failed to get kubernetes client: %w", kerr)
		}
		cs = c
	}

	key := ConfigMapDataKeyPrefix + w.format.Extension()
	cms := cs.CoreV1().ConfigMaps(w.namespace)

	existing, err := cms.Get(ctx, w.name, metav1.GetOptions{})
	if apierrors.IsNotFound(err) {
		cm := &corev1.ConfigMap{
			ObjectMeta: metav1.ObjectMeta{
				Name:      w.name,
				Namespace: w.namespace,
				Labels:    map[string]string{configMapManagedByLabel: configMapManagedBy},
			},
			Data: map[string]string{key: string(b)},
		}
		if _, err := cms.Create(ctx, cm, metav1.CreateOptions{}); err != nil {
			return fmt.Errorf("failed to create configmap %s/%s: %w", w.namespace, w.name, err)
		}
		slog.Debug("configmap created", "namespace", w.namespace, "name", w.name, "key", key)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get configmap %s/%s: %w", w.namespace, w.name, err)
	}

	updated := existing.DeepCopy()
	if updated.Data == nil {
		updated.Data = map[string]string{}
	}
	updated.Data[key] = string(b)
	if _, err := cms.Update(ctx, updated, metav1.UpdateOptions{}); err != nil {
		return fmt.Errorf("failed to update configmap %s/%s: %w", w.namespace, w.name, err)
	}
	slog.Debug("configmap updated", "namespace", w.namespace, "name", w.name, "key", key)
	return nil
}

// Close is a no-op.
func (w *ConfigMapWriter) Close() error {
	return nil
}
