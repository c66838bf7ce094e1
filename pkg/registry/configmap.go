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

package registry

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/NVIDIA/cmdexplain/pkg/defaults"
	cnserrors "github.com/NVIDIA/cmdexplain/pkg/errors"
	"github.com/NVIDIA/cmdexplain/pkg/k8s/client"
	"github.com/NVIDIA/cmdexplain/pkg/spec"
)

// ConfigMapSource reads specs from the data keys of one ConfigMap. Each key
// is a file name such as git.yaml.
type ConfigMapSource struct {
	namespace string
	name      string
	clientset kubernetes.Interface
}

// NewConfigMapSource returns a source for namespace/name. A nil clientset is
// resolved from the default kubeconfig on first use.
func NewConfigMapSource(namespace, name string, clientset kubernetes.Interface) *ConfigMapSource {
	return &ConfigMapSource{namespace: namespace, name: name, clientset: clientset}
}

// Name implements Source.
func (s *ConfigMapSource) Name() string {
	return fmt.Sprintf("cm://%s/%s", s.namespace, s.name)
}

// Load implements Source.
func (s *ConfigMapSource) Load(ctx context.Context, program string) (*spec.CommandSpec, error) {
	cm, err := s.get(ctx)
	if err != nil {
		return nil, err
	}
	for _, key := range specFileNames(program) {
		if data, ok := cm.Data[key]; ok {
			return DecodeFile(key, []byte(data))
		}
	}
	return nil, notFound(s.Name(), program)
}

// List implements Source.
func (s *ConfigMapSource) List(ctx context.Context) ([]string, error) {
	cm, err := s.get(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(cm.Data))
	for key := range cm.Data {
		if program, ok := programFromFile(key); ok {
			names = append(names, program)
		}
	}
	return sortedUnique(names), nil
}

func (s *ConfigMapSource) get(ctx context.Context) (*corev1.ConfigMap, error) {
	cs := s.clientset
	if cs == nil {
		c, _, err := client.GetKubeClient()
		if err != nil {
			return nil, cnserrors.Wrap(cnserrors.ErrCodeUnavailable, "failed to get kubernetes client", err)
		}
		cs = c
	}

	ctx, cancel := context.WithTimeout(ctx, defaults.K8sGetTimeout)
	defer cancel()

	cm, err := cs.CoreV1().ConfigMaps(s.namespace).Get(ctx, s.name, metav1.GetOptions{})
	switch {
	case apierrors.IsNotFound(err):
		// a missing ConfigMap holds no specs
		return &corev1.ConfigMap{}, nil
	case apierrors.IsForbidden(err) || apierrors.IsUnauthorized(err):
		return nil, cnserrors.Wrap(cnserrors.ErrCodeUnauthorized, fmt.Sprintf("cannot read %s", s.Name()), err)
	case err != nil:
		return nil, cnserrors.Wrap(cnserrors.ErrCodeUnavailable, fmt.Sprintf("failed to read %s", s.Name()), err)
	}
	return cm, nil
}
