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

// Package client builds the Kubernetes client used to read specs from and
// write output to ConfigMaps.
package client

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"
)

// EnvKubeconfig is the standard kubeconfig environment variable.
const EnvKubeconfig = "KUBECONFIG"

var (
	mu           sync.Mutex
	clientOnce   sync.Once
	kubeconfig   string
	cachedClient kubernetes.Interface
	cachedConfig *rest.Config
	clientErr    error
)

// SetKubeconfig selects the kubeconfig used by GetKubeClient. It only has an
// effect before the first GetKubeClient call.
func SetKubeconfig(path string) {
	mu.Lock()
	defer mu.Unlock()
	kubeconfig = path
}

// GetKubeClient returns the process-wide client, building it on first call.
//
// Configuration is discovered from, in order: the path set with
// SetKubeconfig, KUBECONFIG, ~/.kube/config and the in-cluster service
// account.
func GetKubeClient() (kubernetes.Interface, *rest.Config, error) {
	clientOnce.Do(func() {
		mu.Lock()
		path := kubeconfig
		mu.Unlock()
		cachedClient, cachedConfig, clientErr = BuildKubeClient(path)
	})
	return cachedClient, cachedConfig, clientErr
}

// BuildKubeClient creates a client from kubeconfig, bypassing the cache.
// An empty path uses the same discovery as GetKubeClient.
func BuildKubeClient(kubeconfig string) (kubernetes.Interface, *rest.Config, error) {
	config, err := clientcmd.BuildConfigFromFlags("", ResolveKubeconfig(kubeconfig))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build kube config: %w", err)
	}

	cs, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}

	return cs, config, nil
}

// ResolveKubeconfig returns the kubeconfig path to use for an explicit path
// (possibly empty). An empty result means in-cluster configuration.
func ResolveKubeconfig(path string) string {
	if path != "" {
		return path
	}
	if env := os.Getenv(EnvKubeconfig); env != "" {
		return env
	}
	home := filepath.Join(homedir.HomeDir(), ".kube", "config")
	if _, err := os.Stat(home); err == nil {
		return home
	}
	return ""
}
