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

// URI scheme constants for output destinations
const (
	// ConfigMapURIScheme is the URI scheme for Kubernetes ConfigMap destinations.
	// Format: cm://namespace/configmap-name
	ConfigMapURIScheme = "cm://"

	// StdoutURI is the special URI indicating output should be written to stdout.
	StdoutURI = "-"
)
