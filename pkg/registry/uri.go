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
	"fmt"
	"os"
	"strings"

	"k8s.io/client-go/kubernetes"

	cnserrors "github.com/NVIDIA/cmdexplain/pkg/errors"
	"github.com/NVIDIA/cmdexplain/pkg/serializer"
)

const (
	builtinURI    = "builtin"
	fileURIScheme = "file://"
)

// URIOptions carries settings shared by sources built from URIs.
type URIOptions struct {
	// PlainHTTP talks to OCI registries without TLS.
	PlainHTTP bool

	// HTTPOptions apply to http(s) sources.
	HTTPOptions []HTTPOption

	// Clientset is used by cm:// sources; nil resolves the default client.
	Clientset kubernetes.Interface
}

// SourceFromURI builds a Source from its URI form:
//
//	builtin                       compiled-in specs
//	/path/to/dir, file:///dir     spec directory
//	http(s)://host/path           spec server
//	cm://namespace/name           Kubernetes ConfigMap
//	oci://registry/repo:tag       OCI artifact
func SourceFromURI(uri string, opts URIOptions) (Source, error) {
	uri = strings.TrimSpace(uri)

	switch {
	case uri == "":
		return nil, cnserrors.New(cnserrors.ErrCodeInvalidRequest, "empty spec source")

	case uri == builtinURI || uri == builtinURI+"://":
		return NewEmbeddedSource(), nil

	case strings.HasPrefix(uri, "http://"), strings.HasPrefix(uri, "https://"):
		return NewHTTPSource(uri, opts.HTTPOptions...)

	case strings.HasPrefix(uri, serializer.ConfigMapURIScheme):
		namespace, name, err := serializer.ParseConfigMapURI(uri)
		if err != nil {
			return nil, cnserrors.Wrap(cnserrors.ErrCodeInvalidRequest, "invalid spec source", err)
		}
		return NewConfigMapSource(namespace, name, opts.Clientset), nil

	case strings.HasPrefix(uri, OCIURIScheme):
		return NewOCISource(uri, opts.PlainHTTP)

	case strings.Contains(uri, "://") && !strings.HasPrefix(uri, fileURIScheme):
		return nil, cnserrors.New(cnserrors.ErrCodeInvalidRequest, fmt.Sprintf("unsupported spec source %q", uri))
	}

	dir := strings.TrimPrefix(uri, fileURIScheme)
	info, err := os.Stat(dir)
	if err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeInvalidRequest, fmt.Sprintf("spec directory %q", dir), err)
	}
	if !info.IsDir() {
		return nil, cnserrors.New(cnserrors.ErrCodeInvalidRequest, fmt.Sprintf("spec source %q is not a directory", dir))
	}
	return NewDirSource(dir), nil
}

// SourcesFromURIs builds one Source per URI, in order.
func SourcesFromURIs(uris []string, opts URIOptions) ([]Source, error) {
	sources := make([]Source, 0, len(uris))
	for _, u := range uris {
		s, err := SourceFromURI(u, opts)
		if err != nil {
			return nil, err
		}
		sources = append(sources, s)
	}
	return sources, nil
}
