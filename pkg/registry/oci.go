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
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/distribution/reference"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content"
	"oras.land/oras-go/v2/registry/remote"

	"github.com/NVIDIA/cmdexplain/pkg/defaults"
	cnserrors "github.com/NVIDIA/cmdexplain/pkg/errors"
	"github.com/NVIDIA/cmdexplain/pkg/spec"
)

// OCIURIScheme prefixes OCI artifact sources.
const OCIURIScheme = "oci://"

// SpecArtifactType is the artifact type of spec bundles pushed to a registry.
const SpecArtifactType = "application/vnd.nvidia.cmdexplain.specs.v1"

// OCISource reads specs from the layers of an OCI artifact. Each layer is a
// spec file named by its org.opencontainers.image.title annotation.
type OCISource struct {
	ref    string
	tag    string // tag or digest resolved against target
	target oras.ReadOnlyTarget
}

// NewOCISource returns a source for a registry reference such as
// ghcr.io/acme/specs:v1. plainHTTP disables TLS for local registries.
func NewOCISource(ref string, plainHTTP bool) (*OCISource, error) {
	ref = strings.TrimPrefix(ref, OCIURIScheme)

	named, err := reference.ParseNormalizedNamed(ref)
	if err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeInvalidRequest, fmt.Sprintf("invalid OCI reference %q", ref), err)
	}
	named = reference.TagNameOnly(named)

	repo, err := remote.NewRepository(named.String())
	if err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeInvalidRequest, fmt.Sprintf("invalid OCI reference %q", ref), err)
	}
	repo.PlainHTTP = plainHTTP

	var tag string
	switch r := named.(type) {
	case reference.Digested:
		tag = r.Digest().String()
	case reference.Tagged:
		tag = r.Tag()
	}

	return &OCISource{ref: named.String(), tag: tag, target: repo}, nil
}

// newOCISourceFromTarget serves an artifact from an existing target, for
// example an in-memory store.
func newOCISourceFromTarget(ref, tag string, target oras.ReadOnlyTarget) *OCISource {
	return &OCISource{ref: ref, tag: tag, target: target}
}

// Name implements Source.
func (s *OCISource) Name() string { return OCIURIScheme + s.ref }

// Load implements Source.
func (s *OCISource) Load(ctx context.Context, program string) (*spec.CommandSpec, error) {
	layers, err := s.layers(ctx)
	if err != nil {
		return nil, err
	}
	for _, file := range specFileNames(program) {
		desc, ok := layers[file]
		if !ok {
			continue
		}
		if desc.Size > defaults.MaxSpecBytes {
			return nil, cnserrors.New(cnserrors.ErrCodeInvalidRequest,
				fmt.Sprintf("spec layer %s exceeds %d bytes", file, defaults.MaxSpecBytes))
		}
		data, err := content.FetchAll(ctx, s.target, desc)
		if err != nil {
			return nil, cnserrors.Wrap(cnserrors.ErrCodeUnavailable, fmt.Sprintf("failed to fetch layer %s", file), err)
		}
		slog.Debug("spec layer fetched", "source", s.Name(), "program", program, "digest", desc.Digest.String())
		return DecodeFile(file, data)
	}
	return nil, notFound(s.Name(), program)
}

// List implements Source.
func (s *OCISource) List(ctx context.Context) ([]string, error) {
	layers, err := s.layers(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(layers))
	for title := range layers {
		if program, ok := programFromFile(title); ok {
			names = append(names, program)
		}
	}
	return sortedUnique(names), nil
}

// layers fetches the manifest and indexes its layers by title.
func (s *OCISource) layers(ctx context.Context) (map[string]ocispec.Descriptor, error) {
	desc, data, err := oras.FetchBytes(ctx, s.target, s.tag, oras.FetchBytesOptions{MaxBytes: defaults.MaxSpecBytes})
	if err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeUnavailable, fmt.Sprintf("failed to fetch manifest %s", s.ref), err)
	}
	if desc.MediaType != ocispec.MediaTypeImageManifest {
		return nil, cnserrors.New(cnserrors.ErrCodeInvalidRequest,
			fmt.Sprintf("unsupported manifest media type %q for %s", desc.MediaType, s.ref))
	}

	var manifest ocispec.Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeInvalidRequest, fmt.Sprintf("invalid manifest for %s", s.ref), err)
	}

	out := make(map[string]ocispec.Descriptor, len(manifest.Layers))
	for _, l := range manifest.Layers {
		if title := l.Annotations[ocispec.AnnotationTitle]; title != "" {
			out[title] = l
		}
	}
	return out, nil
}
