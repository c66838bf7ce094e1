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
	"embed"
	"fmt"
	"io/fs"
	"sync"

	cnserrors "github.com/NVIDIA/cmdexplain/pkg/errors"
	"github.com/NVIDIA/cmdexplain/pkg/spec"
)

// EmbeddedSourceName is the name of the built-in source.
const EmbeddedSourceName = "builtin"

var (
	//go:embed data/*.yaml
	embeddedData embed.FS

	embeddedOnce  sync.Once
	embeddedSpecs map[string]*spec.CommandSpec
	embeddedErr   error
)

// loadEmbedded parses the compiled-in specs once; the data cannot change at
// runtime.
func loadEmbedded() (map[string]*spec.CommandSpec, error) {
	embeddedOnce.Do(func() {
		entries, err := fs.ReadDir(embeddedData, "data")
		if err != nil {
			embeddedErr = err
			return
		}

		specs := make(map[string]*spec.CommandSpec, len(entries))
		for _, e := range entries {
			program, ok := programFromFile(e.Name())
			if !ok {
				continue
			}
			data, err := embeddedData.ReadFile("data/" + e.Name())
			if err != nil {
				embeddedErr = err
				return
			}
			cs, err := DecodeFile(e.Name(), data)
			if err != nil {
				embeddedErr = fmt.Errorf("builtin spec %s: %w", e.Name(), err)
				return
			}
			specs[program] = cs
		}
		embeddedSpecs = specs
	})

	if embeddedErr != nil {
		return nil, embeddedErr
	}
	if embeddedSpecs == nil {
		return nil, cnserrors.New(cnserrors.ErrCodeInternal, "builtin specs not initialized")
	}
	return embeddedSpecs, nil
}

// EmbeddedSource serves the specs compiled into the binary.
type EmbeddedSource struct{}

// NewEmbeddedSource returns the built-in source.
func NewEmbeddedSource() *EmbeddedSource {
	return &EmbeddedSource{}
}

// Name implements Source.
func (s *EmbeddedSource) Name() string { return EmbeddedSourceName }

// Load implements Source. The returned spec is shared; callers must not
// modify it.
func (s *EmbeddedSource) Load(_ context.Context, program string) (*spec.CommandSpec, error) {
	specs, err := loadEmbedded()
	if err != nil {
		return nil, err
	}
	cs, ok := specs[program]
	if !ok {
		return nil, notFound(s.Name(), program)
	}
	return cs, nil
}

// List implements Source.
func (s *EmbeddedSource) List(_ context.Context) ([]string, error) {
	specs, err := loadEmbedded()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(specs))
	for n := range specs {
		names = append(names, n)
	}
	return sortedUnique(names), nil
}
