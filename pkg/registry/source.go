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
	"path"
	"regexp"
	"sort"
	"strings"

	cnserrors "github.com/NVIDIA/cmdexplain/pkg/errors"
	"github.com/NVIDIA/cmdexplain/pkg/spec"
)

// Source supplies command specs by program name.
type Source interface {
	// Name identifies the source in logs, metrics and listings.
	Name() string

	// Load returns the spec for program, or an ErrCodeNotFound error when the
	// source has none.
	Load(ctx context.Context, program string) (*spec.CommandSpec, error)

	// List returns the program names the source can supply, sorted.
	List(ctx context.Context) ([]string, error)
}

var programNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._+-]*$`)

// ValidateProgramName rejects names that could escape a directory or URL
// path when turned into a file name.
func ValidateProgramName(program string) error {
	if !programNamePattern.MatchString(program) || strings.Contains(program, "..") {
		return cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid program name %q", program),
			map[string]any{"program": program})
	}
	return nil
}

func notFound(source, program string) error {
	return cnserrors.NewWithContext(cnserrors.ErrCodeNotFound,
		fmt.Sprintf("no spec for %q in %s", program, source),
		map[string]any{"program": program, "source": source})
}

// DecodeFile decodes and validates a spec document, picking the format from
// the file name.
func DecodeFile(name string, data []byte) (*spec.CommandSpec, error) {
	format, ok := spec.FormatFromPath(name)
	if !ok {
		return nil, cnserrors.New(cnserrors.ErrCodeInvalidRequest,
			fmt.Sprintf("unsupported spec file %q", name))
	}
	cs, err := spec.Decode(data, format)
	if err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeInvalidRequest,
			fmt.Sprintf("failed to decode %s", name), err)
	}
	if err := spec.Validate(cs); err != nil {
		return nil, err
	}
	return cs, nil
}

// specFileNames returns the candidate file names for program in extension
// preference order.
func specFileNames(program string) []string {
	names := make([]string, 0, len(spec.Extensions))
	for _, ext := range spec.Extensions {
		names = append(names, program+"."+ext)
	}
	return names
}

// programFromFile returns the program a spec file name belongs to.
func programFromFile(name string) (string, bool) {
	base := path.Base(name)
	if _, ok := spec.FormatFromPath(base); !ok {
		return "", false
	}
	program := strings.TrimSuffix(base, path.Ext(base))
	return program, ValidateProgramName(program) == nil
}

func sortedUnique(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
