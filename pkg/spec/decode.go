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

package spec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Names is a one-or-many list of names. It decodes from a single string or a list.
type Names []string

// ArgSlots is a one-or-many list of argument slots. It decodes from a single
// object or a list of objects.
type ArgSlots []ArgSlotSpec

// Format identifies a serialized spec format.
type Format string

const (
	FormatYAML  Format = "yaml"
	FormatJSON  Format = "json"
	FormatJSONC Format = "jsonc"
)

// Extensions lists the file extensions recognized as spec files.
var Extensions = []string{"yaml", "yml", "json", "jsonc"}

// FormatFromPath derives the format from a file extension. Unknown
// extensions return false.
func FormatFromPath(path string) (Format, bool) {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "yaml", "yml":
		return FormatYAML, true
	case "json":
		return FormatJSON, true
	case "jsonc":
		return FormatJSONC, true
	default:
		return "", false
	}
}

// Decode parses a spec document in the given format. It does not validate the
// result; call Validate before handing the spec to the parser.
func Decode(data []byte, format Format) (*CommandSpec, error) {
	var cs CommandSpec

	switch format {
	case FormatJSONC:
		data = jsonc.ToJSON(data)
		fallthrough
	case FormatJSON:
		if err := json.Unmarshal(data, &cs); err != nil {
			return nil, fmt.Errorf("failed to decode json spec: %w", err)
		}
	case FormatYAML, "":
		if err := yaml.Unmarshal(data, &cs); err != nil {
			return nil, fmt.Errorf("failed to decode yaml spec: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported spec format: %q", format)
	}

	return &cs, nil
}

// UnmarshalJSON accepts "name" or ["name", "alias"].
func (n *Names) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = Names{s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("name: expected string or list of strings: %w", err)
	}
	*n = list
	return nil
}

// UnmarshalYAML accepts a scalar or a sequence of scalars.
func (n *Names) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		*n = Names{s}
	case yaml.SequenceNode:
		var list []string
		if err := value.Decode(&list); err != nil {
			return err
		}
		*n = list
	default:
		return fmt.Errorf("line %d: name: expected string or list of strings", value.Line)
	}
	return nil
}

// UnmarshalJSON accepts a single slot object or a list of slot objects.
func (s *ArgSlots) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = nil
		return nil
	}
	if len(data) > 0 && data[0] == '{' {
		var one ArgSlotSpec
		if err := json.Unmarshal(data, &one); err != nil {
			return err
		}
		*s = ArgSlots{one}
		return nil
	}
	var list []ArgSlotSpec
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("args: expected object or list of objects: %w", err)
	}
	*s = list
	return nil
}

// UnmarshalYAML accepts a single mapping or a sequence of mappings.
func (s *ArgSlots) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.MappingNode:
		var one ArgSlotSpec
		if err := value.Decode(&one); err != nil {
			return err
		}
		*s = ArgSlots{one}
	case yaml.SequenceNode:
		var list []ArgSlotSpec
		if err := value.Decode(&list); err != nil {
			return err
		}
		*s = list
	default:
		return fmt.Errorf("line %d: args: expected mapping or list of mappings", value.Line)
	}
	return nil
}
