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
	"fmt"
	"strings"

	cnserrors "github.com/NVIDIA/cmdexplain/pkg/errors"
)

const pathSeparator = " > "

// Validate checks the structural invariants the parser relies on:
// every command and option has at least one non-empty name, and every
// argument slot list has at most one variadic slot. All issues are reported
// at once in the error context under "issues".
func Validate(cs *CommandSpec) error {
	if cs == nil {
		return cnserrors.New(cnserrors.ErrCodeInvalidRequest, "command spec is nil")
	}

	var issues []string
	validateCommand(cs, nil, &issues)
	if len(issues) == 0 {
		return nil
	}

	return cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest,
		fmt.Sprintf("invalid command spec %q: %s", cs.Names.Primary(), strings.Join(issues, "; ")),
		map[string]any{"issues": issues})
}

func validateCommand(cs *CommandSpec, parent []string, issues *[]string) {
	path := append(append([]string{}, parent...), displayName(cs.Names))

	if err := checkNames(cs.Names); err != "" {
		*issues = append(*issues, fmt.Sprintf("%s: command %s", strings.Join(path, pathSeparator), err))
	}
	if err := checkSlots(cs.Args); err != "" {
		*issues = append(*issues, fmt.Sprintf("%s: %s", strings.Join(path, pathSeparator), err))
	}

	for i := range cs.Options {
		o := &cs.Options[i]
		optPath := strings.Join(append(append([]string{}, path...), displayName(o.Names)), pathSeparator)
		if err := checkNames(o.Names); err != "" {
			*issues = append(*issues, fmt.Sprintf("%s: option %s", optPath, err))
		}
		if err := checkSlots(o.Args); err != "" {
			*issues = append(*issues, fmt.Sprintf("%s: %s", optPath, err))
		}
	}

	for i := range cs.Subcommands {
		validateCommand(&cs.Subcommands[i], path, issues)
	}
}

func checkNames(names Names) string {
	if len(names) == 0 {
		return "has no name"
	}
	for _, n := range names {
		if n == "" {
			return "has an empty name"
		}
	}
	return ""
}

func checkSlots(slots ArgSlots) string {
	variadic := 0
	for i := range slots {
		if slots[i].IsVariadic {
			variadic++
		}
	}
	if variadic > 1 {
		return fmt.Sprintf("args declare %d variadic slots, at most one is allowed", variadic)
	}
	return ""
}

func displayName(names Names) string {
	if p := names.Primary(); p != "" {
		return p
	}
	return "<unnamed>"
}
