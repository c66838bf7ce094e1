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

// Package spec defines the declarative command specification model.
//
// A CommandSpec describes a program's grammar: its names, positional argument
// slots, options and nested subcommands. Specs are plain data authored
// externally (YAML, JSON or JSONC files) and are never mutated once parsing
// begins, so a single spec may be shared by concurrent parses.
//
// The serialized form follows the completion-spec convention where "name" and
// "args" accept either a single value or a list:
//
//	name: git
//	subcommands:
//	  - name: push
//	    args:
//	      - name: repository
//	        isOptional: true
//	      - name: refspec
//	        isVariadic: true
//	options:
//	  - name: [-C]
//	    args: {name: path}
package spec

import (
	"k8s.io/utils/ptr"
)

// CommandSpec describes a command or subcommand.
type CommandSpec struct {
	// Names are the aliases this command answers to. Never empty in a valid spec.
	Names Names `json:"name" yaml:"name"`

	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Args are the positional argument slots.
	Args ArgSlots `json:"args,omitempty" yaml:"args,omitempty"`

	Options []OptionSpec `json:"options,omitempty" yaml:"options,omitempty"`

	Subcommands []CommandSpec `json:"subcommands,omitempty" yaml:"subcommands,omitempty"`
}

// ArgSlotSpec describes one positional argument slot.
type ArgSlotSpec struct {
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// IsVariadic marks the slot that absorbs a variable number of values.
	// At most one slot per ArgSlots may be variadic.
	IsVariadic bool `json:"isVariadic,omitempty" yaml:"isVariadic,omitempty"`

	IsOptional *bool `json:"isOptional,omitempty" yaml:"isOptional,omitempty"`
}

// OptionSpec describes an option flag such as -f or --force.
type OptionSpec struct {
	Names       Names    `json:"name" yaml:"name"`
	Args        ArgSlots `json:"args,omitempty" yaml:"args,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
}

// Optional reports whether the slot was declared optional. Unset means required.
func (a *ArgSlotSpec) Optional() bool {
	return ptr.Deref(a.IsOptional, false)
}

// Label returns the slot name, or a placeholder for anonymous slots.
func (a *ArgSlotSpec) Label() string {
	if a.Name != "" {
		return a.Name
	}
	if a.IsVariadic {
		return "args..."
	}
	return "arg"
}

// Primary returns the first name, or "" if there is none.
func (n Names) Primary() string {
	if len(n) == 0 {
		return ""
	}
	return n[0]
}

// Contains reports whether token equals one of the names exactly.
// No prefix matching and no case folding is performed.
func (n Names) Contains(token string) bool {
	for _, name := range n {
		if name == token {
			return true
		}
	}
	return false
}

// VariadicIndex returns the index of the first variadic slot, or -1.
func (s ArgSlots) VariadicIndex() int {
	for i := range s {
		if s[i].IsVariadic {
			return i
		}
	}
	return -1
}

// FindOption returns the first declared option whose names contain flag.
// The returned pointer refers into c and must not be modified.
func (c *CommandSpec) FindOption(flag string) *OptionSpec {
	if c == nil {
		return nil
	}
	for i := range c.Options {
		if c.Options[i].Names.Contains(flag) {
			return &c.Options[i]
		}
	}
	return nil
}

// FindSubcommand returns the first declared subcommand whose names contain token.
// The returned pointer refers into c and must not be modified.
func (c *CommandSpec) FindSubcommand(token string) *CommandSpec {
	if c == nil {
		return nil
	}
	for i := range c.Subcommands {
		if c.Subcommands[i].Names.Contains(token) {
			return &c.Subcommands[i]
		}
	}
	return nil
}

// OptionNames returns every declared option name in declaration order.
func (c *CommandSpec) OptionNames() []string {
	if c == nil {
		return nil
	}
	var names []string
	for _, o := range c.Options {
		names = append(names, o.Names...)
	}
	return names
}
