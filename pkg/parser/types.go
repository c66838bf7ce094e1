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

package parser

import (
	"fmt"

	"github.com/NVIDIA/cmdexplain/pkg/spec"
)

// ErrorKind classifies a parse error attached to a tree node.
type ErrorKind string

const (
	// ErrUnknownOption marks a "-"-prefixed token that matched no declared
	// option. Parsing of the node stops at that token.
	ErrUnknownOption ErrorKind = "UnknownOption"

	// ErrExtraArguments marks a value with no declared slot to receive it.
	ErrExtraArguments ErrorKind = "ExtraArguments"
)

// ParseError is a parse failure recorded on a tree node. It is data, not a
// returned error: the parse tree stays well formed.
type ParseError struct {
	Kind    ErrorKind `json:"kind" yaml:"kind"`
	Token   string    `json:"token" yaml:"token"`
	Message string    `json:"message" yaml:"message"`

	// Suggestion is the closest declared option name for an unknown option.
	Suggestion string `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return e.Message
}

func unknownOption(token, suggestion string) *ParseError {
	msg := fmt.Sprintf("invalid option %s", token)
	if suggestion != "" {
		msg = fmt.Sprintf("%s (did you mean %s?)", msg, suggestion)
	}
	return &ParseError{
		Kind:       ErrUnknownOption,
		Token:      token,
		Message:    msg,
		Suggestion: suggestion,
	}
}

func extraArgument(token string) *ParseError {
	return &ParseError{
		Kind:    ErrExtraArguments,
		Token:   token,
		Message: fmt.Sprintf("unexpected argument %s: too many arguments or wrong subcommand", token),
	}
}

// ParsedCommand is one node of the parse tree: a command or subcommand.
type ParsedCommand struct {
	// Name is the literal token that selected this node.
	Name string `json:"name" yaml:"name"`

	// Spec is the grammar governing this node. Always set at the root.
	Spec *spec.CommandSpec `json:"-" yaml:"-"`

	// Args are the positional slots: every declared slot in order, followed
	// by one overflow slot per value no declared slot could take.
	Args []ParsedSlot `json:"args" yaml:"args"`

	// Options are the flags seen, in first-encounter order.
	Options []ParsedOption `json:"options" yaml:"options"`

	Subcommand *ParsedCommand `json:"subcommand,omitempty" yaml:"subcommand,omitempty"`
}

// ParsedSlot is an argument slot with the values assigned to it.
type ParsedSlot struct {
	// Spec is nil for overflow values.
	Spec *spec.ArgSlotSpec `json:"-" yaml:"-"`

	Name   string      `json:"name,omitempty" yaml:"name,omitempty"`
	Values []string    `json:"values" yaml:"values"`
	Error  *ParseError `json:"error,omitempty" yaml:"error,omitempty"`
}

// ParsedOption is an option flag with its argument slots.
type ParsedOption struct {
	// Flag is the literal token, e.g. "--force".
	Flag string `json:"flag" yaml:"flag"`

	// Spec is nil when the flag was not recognized.
	Spec *spec.OptionSpec `json:"-" yaml:"-"`

	Args  []ParsedSlot `json:"args" yaml:"args"`
	Error *ParseError  `json:"error,omitempty" yaml:"error,omitempty"`
}

// Description returns the description of the matched command spec.
func (p *ParsedCommand) Description() string {
	if p == nil || p.Spec == nil {
		return ""
	}
	return p.Spec.Description
}

// Option returns the entry recorded for flag.
func (p *ParsedCommand) Option(flag string) (*ParsedOption, bool) {
	for i := range p.Options {
		if p.Options[i].Flag == flag {
			return &p.Options[i], true
		}
	}
	return nil, false
}

// Errors returns every parse error in the tree, depth first in rendering order.
func (p *ParsedCommand) Errors() []*ParseError {
	var errs []*ParseError
	for node := p; node != nil; node = node.Subcommand {
		for _, o := range node.Options {
			if o.Error != nil {
				errs = append(errs, o.Error)
			}
			for _, s := range o.Args {
				if s.Error != nil {
					errs = append(errs, s.Error)
				}
			}
		}
		for _, s := range node.Args {
			if s.Error != nil {
				errs = append(errs, s.Error)
			}
		}
	}
	return errs
}

// Depth returns the number of nodes in the subcommand chain, root included.
func (p *ParsedCommand) Depth() int {
	n := 0
	for node := p; node != nil; node = node.Subcommand {
		n++
	}
	return n
}

// Leaf returns the deepest subcommand node.
func (p *ParsedCommand) Leaf() *ParsedCommand {
	node := p
	for node != nil && node.Subcommand != nil {
		node = node.Subcommand
	}
	return node
}

// Description returns the description of the matched option spec.
func (o *ParsedOption) Description() string {
	if o.Spec == nil {
		return ""
	}
	return o.Spec.Description
}

// Description returns the description of the matched slot spec.
func (s *ParsedSlot) Description() string {
	if s.Spec == nil {
		return ""
	}
	return s.Spec.Description
}
