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

// Role is the semantic role of a token in the parse tree.
type Role string

const (
	RoleCommand    Role = "command"
	RoleSubcommand Role = "subcommand"
	RoleOption     Role = "option"
	RoleOptionArg  Role = "option-argument"
	RoleArgument   Role = "argument"
	RoleOverflow   Role = "overflow"
)

// NoExplanation is the help text shown for elements without a description.
const NoExplanation = "(No explanation provided.)"

// Node is the renderer-facing view of one tree element. Renderers read spec
// metadata through nodes only, never from the spec tree.
type Node struct {
	Role Role `json:"role" yaml:"role"`

	// Token is the literal input token. Empty when Empty is set.
	Token string `json:"token" yaml:"token"`

	// Name is the declared slot name, or the flag for options.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Error       string `json:"error,omitempty" yaml:"error,omitempty"`

	// Depth is the subcommand nesting level, 0 for the root command.
	Depth int `json:"depth" yaml:"depth"`

	// Empty marks a declared slot that received no value.
	Empty bool `json:"empty,omitempty" yaml:"empty,omitempty"`
}

// Help returns the description or NoExplanation.
func (n Node) Help() string {
	if n.Description == "" {
		return NoExplanation
	}
	return n.Description
}

// Walk calls fn for every node in rendering order: the command, each option
// followed by its argument values, the positional values, then the
// subcommand. Walk stops at the first error fn returns.
func Walk(p *ParsedCommand, fn func(Node) error) error {
	for depth, node := 0, p; node != nil; depth, node = depth+1, node.Subcommand {
		role := RoleCommand
		if depth > 0 {
			role = RoleSubcommand
		}
		if err := fn(Node{
			Role:        role,
			Token:       node.Name,
			Name:        node.Name,
			Description: node.Description(),
			Depth:       depth,
		}); err != nil {
			return err
		}

		for i := range node.Options {
			o := &node.Options[i]
			n := Node{
				Role:        RoleOption,
				Token:       o.Flag,
				Name:        o.Flag,
				Description: o.Description(),
				Depth:       depth,
			}
			if o.Error != nil {
				n.Error = o.Error.Message
			}
			if err := fn(n); err != nil {
				return err
			}
			if err := walkSlots(o.Args, RoleOptionArg, depth, fn); err != nil {
				return err
			}
		}

		if err := walkSlots(node.Args, RoleArgument, depth, fn); err != nil {
			return err
		}
	}
	return nil
}

func walkSlots(slots []ParsedSlot, role Role, depth int, fn func(Node) error) error {
	for i := range slots {
		s := &slots[i]
		base := Node{
			Role:        role,
			Name:        s.Name,
			Description: s.Description(),
			Depth:       depth,
		}
		if s.Spec == nil {
			base.Role = RoleOverflow
		}
		if s.Error != nil {
			base.Error = s.Error.Message
		}

		if len(s.Values) == 0 {
			base.Empty = true
			if err := fn(base); err != nil {
				return err
			}
			continue
		}
		for _, v := range s.Values {
			n := base
			n.Token = v
			if err := fn(n); err != nil {
				return err
			}
		}
	}
	return nil
}

// Nodes returns every node of the tree in rendering order.
func Nodes(p *ParsedCommand) []Node {
	nodes := make([]Node, 0)
	_ = Walk(p, func(n Node) error {
		nodes = append(nodes, n)
		return nil
	})
	return nodes
}
