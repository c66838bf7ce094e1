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
	"strings"

	cnserrors "github.com/NVIDIA/cmdexplain/pkg/errors"
	"github.com/NVIDIA/cmdexplain/pkg/spec"
)

// optionPrefix marks a token as a candidate option flag.
const optionPrefix = "-"

// Parse matches tokens against cs and returns the parse tree.
//
// The first token is taken as the command name without checking it against
// cs.Names; the caller resolved cs from it. Remaining tokens are consumed
// left to right:
//
//   - While an option is collecting arguments, tokens go to it, even when
//     they start with "-". The option closes once its fixed slots are full.
//   - Otherwise a "-"-prefixed token must name a declared option. An unknown
//     flag is recorded with an UnknownOption error and ends parsing of this
//     node; later tokens are discarded.
//   - Otherwise, until the first positional value is seen, a token naming a
//     declared subcommand starts a nested parse that consumes every
//     remaining token.
//   - Anything else is a positional value.
//
// Parse errors are recorded in the tree. The returned error is only set when
// cs is nil or tokens is empty.
func Parse(cs *spec.CommandSpec, tokens []string) (*ParsedCommand, error) {
	if cs == nil {
		return nil, cnserrors.New(cnserrors.ErrCodeInvalidRequest, "command spec is nil")
	}
	if len(tokens) == 0 {
		return nil, cnserrors.New(cnserrors.ErrCodeInvalidRequest, "no tokens to parse")
	}
	return parse(cs, tokens), nil
}

func parse(cs *spec.CommandSpec, tokens []string) *ParsedCommand {
	p := &ParsedCommand{
		Name:    tokens[0],
		Spec:    cs,
		Options: make([]ParsedOption, 0),
	}
	index := make(map[string]int)

	root := newSlotState(cs.Args)

	var (
		opt     *slotState
		optFlag string
	)
	closeOption := func() {
		p.Options[index[optFlag]].Args = opt.finalize()
		opt = nil
	}

	rest := tokens[1:]
	for i, token := range rest {
		if opt != nil && opt.exhausted() {
			closeOption()
		}

		if opt == nil && strings.HasPrefix(token, optionPrefix) {
			optSpec := cs.FindOption(token)
			if optSpec == nil {
				setOption(p, index, ParsedOption{
					Flag:  token,
					Args:  make([]ParsedSlot, 0),
					Error: unknownOption(token, suggestOption(cs, token)),
				})
				break
			}

			opt, optFlag = newSlotState(optSpec.Args), token
			setOption(p, index, ParsedOption{
				Flag: token,
				Spec: optSpec,
				Args: make([]ParsedSlot, 0),
			})
			continue
		}

		if opt == nil && len(root.values) == 0 {
			if sub := cs.FindSubcommand(token); sub != nil {
				p.Subcommand = parse(sub, rest[i:])
				break
			}
		}

		if opt != nil {
			opt.push(token)
		} else {
			root.push(token)
		}
	}

	if opt != nil {
		closeOption()
	}
	p.Args = root.finalize()

	return p
}

// setOption records o under its flag. A flag seen again replaces the earlier
// entry but keeps its original position.
func setOption(p *ParsedCommand, index map[string]int, o ParsedOption) {
	if i, ok := index[o.Flag]; ok {
		p.Options[i] = o
		return
	}
	index[o.Flag] = len(p.Options)
	p.Options = append(p.Options, o)
}
