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

// Package parser matches a token sequence against a command spec.
//
// # Overview
//
// Parse walks the tokens once, left to right, and builds a ParsedCommand
// tree: the command name, the options seen with their argument values, the
// positional arguments, and at most one nested subcommand. The spec is only
// read, never modified, and no state survives a call, so a spec may be shared
// by concurrent parses.
//
// # Errors as data
//
// Problems found in the input are attached to tree nodes as *ParseError
// values rather than returned:
//
//   - UnknownOption: a "-"-prefixed token that names no declared option. The
//     current node stops consuming tokens.
//   - ExtraArguments: a value with no slot to receive it. Parsing continues.
//
// A required slot that receives no value is not an error. It stays in the
// tree with an empty Values slice.
//
// # Slot distribution
//
// Distribute maps collected values onto a slot list that may contain one
// variadic slot. Fixed slots before the variadic slot take one value each,
// fixed slots after it are reserved one value each from the end, and the
// variadic slot absorbs whatever remains:
//
//	slots:  [src] [files...] [dest]
//	values:  a     b  c  d    e
//	         src=[a] files=[b c d] dest=[e]
//
// # Rendering
//
// Walk and Nodes flatten the tree into Node values carrying the literal
// token, its role, the matched description and any error message. Renderers
// should consume nodes instead of reading spec metadata themselves.
//
// # Usage
//
//	tokens := tokenizer.Tokenize(`git commit -m "fix bug"`)
//	tree, err := parser.Parse(gitSpec, tokens)
//	if err != nil {
//	    return err
//	}
//	for _, n := range parser.Nodes(tree) {
//	    fmt.Printf("%-12s %-16s %s\n", n.Role, n.Token, n.Help())
//	}
package parser
