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

// Package tokenizer splits a command line into shell-like words.
//
// Tokenize honors single and double quotes and backslash escapes the way a
// POSIX shell splits words, without performing any expansion. It never fails:
// an unterminated quote simply extends to the end of the input.
package tokenizer

import (
	"strconv"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

const (
	space       = ' '
	backslash   = '\\'
	singleQuote = '\''
	doubleQuote = '"'
)

// Tokenize splits input into tokens.
//
//   - An unquoted space ends the current token; empty tokens are dropped.
//   - A quote character opens a quoted region which only the same quote
//     character closes. Quote characters delimiting a region are not kept.
//   - A backslash outside single quotes makes the next character literal.
//     A trailing backslash is dropped. Inside single quotes it is literal.
func Tokenize(input string) []string {
	tokens := make([]string, 0)

	var (
		current strings.Builder
		quote   rune // currently open quote, 0 when unquoted
		escaped bool
	)

	for _, r := range input {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case quote == 0 && r == space:
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
		case quote == 0 && (r == singleQuote || r == doubleQuote):
			quote = r
		case quote != 0 && r == quote:
			quote = 0
		case r == backslash && quote != singleQuote:
			escaped = true
		default:
			current.WriteRune(r)
		}
	}

	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}

// Quote renders tokens as a copy-pasteable bash command line, quoting only
// the tokens that need it. Tokens bash cannot represent (for example ones
// containing NUL) fall back to Go string syntax.
func Quote(tokens []string) string {
	parts := make([]string, 0, len(tokens))
	for _, t := range tokens {
		q, err := syntax.Quote(t, syntax.LangBash)
		if err != nil {
			q = strconv.Quote(t)
		}
		parts = append(parts, q)
	}
	return strings.Join(parts, " ")
}
