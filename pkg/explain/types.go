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

package explain

import (
	"strconv"
	"strings"

	"github.com/NVIDIA/cmdexplain/pkg/header"
	"github.com/NVIDIA/cmdexplain/pkg/parser"
	"github.com/NVIDIA/cmdexplain/pkg/registry"
)

const (
	// KindExplanation is the header kind of an Explanation.
	KindExplanation = "Explanation"

	// KindTokenization is the header kind of a Tokenization.
	KindTokenization = "Tokenization"

	// KindSpecList is the header kind of a SpecList.
	KindSpecList = "SpecList"
)

// SpecStatus reports whether a spec was found for the program.
type SpecStatus string

const (
	SpecFound       SpecStatus = "found"
	SpecUnavailable SpecStatus = "unavailable"
)

// SpecInfo describes the spec used for an explanation.
type SpecInfo struct {
	Status SpecStatus `json:"status" yaml:"status"`

	// Source names the spec source that supplied the spec.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
}

// Explanation is the result of explaining one command line.
type Explanation struct {
	header.Header `json:",inline" yaml:",inline"`

	Input  string   `json:"input" yaml:"input"`
	Tokens []string `json:"tokens" yaml:"tokens"`

	// Normalized is the token list re-quoted as a bash command line.
	Normalized string `json:"normalized" yaml:"normalized"`

	Program string   `json:"program" yaml:"program"`
	Spec    SpecInfo `json:"spec" yaml:"spec"`

	// Command is nil when the spec is unavailable.
	Command *parser.ParsedCommand `json:"command,omitempty" yaml:"command,omitempty"`

	Nodes  []parser.Node `json:"nodes" yaml:"nodes"`
	Errors []string      `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// HasErrors reports whether parsing recorded any error.
func (e *Explanation) HasErrors() bool {
	return len(e.Errors) > 0
}

// TableHeader implements serializer.TableRenderer.
func (e *Explanation) TableHeader() []string {
	return []string{"ROLE", "TOKEN", "NAME", "DESCRIPTION", "ERROR"}
}

// TableRows implements serializer.TableRenderer. Tokens are indented by
// subcommand depth and empty slots are shown as "-".
func (e *Explanation) TableRows() [][]string {
	rows := make([][]string, 0, len(e.Nodes))
	for _, n := range e.Nodes {
		token := n.Token
		if n.Empty {
			token = "-"
		}
		rows = append(rows, []string{
			string(n.Role),
			strings.Repeat("  ", n.Depth) + token,
			n.Name,
			n.Help(),
			n.Error,
		})
	}
	return rows
}

// Tokenization is the result of splitting a command line.
type Tokenization struct {
	header.Header `json:",inline" yaml:",inline"`

	Input      string   `json:"input" yaml:"input"`
	Tokens     []string `json:"tokens" yaml:"tokens"`
	Normalized string   `json:"normalized" yaml:"normalized"`
}

// TableHeader implements serializer.TableRenderer.
func (t *Tokenization) TableHeader() []string {
	return []string{"INDEX", "TOKEN"}
}

// TableRows implements serializer.TableRenderer.
func (t *Tokenization) TableRows() [][]string {
	rows := make([][]string, 0, len(t.Tokens))
	for i, tok := range t.Tokens {
		rows = append(rows, []string{strconv.Itoa(i), tok})
	}
	return rows
}

// SpecList lists the programs the registry can explain.
type SpecList struct {
	header.Header `json:",inline" yaml:",inline"`

	Filter string           `json:"filter,omitempty" yaml:"filter,omitempty"`
	Specs  []registry.Entry `json:"specs" yaml:"specs"`
}

// TableHeader implements serializer.TableRenderer.
func (l *SpecList) TableHeader() []string {
	return []string{"PROGRAM", "SOURCE"}
}

// TableRows implements serializer.TableRenderer.
func (l *SpecList) TableRows() [][]string {
	rows := make([][]string, 0, len(l.Specs))
	for _, s := range l.Specs {
		rows = append(rows, []string{s.Program, s.Source})
	}
	return rows
}
