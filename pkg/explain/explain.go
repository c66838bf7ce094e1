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
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/NVIDIA/cmdexplain/pkg/defaults"
	cnserrors "github.com/NVIDIA/cmdexplain/pkg/errors"
	"github.com/NVIDIA/cmdexplain/pkg/header"
	"github.com/NVIDIA/cmdexplain/pkg/parser"
	"github.com/NVIDIA/cmdexplain/pkg/registry"
	"github.com/NVIDIA/cmdexplain/pkg/tokenizer"
)

// Resolver supplies specs by program name. *registry.Registry implements it.
type Resolver interface {
	Get(ctx context.Context, program string) (*registry.Result, error)
	List(ctx context.Context, patterns ...string) ([]registry.Entry, error)
}

// Explainer explains command lines against the specs of a Resolver.
type Explainer struct {
	resolver         Resolver
	version          string
	maxCommandLength int
}

// Option is a functional option for configuring an Explainer.
type Option func(*Explainer)

// WithVersion records the producing version in document metadata.
func WithVersion(version string) Option {
	return func(e *Explainer) {
		e.version = version
	}
}

// WithMaxCommandLength caps the accepted command line length in bytes.
// Zero or negative disables the check.
func WithMaxCommandLength(n int) Option {
	return func(e *Explainer) {
		e.maxCommandLength = n
	}
}

// New returns an Explainer backed by resolver.
func New(resolver Resolver, opts ...Option) *Explainer {
	e := &Explainer{
		resolver:         resolver,
		maxCommandLength: defaults.MaxCommandLineBytes,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MaxCommandLength returns the configured command line limit.
func (e *Explainer) MaxCommandLength() int {
	return e.maxCommandLength
}

func (e *Explainer) header(kind string) header.Header {
	opts := []header.Option{header.WithKind(kind), header.WithTimestamp(time.Now())}
	if e.version != "" {
		opts = append(opts, header.WithMetadata(header.MetadataVersion, e.version))
	}
	return *header.New(opts...)
}

func (e *Explainer) checkLength(line string) error {
	if e.maxCommandLength > 0 && len(line) > e.maxCommandLength {
		return cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest,
			"command line too long", map[string]any{
				"length": len(line),
				"limit":  e.maxCommandLength,
			})
	}
	return nil
}

// Tokenize splits line without resolving any spec.
func (e *Explainer) Tokenize(line string) (*Tokenization, error) {
	if err := e.checkLength(line); err != nil {
		return nil, err
	}
	tokens := tokenizer.Tokenize(line)
	return &Tokenization{
		Header:     e.header(KindTokenization),
		Input:      line,
		Tokens:     tokens,
		Normalized: tokenizer.Quote(tokens),
	}, nil
}

// Explain tokenizes line, resolves the spec for its first token and parses
// the tokens against it. A program without a spec yields an Explanation with
// status SpecUnavailable. Registry failures other than "not found" are
// returned.
func (e *Explainer) Explain(ctx context.Context, line string) (*Explanation, error) {
	start := time.Now()

	exp, err := e.explain(ctx, line)

	status := explainStatusError
	if err == nil {
		status = string(exp.Spec.Status)
	}
	explainTotal.WithLabelValues(status).Inc()
	explainDuration.Observe(time.Since(start).Seconds())

	return exp, err
}

func (e *Explainer) explain(ctx context.Context, line string) (*Explanation, error) {
	if err := e.checkLength(line); err != nil {
		return nil, err
	}

	tokens := tokenizer.Tokenize(line)
	if len(tokens) == 0 {
		return nil, cnserrors.New(cnserrors.ErrCodeInvalidRequest, "command line is empty")
	}

	exp := &Explanation{
		Header:     e.header(KindExplanation),
		Input:      line,
		Tokens:     tokens,
		Normalized: tokenizer.Quote(tokens),
		Program:    tokens[0],
	}

	// paths and other names no source can hold are unavailable, not invalid
	if err := registry.ValidateProgramName(exp.Program); err != nil {
		return unavailable(exp, err), nil
	}

	res, err := e.resolver.Get(ctx, exp.Program)
	if err != nil {
		if cnserrors.IsCode(err, cnserrors.ErrCodeNotFound) {
			return unavailable(exp, err), nil
		}
		return nil, err
	}

	cmd, err := parser.Parse(res.Spec, tokens)
	if err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeInternal, "failed to parse command line", err)
	}

	exp.Spec = SpecInfo{Status: SpecFound, Source: res.Source}
	exp.Command = cmd
	exp.Nodes = parser.Nodes(cmd)
	for _, pe := range cmd.Errors() {
		exp.Errors = append(exp.Errors, pe.Message)
	}

	slog.Debug("command explained",
		"program", exp.Program,
		"source", res.Source,
		"tokens", len(tokens),
		"depth", cmd.Depth(),
		"errors", len(exp.Errors),
	)
	return exp, nil
}

func unavailable(exp *Explanation, reason error) *Explanation {
	slog.Debug("spec unavailable", "program", exp.Program, "reason", reason)
	exp.Spec = SpecInfo{Status: SpecUnavailable}
	exp.Nodes = []parser.Node{{Role: parser.RoleCommand, Token: exp.Program}}
	exp.Errors = []string{fmt.Sprintf("no specification available for %s", exp.Program)}
	return exp
}

// Specs lists the programs available to Explain, filtered by a
// comma-separated wildcard filter.
func (e *Explainer) Specs(ctx context.Context, filter string) (*SpecList, error) {
	entries, err := e.resolver.List(ctx, registry.ParseFilter(filter)...)
	if err != nil {
		return nil, err
	}
	return &SpecList{
		Header: e.header(KindSpecList),
		Filter: filter,
		Specs:  entries,
	}, nil
}
