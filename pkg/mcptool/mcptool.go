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

// Package mcptool exposes the explain service as MCP tools so assistants can
// ask what a command line does before suggesting or running it.
package mcptool

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/NVIDIA/cmdexplain/pkg/explain"
	"github.com/NVIDIA/cmdexplain/pkg/serializer"
)

const (
	serverName = "cmdexplain"

	ToolExplain  = "explain_command"
	ToolTokenize = "tokenize_command"
	ToolSpecs    = "list_specs"

	argCommand = "command"
	argFormat  = "format"
	argFilter  = "filter"
)

type tools struct {
	explainer *explain.Explainer
}

// NewServer creates an MCP server with the explain tools.
func NewServer(explainer *explain.Explainer, version string) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer(
		serverName,
		version,
		mcpserver.WithToolCapabilities(true),
	)
	t := &tools{explainer: explainer}

	s.AddTool(mcp.NewTool(ToolExplain,
		mcp.WithDescription("Explains a shell command line: which subcommand, options and arguments each token is, with their documented meaning"),
		mcp.WithString(argCommand,
			mcp.Required(),
			mcp.Description("The command line to explain, e.g. git push origin main --force"),
		),
		mcp.WithString(argFormat,
			mcp.Description("Output format"),
			mcp.Enum(string(serializer.FormatTable), string(serializer.FormatJSON), string(serializer.FormatYAML)),
		),
	), t.explainHandler)

	s.AddTool(mcp.NewTool(ToolTokenize,
		mcp.WithDescription("Splits a command line into words the way a POSIX shell would, without expansion"),
		mcp.WithString(argCommand,
			mcp.Required(),
			mcp.Description("The command line to split"),
		),
	), t.tokenizeHandler)

	s.AddTool(mcp.NewTool(ToolSpecs,
		mcp.WithDescription("Lists the programs that can be explained"),
		mcp.WithString(argFilter,
			mcp.Description("Comma separated wildcard filter, e.g. git,*sh"),
		),
	), t.specsHandler)

	return s
}

// stringArg returns a string argument and whether it was present.
func stringArg(request mcp.CallToolRequest, name string) (string, bool) {
	v, ok := request.GetArguments()[name]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func (t *tools) explainHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	line, ok := stringArg(request, argCommand)
	if !ok {
		return mcp.NewToolResultError("command argument is required"), nil
	}

	format := serializer.FormatTable
	if f, ok := stringArg(request, argFormat); ok && f != "" {
		format = serializer.Format(f)
		if format.IsUnknown() {
			return mcp.NewToolResultError(fmt.Sprintf("unsupported format %q", f)), nil
		}
	}

	exp, err := t.explainer.Explain(ctx, line)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return render(format, exp)
}

func (t *tools) tokenizeHandler(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	line, ok := stringArg(request, argCommand)
	if !ok {
		return mcp.NewToolResultError("command argument is required"), nil
	}

	tok, err := t.explainer.Tokenize(line)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return render(serializer.FormatJSON, tok.Tokens)
}

func (t *tools) specsHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter, _ := stringArg(request, argFilter)

	list, err := t.explainer.Specs(ctx, filter)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return render(serializer.FormatTable, list)
}

func render(format serializer.Format, data any) (*mcp.CallToolResult, error) {
	b, err := serializer.Marshal(format, data)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s result: %w", format, err)
	}
	return mcp.NewToolResultText(string(b)), nil
}

// ServeStdio runs the MCP server on stdin/stdout until the client disconnects.
func ServeStdio(s *mcpserver.MCPServer) error {
	return mcpserver.ServeStdio(s)
}
