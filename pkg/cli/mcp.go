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

package cli

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/cmdexplain/pkg/mcptool"
)

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Serve the explain tools to MCP clients over stdio",
		Description: `Runs a Model Context Protocol server on stdin/stdout exposing the
explain_command, tokenize_command and list_specs tools. Logs go to stderr.

Example client configuration:

  {"command": "cmdexplain", "args": ["mcp", "--source", "builtin"]}`,
		Flags: []cli.Flag{
			sourceFlag(),
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			ex, err := newExplainer(cmd)
			if err != nil {
				return err
			}

			slog.Debug("starting mcp server", "sources", sourceURIs(cmd))
			return mcptool.ServeStdio(mcptool.NewServer(ex, version))
		},
	}
}
