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
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/cmdexplain/pkg/explain"
	"github.com/NVIDIA/cmdexplain/pkg/serializer"
)

func explainCmd() *cli.Command {
	return &cli.Command{
		Name:                  "explain",
		Aliases:               []string{"x"},
		EnableShellCompletion: true,
		Usage:                 "Explain each token of a command line",
		ArgsUsage:             "<command line>",
		Description: `Parses a command line against the spec of its program and shows the role
of every token: subcommand, option, option argument or positional argument,
with the documented meaning of each.

Pass the command line as one quoted argument, or after -- to keep its flags
away from cmdexplain:

  cmdexplain explain "git push origin main --force"
  cmdexplain explain -- mv -f file1 file2 dest

Specs come from the built-in set unless --source is given. Sources are
searched in order and the first one holding the program wins:

  cmdexplain explain --source ./specs --source builtin "kubectl get pods"
  cmdexplain explain --source https://specs.example.com/v1 "helm install x y"
  cmdexplain explain --source cm://tools/cmd-specs "nvidia-smi -q"
  cmdexplain explain --source oci://ghcr.io/acme/cmd-specs:v1 "terraform plan"

Use --query to extract part of the result and --fail-on-error to exit with
code 3 when the command line does not match its spec:

  cmdexplain explain -t json -q '.errors' --fail-on-error "git way too many args"`,
		Flags: []cli.Flag{
			sourceFlag(),
			outputFlag(),
			formatFlag(serializer.FormatTable),
			queryFlag(),
			&cli.BoolFlag{
				Name:  "fail-on-error",
				Usage: "Exit with code 3 when parsing records errors or no spec is available",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			line, err := commandLine(cmd)
			if err != nil {
				return err
			}

			ex, err := newExplainer(cmd)
			if err != nil {
				return err
			}

			exp, err := ex.Explain(ctx, line)
			if err != nil {
				return fmt.Errorf("failed to explain command: %w", err)
			}
			slog.Debug("explained",
				"program", exp.Program,
				"spec", exp.Spec.Status,
				"source", exp.Spec.Source,
				"errors", len(exp.Errors),
			)

			if err := writeResult(ctx, cmd, exp); err != nil {
				return err
			}

			if cmd.Bool("fail-on-error") && exp.HasErrors() {
				return cli.Exit(fmt.Sprintf("%d parse error(s)", len(exp.Errors)), ExitCodeParseErrors)
			}
			return nil
		},
	}
}

func tokenizeCmd() *cli.Command {
	return &cli.Command{
		Name:      "tokenize",
		Usage:     "Split a command line into shell words",
		ArgsUsage: "<command line>",
		Description: `Splits a command line the way a POSIX shell splits words, honoring quotes
and backslash escapes without expanding anything:

  cmdexplain tokenize "echo 'hello world' \$HOME"`,
		Flags: []cli.Flag{
			outputFlag(),
			formatFlag(serializer.FormatTable),
			queryFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			line, err := commandLine(cmd)
			if err != nil {
				return err
			}

			// tokenizing needs no specs
			tok, err := explain.New(nil, explain.WithVersion(version)).Tokenize(line)
			if err != nil {
				return err
			}
			return writeResult(ctx, cmd, tok)
		},
	}
}
