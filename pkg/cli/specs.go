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
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/cmdexplain/pkg/defaults"
	"github.com/NVIDIA/cmdexplain/pkg/header"
	"github.com/NVIDIA/cmdexplain/pkg/registry"
	"github.com/NVIDIA/cmdexplain/pkg/serializer"
	"github.com/NVIDIA/cmdexplain/pkg/spec"
)

// kindCommandSpec is the header kind of specs show output.
const kindCommandSpec = "CommandSpec"

// specDocument wraps a resolved spec for output.
type specDocument struct {
	header.Header `json:",inline" yaml:",inline"`

	Source string            `json:"source" yaml:"source"`
	Spec   *spec.CommandSpec `json:"spec" yaml:"spec"`
}

func specsCmd() *cli.Command {
	return &cli.Command{
		Name:  "specs",
		Usage: "List, show and validate command specs",
		Commands: []*cli.Command{
			specsListCmd(),
			specsShowCmd(),
			specsValidateCmd(),
		},
	}
}

func specsListCmd() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List the programs that can be explained",
		Description: `Lists programs across all sources. The filter takes comma separated
wildcard patterns (prefix*, *suffix, *contains*, exact):

  cmdexplain specs list --filter 'git,n*'`,
		Flags: []cli.Flag{
			sourceFlag(),
			&cli.StringFlag{
				Name:    "filter",
				Aliases: []string{"f"},
				Usage:   "Comma separated wildcard patterns",
			},
			outputFlag(),
			formatFlag(serializer.FormatTable),
			queryFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ex, err := newExplainer(cmd)
			if err != nil {
				return err
			}

			list, err := ex.Specs(ctx, cmd.String("filter"))
			if err != nil {
				return fmt.Errorf("failed to list specs: %w", err)
			}
			return writeResult(ctx, cmd, list)
		},
	}
}

func specsShowCmd() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show the spec of a program",
		ArgsUsage: "<program>",
		Flags: []cli.Flag{
			sourceFlag(),
			outputFlag(),
			formatFlag(serializer.FormatYAML),
			queryFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return cli.Exit("exactly one program name is required", ExitCodeError)
			}
			program := cmd.Args().First()

			sources, err := registry.SourcesFromURIs(sourceURIs(cmd), registry.URIOptions{
				PlainHTTP: cmd.Bool("plain-http"),
			})
			if err != nil {
				return err
			}

			res, err := registry.New(registry.WithSources(sources...)).Get(ctx, program)
			if err != nil {
				return fmt.Errorf("failed to load spec for %s: %w", program, err)
			}

			doc := specDocument{
				Header: *header.New(header.WithKind(kindCommandSpec)),
				Source: res.Source,
				Spec:   res.Spec,
			}
			return writeResult(ctx, cmd, doc)
		},
	}
}

func specsValidateCmd() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Validate spec files",
		ArgsUsage: "<file>...",
		Description: `Decodes and validates spec files (.yaml, .yml, .json, .jsonc) and reports
every problem found. Exits non-zero when any file is invalid:

  cmdexplain specs validate specs/*.yaml`,
		Action: func(_ context.Context, cmd *cli.Command) error {
			files := cmd.Args().Slice()
			if len(files) == 0 {
				return cli.Exit("at least one spec file is required", ExitCodeError)
			}

			w := outputWriter(cmd)
			failed := 0
			for _, f := range files {
				if err := validateSpecFile(f); err != nil {
					failed++
					fmt.Fprintf(w, "FAIL  %s: %v\n", f, err)
					continue
				}
				fmt.Fprintf(w, "OK    %s\n", f)
			}

			if failed > 0 {
				return cli.Exit(fmt.Sprintf("%d of %d spec file(s) invalid", failed, len(files)), ExitCodeError)
			}
			return nil
		},
	}
}

func validateSpecFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, defaults.MaxSpecBytes+1))
	if err != nil {
		return err
	}
	if int64(len(data)) > defaults.MaxSpecBytes {
		return fmt.Errorf("file exceeds %d bytes", defaults.MaxSpecBytes)
	}

	_, err = registry.DecodeFile(path, data)
	return err
}
