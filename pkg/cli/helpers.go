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
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/cmdexplain/pkg/explain"
	"github.com/NVIDIA/cmdexplain/pkg/registry"
	"github.com/NVIDIA/cmdexplain/pkg/serializer"
	"github.com/NVIDIA/cmdexplain/pkg/tokenizer"
)

const envSources = "CMDEXPLAIN_SOURCES"

// Flags are built per command: urfave/cli flags keep parsed state.

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output destination: file path, ConfigMap URI (cm://namespace/name), or - for stdout",
	}
}

func formatFlag(def serializer.Format) cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Value:   string(def),
		Usage:   "Output format (json, yaml, table)",
	}
}

func queryFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "query",
		Aliases: []string{"q"},
		Usage:   "jq expression applied to the JSON form of the result (e.g. '.errors')",
	}
}

func sourceFlag() cli.Flag {
	return &cli.StringSliceFlag{
		Name:    "source",
		Aliases: []string{"s"},
		Usage: `Spec source URI, repeatable, searched in order (default: builtin).
	Supports: builtin, directory paths, http(s):// URLs, cm://namespace/name, oci://registry/repo:tag`,
		Sources: cli.EnvVars(envSources),
	}
}

func kubeconfigFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "kubeconfig",
		Aliases: []string{"k"},
		Usage:   "Path to kubeconfig file (overrides KUBECONFIG env)",
	}
}

// parseOutputFormat extracts and validates the output format from CLI flags.
// Returns the validated format or an error if the format is unknown.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	outFormat := serializer.Format(strings.ToLower(cmd.String("format")))
	if outFormat.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q, valid formats are: %s",
			outFormat, strings.Join(serializer.SupportedFormats(), ", "))
	}
	return outFormat, nil
}

// outputWriter returns the writer for command output.
func outputWriter(cmd *cli.Command) io.Writer {
	if root := cmd.Root(); root != nil && root.Writer != nil {
		return root.Writer
	}
	return os.Stdout
}

// sourceURIs returns the --source values, defaulting to the built-in specs.
func sourceURIs(cmd *cli.Command) []string {
	var uris []string
	for _, u := range cmd.StringSlice("source") {
		if u = strings.TrimSpace(u); u != "" {
			uris = append(uris, u)
		}
	}
	if len(uris) == 0 {
		return []string{"builtin"}
	}
	return uris
}

// newExplainer builds an explainer over the sources named by --source.
func newExplainer(cmd *cli.Command) (*explain.Explainer, error) {
	uris := sourceURIs(cmd)
	sources, err := registry.SourcesFromURIs(uris, registry.URIOptions{
		PlainHTTP: cmd.Bool("plain-http"),
	})
	if err != nil {
		return nil, err
	}
	slog.Debug("spec sources configured", "sources", uris)

	return explain.New(
		registry.New(registry.WithSources(sources...)),
		explain.WithVersion(version),
	), nil
}

// writeResult applies --query and writes data to --output in --format.
func writeResult(ctx context.Context, cmd *cli.Command, data any) error {
	outFormat, err := parseOutputFormat(cmd)
	if err != nil {
		return err
	}

	if q := cmd.String("query"); q != "" {
		if data, err = serializer.Query(ctx, data, q); err != nil {
			return err
		}
	}

	var ser serializer.Serializer
	if out := strings.TrimSpace(cmd.String("output")); out == "" || out == serializer.StdoutURI {
		ser = serializer.NewWriter(outFormat, outputWriter(cmd))
	} else if ser, err = serializer.NewFileWriterOrStdout(outFormat, out); err != nil {
		return err
	}

	if c, ok := ser.(serializer.Closer); ok {
		defer func() {
			if err := c.Close(); err != nil {
				slog.Warn("failed to close serializer", "error", err)
			}
		}()
	}

	return ser.Serialize(ctx, data)
}

// commandLine returns the command line given as arguments. A single argument
// is used as is; several arguments were already split by the invoking shell
// and are re-quoted so each stays one token.
func commandLine(cmd *cli.Command) (string, error) {
	args := cmd.Args().Slice()
	switch len(args) {
	case 0:
		return "", cli.Exit("a command line is required, e.g. cmdexplain explain -- git push origin main", ExitCodeError)
	case 1:
		return args[0], nil
	default:
		return tokenizer.Quote(args), nil
	}
}
