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
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/cmdexplain/pkg/k8s/client"
	"github.com/NVIDIA/cmdexplain/pkg/logging"
)

const (
	name           = "cmdexplain"
	versionDefault = "dev"

	// ExitCodeError is returned for general failures.
	ExitCodeError = 1

	// ExitCodeCanceled is returned when the context is canceled or times out.
	ExitCodeCanceled = 2

	// ExitCodeParseErrors is returned by explain --fail-on-error when the
	// command line does not match its spec.
	ExitCodeParseErrors = 3
)

var (
	// overridden during build with ldflags to reflect actual version info
	// e.g., -X "github.com/NVIDIA/cmdexplain/pkg/cli.version=1.0.0"
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Execute runs the CLI with os.Args and exits with the matching code.
func Execute() {
	ctx := context.Background()
	if err := newRootCmd().Run(ctx, os.Args); err != nil {
		if msg := err.Error(); msg != "" {
			fmt.Fprintln(os.Stderr, "Error:", msg)
		}
		os.Exit(exitCode(err))
	}
}

// exitCode maps an error returned by the command tree to a process exit code.
func exitCode(err error) int {
	var ec cli.ExitCoder
	switch {
	case err == nil:
		return 0
	case errors.As(err, &ec):
		return ec.ExitCode()
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ExitCodeCanceled
	default:
		return ExitCodeError
	}
}

func newRootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Version:               fmt.Sprintf("%s (commit: %s, date: %s)", version, commit, date),
		Usage:                 "Explain what a shell command line does, token by token",
		EnableShellCompletion: true,
		ShellComplete:         commandLister,
		ExitErrHandler:        func(context.Context, *cli.Command, error) {},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Enable debug logging",
				Sources: cli.EnvVars("CMDEXPLAIN_DEBUG"),
			},
			&cli.BoolFlag{
				Name:  "log-json",
				Usage: "Output logs in JSON format",
			},
			kubeconfigFlag(),
			&cli.BoolFlag{
				Name:  "plain-http",
				Usage: "Use HTTP instead of HTTPS for oci:// spec sources (for local registries)",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			level := logging.ParseLogLevel(os.Getenv(logging.EnvLogLevel))
			if cmd.Bool("debug") {
				level = slog.LevelDebug
			}
			logging.SetDefaultCLILogger(level, cmd.Bool("log-json"))

			if kc := cmd.String("kubeconfig"); kc != "" {
				client.SetKubeconfig(kc)
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			explainCmd(),
			tokenizeCmd(),
			specsCmd(),
			mcpCmd(),
		},
	}
}

// commandLister prints the visible subcommands for shell completion.
func commandLister(_ context.Context, cmd *cli.Command) {
	if cmd == nil {
		return
	}
	for _, c := range cmd.Commands {
		if c.Hidden {
			continue
		}
		fmt.Fprintln(outputWriter(cmd), c.Name)
	}
}
