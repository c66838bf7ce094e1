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

// Package cli implements the command-line interface for the cmdexplain tool.
//
// # Overview
//
// cmdexplain reads a shell command line and explains every token against a
// declarative spec of the program: which subcommand was selected, which
// options were given and which values each positional argument received.
// Nothing is executed or expanded.
//
// # Commands
//
// explain - Explain a command line:
//
//	cmdexplain explain "git push origin main --force"
//	cmdexplain explain -t json -- npm i -g npm@latest
//	cmdexplain explain --source ./specs "kubectl get pods"
//	cmdexplain explain -o cm://tools/last-explanation "brew install --cask some-app"
//
// The result lists each token with its role, name, description and any
// error. Errors (unknown options, surplus arguments) are part of the output;
// use --fail-on-error to turn them into exit code 3.
//
// tokenize - Split a command line into words:
//
//	cmdexplain tokenize "echo 'hello world'"
//
// specs - Work with command specs:
//
//	cmdexplain specs list [--filter 'g*,npm']
//	cmdexplain specs show git
//	cmdexplain specs validate specs/*.yaml
//
// mcp - Serve the explain tools over MCP stdio:
//
//	cmdexplain mcp --source builtin
//
// # Spec Sources
//
// --source is repeatable and searched in order:
//
//	builtin                   specs compiled into the binary
//	./specs, file:///specs    directory tree of <program>.{yaml,yml,json,jsonc}
//	https://host/path         <base>/<program>.<ext> over HTTP
//	cm://namespace/name       Kubernetes ConfigMap keys <program>.<ext>
//	oci://registry/repo:tag   OCI artifact with one layer per spec file
//
// # Global Flags
//
//	--debug          Enable debug logging
//	--log-json       Output logs in JSON format
//	--kubeconfig, -k Path to kubeconfig file
//	--plain-http     Use HTTP for oci:// sources
//	--help, -h       Show command help
//	--version, -v    Show version information
//
// # Output
//
// --format (-t) selects json, yaml or table (default). --output (-o) writes
// to a file or a ConfigMap (cm://namespace/name) instead of stdout. --query
// (-q) applies a jq expression to the JSON form of the result first:
//
//	cmdexplain explain -t json -q '[.nodes[] | select(.role == "option") | .token]' "git reset --hard HEAD"
//
// # Environment Variables
//
//	LOG_LEVEL            Set logging verbosity (debug, info, warn, error)
//	CMDEXPLAIN_SOURCES   Comma separated default for --source
//	CMDEXPLAIN_DEBUG     Enable debug logging
//	KUBECONFIG           Path to kubeconfig file
//
// # Exit Codes
//
//	0  Success
//	1  General error (invalid arguments, execution failure)
//	2  Context canceled or timeout
//	3  Parse errors with --fail-on-error
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/NVIDIA/cmdexplain/pkg/cli.version=1.0.0'"
package cli
