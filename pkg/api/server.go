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

// Package api runs the cmdexplain HTTP API server.
package api

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/NVIDIA/cmdexplain/pkg/explain"
	"github.com/NVIDIA/cmdexplain/pkg/logging"
	"github.com/NVIDIA/cmdexplain/pkg/registry"
	"github.com/NVIDIA/cmdexplain/pkg/server"
)

const (
	name           = "cmdexplain-api-server"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags to reflect actual version info
	// e.g., -X "github.com/NVIDIA/cmdexplain/pkg/api.version=1.0.0"
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Serve starts the API server and blocks until shutdown.
// Configuration comes from server.DefaultConfig: environment variables and
// the optional TOML file named by CMDEXPLAIN_CONFIG.
func Serve() error {
	ctx := context.Background()
	cfg := server.DefaultConfig()

	logging.SetDefaultStructuredLoggerWithLevel(name, version, cfg.LogLevel)
	slog.Info("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
		"address", cfg.Addr(),
		"sources", cfg.Sources,
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s, reg, err := newServer(cfg)
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		return err
	}

	if cfg.Watch {
		go func() {
			if err := reg.Watch(ctx); err != nil {
				slog.Error("spec watch stopped", "error", err)
			}
		}()
	}

	if err := s.Run(ctx); err != nil {
		slog.Error("server exited with error", "error", err)
		return err
	}

	return nil
}

// newServer builds the registry and explain handlers for cfg.
func newServer(cfg *server.Config) (*server.Server, *registry.Registry, error) {
	sources, err := registry.SourcesFromURIs(cfg.Sources, registry.URIOptions{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to configure spec sources: %w", err)
	}
	reg := registry.New(registry.WithSources(sources...))

	ex := explain.New(reg,
		explain.WithVersion(version),
		explain.WithMaxCommandLength(cfg.MaxCommandLength),
	)

	s := server.New(
		server.WithName(name),
		server.WithVersion(version),
		server.WithConfig(cfg),
		server.WithHandler(ex.Handlers()),
	)
	return s, reg, nil
}
