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

// Package logging configures the process-wide slog logger.
//
// Servers use SetDefaultStructuredLogger for JSON logs tagged with the
// service name and version. The CLI uses SetDefaultCLILogger which writes
// compact text (or JSON with --log-json) to stderr so stdout stays reserved
// for command output.
//
// The level comes from the LOG_LEVEL environment variable (debug, info,
// warn, error) unless set explicitly.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	// EnvLogLevel names the environment variable holding the log level.
	EnvLogLevel = "LOG_LEVEL"
)

// ParseLogLevel converts a level name to a slog.Level. Unknown or empty
// names map to info.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetDefaultStructuredLogger installs a JSON logger on stderr with service
// attributes, using LOG_LEVEL for the level.
func SetDefaultStructuredLogger(name, version string) {
	SetDefaultStructuredLoggerWithLevel(name, version, os.Getenv(EnvLogLevel))
}

// SetDefaultStructuredLoggerWithLevel is SetDefaultStructuredLogger with an
// explicit level name.
func SetDefaultStructuredLoggerWithLevel(name, version, level string) {
	slog.SetDefault(newStructuredLogger(os.Stderr, name, version, ParseLogLevel(level)))
}

// SetDefaultCLILogger installs a logger for command-line use at the given
// level. JSON output is used when asJSON is set.
func SetDefaultCLILogger(level slog.Level, asJSON bool) {
	slog.SetDefault(newCLILogger(os.Stderr, level, asJSON))
}

func newStructuredLogger(w io.Writer, name, version string, level slog.Level) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		AddSource: level <= slog.LevelDebug,
		Level:     level,
	})
	return slog.New(h).With(
		slog.String("module", name),
		slog.String("version", version),
	)
}

func newCLILogger(w io.Writer, level slog.Level, asJSON bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if asJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}

	// drop the timestamp; CLI runs are short and interactive
	opts.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
		if len(groups) == 0 && a.Key == slog.TimeKey {
			return slog.Attr{}
		}
		return a
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
