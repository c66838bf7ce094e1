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

package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{" warn ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLogLevel(tt.in); got != tt.want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestStructuredLogger_Attributes(t *testing.T) {
	var buf bytes.Buffer
	logger := newStructuredLogger(&buf, "cmdexplain-api", "1.2.3", slog.LevelInfo)

	logger.Debug("hidden")
	logger.Info("hello", "k", "v")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("invalid json log line: %v", err)
	}
	if entry["module"] != "cmdexplain-api" || entry["version"] != "1.2.3" || entry["k"] != "v" {
		t.Errorf("unexpected log entry: %#v", entry)
	}
}

func TestCLILogger_TextOmitsTime(t *testing.T) {
	var buf bytes.Buffer
	logger := newCLILogger(&buf, slog.LevelDebug, false)
	logger.Debug("loading spec", "program", "git")

	out := buf.String()
	if strings.Contains(out, "time=") {
		t.Errorf("text output should not contain time: %q", out)
	}
	if !strings.Contains(out, "program=git") {
		t.Errorf("expected attribute in output: %q", out)
	}
}

func TestCLILogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newCLILogger(&buf, slog.LevelInfo, true)
	logger.Info("x")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected json output: %v", err)
	}
}
