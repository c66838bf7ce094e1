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

package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestDefaultConfig_Env(t *testing.T) {
	t.Setenv(EnvConfig, "")
	t.Setenv(EnvPort, "9090")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvSources, " ./specs , builtin ,,")

	cfg := DefaultConfig()
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"./specs", "builtin"}, cfg.Sources)
	assert.Equal(t, ":9090", cfg.Addr())
}

func TestDefaultConfig_BadPortIgnored(t *testing.T) {
	t.Setenv(EnvConfig, "")
	t.Setenv(EnvPort, "http")
	t.Setenv(EnvSources, "")

	cfg := DefaultConfig()
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, []string{"builtin"}, cfg.Sources)
}

func TestDefaultConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cmdexplain.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
address = "127.0.0.1"
port = 7000
sources = ["/etc/cmdexplain/specs", "builtin"]
watch = true
rate_limit = 5.5
rate_limit_burst = 10
max_command_length = 1024
request_timeout = "5s"
shutdown_timeout = "1m"
`), 0o600))

	t.Setenv(EnvConfig, path)
	t.Setenv(EnvPort, "")
	t.Setenv(EnvSources, "")

	cfg := DefaultConfig()
	assert.Equal(t, "127.0.0.1:7000", cfg.Addr())
	assert.Equal(t, []string{"/etc/cmdexplain/specs", "builtin"}, cfg.Sources)
	assert.True(t, cfg.Watch)
	assert.Equal(t, rate.Limit(5.5), cfg.RateLimit)
	assert.Equal(t, 10, cfg.RateLimitBurst)
	assert.Equal(t, 1024, cfg.MaxCommandLength)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, time.Minute, cfg.ShutdownTimeout)
}

func TestConfig_LoadFileErrors(t *testing.T) {
	cfg := &Config{Port: 8080}
	assert.Error(t, cfg.LoadFile(filepath.Join(t.TempDir(), "missing.toml")))

	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("request_timeout = \"soon\"\n"), 0o600))
	assert.Error(t, cfg.LoadFile(path))
	assert.Equal(t, 8080, cfg.Port)
}
