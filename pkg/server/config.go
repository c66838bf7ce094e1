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
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"golang.org/x/time/rate"

	"github.com/NVIDIA/cmdexplain/pkg/defaults"
)

// Environment variables read by DefaultConfig.
const (
	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"
	EnvSources  = "CMDEXPLAIN_SOURCES"
	EnvConfig   = "CMDEXPLAIN_CONFIG"
)

// DefaultConfig returns defaults overridden by the config file named in
// CMDEXPLAIN_CONFIG, then by environment variables. A config file that
// cannot be read is logged and ignored.
func DefaultConfig() *Config {
	cfg := &Config{
		Address:           "",
		Port:              8080,
		RateLimit:         100, // req/s
		RateLimitBurst:    200,
		Sources:           []string{"builtin"},
		MaxCommandLength:  defaults.MaxCommandLineBytes,
		ReadTimeout:       defaults.ServerReadTimeout,
		ReadHeaderTimeout: defaults.ServerReadHeaderTimeout,
		WriteTimeout:      defaults.ServerWriteTimeout,
		IdleTimeout:       defaults.ServerIdleTimeout,
		RequestTimeout:    defaults.ExplainHandlerTimeout,
		ShutdownTimeout:   defaults.ServerShutdownTimeout,
		LogLevel:          slog.LevelInfo.String(),
	}

	if path := os.Getenv(EnvConfig); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			slog.Warn("ignoring config file", "path", path, "error", err)
		}
	}

	if portStr := os.Getenv(EnvPort); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			cfg.Port = port
		}
	}

	if level := os.Getenv(EnvLogLevel); level != "" {
		cfg.LogLevel = level
	}

	if sources := os.Getenv(EnvSources); sources != "" {
		cfg.Sources = splitList(sources)
	}

	return cfg
}

// fileConfig is the TOML shape of Config. Unset fields keep their defaults.
type fileConfig struct {
	Address          *string   `toml:"address"`
	Port             *int      `toml:"port"`
	LogLevel         *string   `toml:"log_level"`
	Sources          []string  `toml:"sources"`
	Watch            *bool     `toml:"watch"`
	RateLimit        *float64  `toml:"rate_limit"`
	RateLimitBurst   *int      `toml:"rate_limit_burst"`
	MaxCommandLength *int      `toml:"max_command_length"`
	RequestTimeout   *Duration `toml:"request_timeout"`
	ShutdownTimeout  *Duration `toml:"shutdown_timeout"`
}

// Duration is a time.Duration written as a string such as "30s".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// LoadFile applies the settings of a TOML config file on top of c.
func (c *Config) LoadFile(path string) error {
	var fc fileConfig
	md, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		slog.Warn("unknown config keys", "path", path, "keys", fmt.Sprint(undecoded))
	}

	if fc.Address != nil {
		c.Address = *fc.Address
	}
	if fc.Port != nil {
		c.Port = *fc.Port
	}
	if fc.LogLevel != nil {
		c.LogLevel = *fc.LogLevel
	}
	if len(fc.Sources) > 0 {
		c.Sources = fc.Sources
	}
	if fc.Watch != nil {
		c.Watch = *fc.Watch
	}
	if fc.RateLimit != nil {
		c.RateLimit = rate.Limit(*fc.RateLimit)
	}
	if fc.RateLimitBurst != nil {
		c.RateLimitBurst = *fc.RateLimitBurst
	}
	if fc.MaxCommandLength != nil {
		c.MaxCommandLength = *fc.MaxCommandLength
	}
	if fc.RequestTimeout != nil {
		c.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.ShutdownTimeout != nil {
		c.ShutdownTimeout = fc.ShutdownTimeout.Duration
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Address, c.Port)
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
