// Copyright 2026 The CollabSpace Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for the CollabSpace
// client.
//
// Configuration is loaded from a single YAML file specified by:
//   - COLLABSPACE_CONFIG environment variable, or
//   - --config flag passed to the command
//
// There are no fallbacks or automatic discovery. The config file is the
// single source of truth: environment variables never override config
// values, which keeps configuration deterministic and auditable. The
// only expansion performed is ${HOME} in paths for portability.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the full client configuration.
type Config struct {
	// ServerURL is the base URL of the CollabSpace API server
	// (e.g., "http://127.0.0.1:8000/api"). Required.
	ServerURL string `yaml:"server_url"`

	// RequestTimeoutSeconds bounds every HTTP request made by the
	// transport client. Default: 10.
	RequestTimeoutSeconds int `yaml:"request_timeout_seconds"`

	// StateDir is where durable client state lives: the session file
	// and the local task board snapshot. Default: ${HOME}/.collabspace.
	StateDir string `yaml:"state_dir"`
}

// Default returns a Config with default values for everything except
// ServerURL, which has no sensible default.
func Default() *Config {
	return &Config{
		RequestTimeoutSeconds: 10,
		StateDir:              "${HOME}/.collabspace",
	}
}

// Load loads configuration from the path in the COLLABSPACE_CONFIG
// environment variable.
func Load() (*Config, error) {
	configPath := os.Getenv("COLLABSPACE_CONFIG")
	if configPath == "" {
		return nil, fmt.Errorf("COLLABSPACE_CONFIG environment variable not set; " +
			"set it to the path of your collabspace.yaml config file, or use --config flag")
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.StateDir = strings.ReplaceAll(cfg.StateDir, "${HOME}", os.Getenv("HOME"))

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// RequestTimeout returns the configured request timeout as a Duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

func (c *Config) validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("server_url is required")
	}
	if c.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("request_timeout_seconds must be positive, got %d", c.RequestTimeoutSeconds)
	}
	if c.StateDir == "" {
		return fmt.Errorf("state_dir is required")
	}
	return nil
}
