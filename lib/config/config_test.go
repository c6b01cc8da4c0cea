// Copyright 2026 The CollabSpace Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "collabspace.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	t.Run("full config", func(t *testing.T) {
		path := writeConfig(t, `
server_url: http://127.0.0.1:8000/api
request_timeout_seconds: 5
state_dir: /tmp/collabspace-test
`)
		cfg, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile failed: %v", err)
		}
		if cfg.ServerURL != "http://127.0.0.1:8000/api" {
			t.Errorf("unexpected server URL: %s", cfg.ServerURL)
		}
		if cfg.RequestTimeout() != 5*time.Second {
			t.Errorf("unexpected timeout: %v", cfg.RequestTimeout())
		}
		if cfg.StateDir != "/tmp/collabspace-test" {
			t.Errorf("unexpected state dir: %s", cfg.StateDir)
		}
	})

	t.Run("defaults applied", func(t *testing.T) {
		path := writeConfig(t, "server_url: http://localhost:8000/api\n")
		cfg, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile failed: %v", err)
		}
		if cfg.RequestTimeoutSeconds != 10 {
			t.Errorf("expected default timeout 10, got %d", cfg.RequestTimeoutSeconds)
		}
		if cfg.StateDir != os.Getenv("HOME")+"/.collabspace" {
			t.Errorf("expected HOME expansion, got %s", cfg.StateDir)
		}
	})

	t.Run("missing server URL", func(t *testing.T) {
		path := writeConfig(t, "request_timeout_seconds: 10\n")
		if _, err := LoadFile(path); err == nil {
			t.Fatal("expected error for missing server_url")
		}
	})

	t.Run("non-positive timeout", func(t *testing.T) {
		path := writeConfig(t, "server_url: http://x\nrequest_timeout_seconds: 0\n")
		if _, err := LoadFile(path); err == nil {
			t.Fatal("expected error for zero timeout")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
			t.Fatal("expected error for missing file")
		}
	})

	t.Run("malformed YAML", func(t *testing.T) {
		path := writeConfig(t, "server_url: [unclosed\n")
		if _, err := LoadFile(path); err == nil {
			t.Fatal("expected error for malformed YAML")
		}
	})
}

func TestLoadRequiresEnvVar(t *testing.T) {
	t.Setenv("COLLABSPACE_CONFIG", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when COLLABSPACE_CONFIG is unset")
	}
}
