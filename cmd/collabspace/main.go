// Copyright 2026 The CollabSpace Authors
// SPDX-License-Identifier: Apache-2.0

// Command collabspace is a terminal front end for the CollabSpace
// client layer: authentication, room management, messaging, and the
// local task board.
package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/collabspace/collabspace/client"
	"github.com/collabspace/collabspace/lib/config"
	"github.com/collabspace/collabspace/session"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) < 2 {
		printUsage()
		return fmt.Errorf("subcommand required")
	}

	subcommand := os.Args[1]
	args := os.Args[2:]
	switch subcommand {
	case "login":
		return runLogin(args)
	case "register":
		return runRegister(args)
	case "logout":
		return runLogout(args)
	case "whoami":
		return runWhoAmI(args)
	case "rooms":
		return runRooms(args)
	case "messages":
		return runMessages(args)
	case "send":
		return runSend(args)
	case "task":
		return runTask(args)
	case "-h", "--help", "help":
		printUsage()
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown subcommand: %q", subcommand)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: collabspace <subcommand> [flags]

Subcommands:
  login       Sign in and store the session
  register    Create an account and sign in
  logout      Invalidate the session
  whoami      Print the current user
  rooms       List and manage rooms
  messages    Print a room's message thread
  send        Send a message to a room
  task        Manage the local task board

Run 'collabspace <subcommand> --help' for subcommand flags.
`)
}

// env bundles the wired-up client layer for one command invocation.
type env struct {
	cfg      *config.Config
	sessions *session.Store
	api      *client.Client
	logger   *slog.Logger
}

// loadEnv loads configuration (from --config or COLLABSPACE_CONFIG),
// restores any persisted session, and builds the API client.
func loadEnv(configPath string) (*env, error) {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	sessions := session.New(filepath.Join(cfg.StateDir, "session.json"), logger)
	sessions.Restore()

	api, err := client.New(client.Config{
		ServerURL:   cfg.ServerURL,
		Credentials: sessions,
		Logger:      logger,
		HTTPClient:  &http.Client{Timeout: cfg.RequestTimeout()},
	})
	if err != nil {
		return nil, err
	}

	return &env{cfg: cfg, sessions: sessions, api: api, logger: logger}, nil
}

// requireUser returns the current user or an error telling the caller
// to log in.
func (e *env) requireUser() (client.User, error) {
	user, ok := e.sessions.Current()
	if !ok {
		return client.User{}, fmt.Errorf("not logged in; run 'collabspace login' first")
	}
	return user, nil
}
