// Copyright 2026 The CollabSpace Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	flag "github.com/spf13/pflag"
)

func runLogin(args []string) error {
	flags := flag.NewFlagSet("login", flag.ExitOnError)
	configPath := flags.String("config", "", "path to collabspace.yaml config file")
	email := flags.String("email", "", "account email (required)")
	password := flags.String("password", "", "account password (read from stdin when omitted)")
	if err := flags.Parse(args); err != nil {
		return err
	}

	e, err := loadEnv(*configPath)
	if err != nil {
		return err
	}

	secret := *password
	if secret == "" {
		secret, err = promptSecret("Password: ")
		if err != nil {
			return err
		}
	}

	response, err := e.api.Login(context.Background(), *email, secret)
	if err != nil {
		return err
	}
	if err := e.sessions.SetSession(response.User, response.Access, response.Refresh); err != nil {
		return err
	}

	fmt.Printf("logged in as %s <%s>\n", response.User.Name, response.User.Email)
	return nil
}

func runRegister(args []string) error {
	flags := flag.NewFlagSet("register", flag.ExitOnError)
	configPath := flags.String("config", "", "path to collabspace.yaml config file")
	name := flags.String("name", "", "display name (required)")
	email := flags.String("email", "", "account email (required)")
	password := flags.String("password", "", "account password (read from stdin when omitted)")
	if err := flags.Parse(args); err != nil {
		return err
	}

	e, err := loadEnv(*configPath)
	if err != nil {
		return err
	}

	secret := *password
	if secret == "" {
		secret, err = promptSecret("Password: ")
		if err != nil {
			return err
		}
	}

	response, err := e.api.Register(context.Background(), *name, *email, secret)
	if err != nil {
		return err
	}
	if err := e.sessions.SetSession(response.User, response.Access, response.Refresh); err != nil {
		return err
	}

	fmt.Printf("registered %s <%s>\n", response.User.Name, response.User.Email)
	return nil
}

func runLogout(args []string) error {
	flags := flag.NewFlagSet("logout", flag.ExitOnError)
	configPath := flags.String("config", "", "path to collabspace.yaml config file")
	if err := flags.Parse(args); err != nil {
		return err
	}

	e, err := loadEnv(*configPath)
	if err != nil {
		return err
	}

	// Best effort server-side; the local session is torn down either
	// way so a dead server cannot pin a stale login.
	if err := e.api.Logout(context.Background()); err != nil {
		e.logger.Warn("server logout failed", "error", err)
	}
	e.sessions.Clear()
	fmt.Println("logged out")
	return nil
}

func runWhoAmI(args []string) error {
	flags := flag.NewFlagSet("whoami", flag.ExitOnError)
	configPath := flags.String("config", "", "path to collabspace.yaml config file")
	if err := flags.Parse(args); err != nil {
		return err
	}

	e, err := loadEnv(*configPath)
	if err != nil {
		return err
	}
	user, err := e.requireUser()
	if err != nil {
		return err
	}

	fmt.Printf("%s <%s> (id %s)\n", user.Name, user.Email, user.ID)
	return nil
}

// promptSecret reads a line from stdin. Plain read, no terminal echo
// suppression — this CLI targets development use against a local
// backend.
func promptSecret(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
