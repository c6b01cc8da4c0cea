// Copyright 2026 The CollabSpace Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/collabspace/collabspace/store"
)

func runMessages(args []string) error {
	flags := flag.NewFlagSet("messages", flag.ExitOnError)
	configPath := flags.String("config", "", "path to collabspace.yaml config file")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 1 {
		return fmt.Errorf("usage: collabspace messages <room-id>")
	}
	roomID := flags.Arg(0)

	e, err := loadEnv(*configPath)
	if err != nil {
		return err
	}
	if _, err := e.requireUser(); err != nil {
		return err
	}

	log := store.NewMessageLog(e.api, e.sessions, e.logger)
	if err := log.FetchForRoom(context.Background(), roomID); err != nil {
		return err
	}

	for _, message := range log.Messages(roomID) {
		sender := message.Sender
		if message.IsOwn {
			sender = "you"
		}
		marker := ""
		if message.IsTask {
			marker = " [task]"
		}
		fmt.Printf("%s  %s%s: %s\n", message.Timestamp, sender, marker, message.Content)
	}
	return nil
}

func runSend(args []string) error {
	flags := flag.NewFlagSet("send", flag.ExitOnError)
	configPath := flags.String("config", "", "path to collabspace.yaml config file")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() < 2 {
		return fmt.Errorf("usage: collabspace send <room-id> <message>")
	}
	roomID := flags.Arg(0)
	content := strings.Join(flags.Args()[1:], " ")

	e, err := loadEnv(*configPath)
	if err != nil {
		return err
	}
	if _, err := e.requireUser(); err != nil {
		return err
	}

	log := store.NewMessageLog(e.api, e.sessions, e.logger)
	message, err := log.Send(context.Background(), roomID, content)
	if err != nil {
		return err
	}
	fmt.Printf("sent message %s\n", message.ID)
	return nil
}
