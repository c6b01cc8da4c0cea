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

func runRooms(args []string) error {
	if len(args) == 0 {
		return listRooms(nil)
	}
	switch args[0] {
	case "create":
		return createRoom(args[1:])
	case "delete":
		return deleteRoom(args[1:])
	case "invite":
		return inviteToRoom(args[1:])
	case "remove":
		return removeFromRoom(args[1:])
	case "edit":
		return editRoom(args[1:])
	default:
		return listRooms(args)
	}
}

func roomDirectory(configPath string) (*env, *store.RoomDirectory, error) {
	e, err := loadEnv(configPath)
	if err != nil {
		return nil, nil, err
	}
	if _, err := e.requireUser(); err != nil {
		return nil, nil, err
	}
	return e, store.NewRoomDirectory(e.api, e.logger), nil
}

func listRooms(args []string) error {
	flags := flag.NewFlagSet("rooms", flag.ExitOnError)
	configPath := flags.String("config", "", "path to collabspace.yaml config file")
	if err := flags.Parse(args); err != nil {
		return err
	}

	e, directory, err := roomDirectory(*configPath)
	if err != nil {
		return err
	}
	if err := directory.FetchAll(context.Background()); err != nil {
		return err
	}

	user, _ := e.sessions.Current()
	for _, room := range directory.Rooms() {
		owner := ""
		if room.CreatedBy == user.Email || room.CreatedBy == user.ID {
			owner = " (owner)"
		}
		fmt.Printf("%s  %s%s — %s [%d members]\n",
			room.ID, room.Name, owner, room.Description, len(room.Members))
	}
	return nil
}

func createRoom(args []string) error {
	flags := flag.NewFlagSet("rooms create", flag.ExitOnError)
	configPath := flags.String("config", "", "path to collabspace.yaml config file")
	name := flags.String("name", "", "room name (required)")
	description := flags.String("description", "", "room description (required)")
	invite := flags.StringSlice("invite", nil, "emails to invite at creation")
	if err := flags.Parse(args); err != nil {
		return err
	}

	_, directory, err := roomDirectory(*configPath)
	if err != nil {
		return err
	}

	room, err := directory.Create(context.Background(), *name, *description, *invite)
	if err != nil {
		return err
	}
	fmt.Printf("created room %s (%s)\n", room.Name, room.ID)
	return nil
}

func deleteRoom(args []string) error {
	flags := flag.NewFlagSet("rooms delete", flag.ExitOnError)
	configPath := flags.String("config", "", "path to collabspace.yaml config file")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 1 {
		return fmt.Errorf("usage: collabspace rooms delete <room-id>")
	}

	_, directory, err := roomDirectory(*configPath)
	if err != nil {
		return err
	}

	if _, err := directory.Delete(context.Background(), flags.Arg(0)); err != nil {
		return err
	}
	fmt.Printf("deleted room %s\n", flags.Arg(0))
	return nil
}

func inviteToRoom(args []string) error {
	flags := flag.NewFlagSet("rooms invite", flag.ExitOnError)
	configPath := flags.String("config", "", "path to collabspace.yaml config file")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() < 2 {
		return fmt.Errorf("usage: collabspace rooms invite <room-id> <email>...")
	}

	_, directory, err := roomDirectory(*configPath)
	if err != nil {
		return err
	}

	roomID, emails := flags.Arg(0), flags.Args()[1:]
	if err := directory.Invite(context.Background(), roomID, emails); err != nil {
		return err
	}
	fmt.Printf("invited %s to room %s\n", strings.Join(emails, ", "), roomID)
	return nil
}

func removeFromRoom(args []string) error {
	flags := flag.NewFlagSet("rooms remove", flag.ExitOnError)
	configPath := flags.String("config", "", "path to collabspace.yaml config file")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 2 {
		return fmt.Errorf("usage: collabspace rooms remove <room-id> <email>")
	}

	_, directory, err := roomDirectory(*configPath)
	if err != nil {
		return err
	}

	// The creator-is-permanent check needs the room in the local list.
	if err := directory.FetchAll(context.Background()); err != nil {
		return err
	}
	if err := directory.RemoveMember(context.Background(), flags.Arg(0), flags.Arg(1)); err != nil {
		return err
	}
	fmt.Printf("removed %s from room %s\n", flags.Arg(1), flags.Arg(0))
	return nil
}

func editRoom(args []string) error {
	flags := flag.NewFlagSet("rooms edit", flag.ExitOnError)
	configPath := flags.String("config", "", "path to collabspace.yaml config file")
	name := flags.String("name", "", "new room name")
	description := flags.String("description", "", "new room description")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 1 {
		return fmt.Errorf("usage: collabspace rooms edit <room-id> [--name ...] [--description ...]")
	}

	_, directory, err := roomDirectory(*configPath)
	if err != nil {
		return err
	}

	room, err := directory.Update(context.Background(), flags.Arg(0), *name, *description)
	if err != nil {
		return err
	}
	fmt.Printf("updated room %s (%s)\n", room.Name, room.ID)
	return nil
}
