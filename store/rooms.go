// Copyright 2026 The CollabSpace Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/collabspace/collabspace/client"
)

// RoomDirectory is the authoritative in-client list of rooms the user
// belongs to. FetchAll replaces the whole list with the server's
// ordering; mutations patch the list only after the server confirms.
type RoomDirectory struct {
	mu     sync.Mutex
	api    *client.Client
	logger *slog.Logger

	rooms    []client.Room
	selected string

	// fetchSeq tags each FetchAll before its network call;
	// appliedSeq records the newest response applied. A response
	// whose tag is not greater than appliedSeq is stale — a newer
	// fetch already landed — and is discarded.
	fetchSeq   uint64
	appliedSeq uint64
}

// NewRoomDirectory creates an empty directory backed by the given API
// client.
func NewRoomDirectory(api *client.Client, logger *slog.Logger) *RoomDirectory {
	if logger == nil {
		logger = slog.Default()
	}
	return &RoomDirectory{api: api, logger: logger}
}

// Rooms returns a snapshot of the current room list. The copy is
// defensive — mutating it does not affect the directory.
func (d *RoomDirectory) Rooms() []client.Room {
	d.mu.Lock()
	defer d.mu.Unlock()
	return copyRooms(d.rooms)
}

// Room returns a snapshot of a single room by ID.
func (d *RoomDirectory) Room(roomID string) (client.Room, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, room := range d.rooms {
		if room.ID == roomID {
			room.Members = slices.Clone(room.Members)
			return room, true
		}
	}
	return client.Room{}, false
}

// Select marks a room as the current selection. Returns false if the
// room is not in the directory.
func (d *RoomDirectory) Select(roomID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, room := range d.rooms {
		if room.ID == roomID {
			d.selected = roomID
			return true
		}
	}
	return false
}

// Selected returns the currently selected room ID, if any.
func (d *RoomDirectory) Selected() (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.selected, d.selected != ""
}

// FetchAll requests the room list and, on success, replaces the local
// list with the server's ordering. On failure the existing list is
// untouched. Overlapping calls are allowed; a response that arrives
// after a newer fetch has already been applied is discarded.
func (d *RoomDirectory) FetchAll(ctx context.Context) error {
	d.mu.Lock()
	d.fetchSeq++
	seq := d.fetchSeq
	d.mu.Unlock()

	rooms, err := d.api.Rooms(ctx)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if seq <= d.appliedSeq {
		d.logger.Debug("discarding stale room list response", "seq", seq, "applied", d.appliedSeq)
		return nil
	}
	d.appliedSeq = seq
	d.rooms = rooms
	return nil
}

// Create validates locally, sends the create request, and on success
// appends the server-returned room to the list. Empty or
// whitespace-only name or description fails validation before any
// network call.
func (d *RoomDirectory) Create(ctx context.Context, name, description string, emails []string) (client.Room, error) {
	if strings.TrimSpace(name) == "" {
		return client.Room{}, &client.Error{Kind: client.KindValidation, Message: "room name is required"}
	}
	if strings.TrimSpace(description) == "" {
		return client.Room{}, &client.Error{Kind: client.KindValidation, Message: "room description is required"}
	}

	room, err := d.api.CreateRoom(ctx, client.CreateRoomRequest{
		Name:        name,
		Description: description,
		Emails:      emails,
	})
	if err != nil {
		return client.Room{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.rooms = append(d.rooms, *room)
	return *room, nil
}

// Delete removes a room after server confirmation. The returned flag
// reports whether the deleted room was the current selection, in which
// case the selection has been cleared and the consuming layer decides
// what to select next. On failure the local list is unchanged.
func (d *RoomDirectory) Delete(ctx context.Context, roomID string) (wasSelected bool, err error) {
	if err := d.api.DeleteRoom(ctx, roomID); err != nil {
		return false, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.rooms = slices.DeleteFunc(d.rooms, func(room client.Room) bool {
		return room.ID == roomID
	})
	if d.selected == roomID {
		d.selected = ""
		wasSelected = true
	}
	return wasSelected, nil
}

// Update edits a room's name and description, patching the local entry
// from the server's confirmed copy.
func (d *RoomDirectory) Update(ctx context.Context, roomID, name, description string) (client.Room, error) {
	if strings.TrimSpace(name) == "" && strings.TrimSpace(description) == "" {
		return client.Room{}, &client.Error{Kind: client.KindValidation, Message: "nothing to update"}
	}

	updated, err := d.api.UpdateRoom(ctx, roomID, client.UpdateRoomRequest{
		Name:        name,
		Description: description,
	})
	if err != nil {
		return client.Room{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	for index := range d.rooms {
		if d.rooms[index].ID == roomID {
			d.rooms[index] = *updated
			break
		}
	}
	return *updated, nil
}

// Invite adds members to a room's member set after server
// confirmation. Inviting an existing member is a no-op: the member set
// never gains duplicates.
func (d *RoomDirectory) Invite(ctx context.Context, roomID string, emails []string) error {
	if len(emails) == 0 {
		return &client.Error{Kind: client.KindValidation, Message: "at least one email is required"}
	}
	for _, email := range emails {
		if strings.TrimSpace(email) == "" {
			return &client.Error{Kind: client.KindValidation, Message: "empty email in invite list"}
		}
	}

	if err := d.api.InviteToRoom(ctx, roomID, emails); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	for index := range d.rooms {
		if d.rooms[index].ID != roomID {
			continue
		}
		for _, email := range emails {
			if !slices.Contains(d.rooms[index].Members, email) {
				d.rooms[index].Members = append(d.rooms[index].Members, email)
			}
		}
		break
	}
	return nil
}

// RemoveMember removes a member from a room after server confirmation.
// The room creator is never removable — that fails local validation.
// Removing someone who is not a member is a no-op.
func (d *RoomDirectory) RemoveMember(ctx context.Context, roomID, email string) error {
	if strings.TrimSpace(email) == "" {
		return &client.Error{Kind: client.KindValidation, Message: "email is required"}
	}

	d.mu.Lock()
	for _, room := range d.rooms {
		if room.ID == roomID && room.CreatedBy != "" && room.CreatedBy == email {
			d.mu.Unlock()
			return &client.Error{
				Kind:    client.KindValidation,
				Message: fmt.Sprintf("cannot remove %s: room creator", email),
			}
		}
	}
	d.mu.Unlock()

	if err := d.api.RemoveFromRoom(ctx, roomID, email); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	for index := range d.rooms {
		if d.rooms[index].ID != roomID {
			continue
		}
		d.rooms[index].Members = slices.DeleteFunc(d.rooms[index].Members, func(member string) bool {
			return member == email
		})
		break
	}
	return nil
}

func copyRooms(rooms []client.Room) []client.Room {
	copied := make([]client.Room, len(rooms))
	for index, room := range rooms {
		room.Members = slices.Clone(room.Members)
		copied[index] = room
	}
	return copied
}
