// Copyright 2026 The CollabSpace Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Rooms fetches the full room list for the current user.
func (c *Client) Rooms(ctx context.Context) ([]Room, error) {
	body, err := c.authedRequest(ctx, http.MethodGet, "/rooms/", nil)
	if err != nil {
		return nil, fmt.Errorf("client: fetching rooms failed: %w", err)
	}

	var rooms []Room
	if err := json.Unmarshal(body, &rooms); err != nil {
		return nil, fmt.Errorf("client: failed to parse rooms response: %w", err)
	}
	return rooms, nil
}

// CreateRoom creates a room and returns the server's copy, including
// the assigned identifier, creation timestamp, and creator.
func (c *Client) CreateRoom(ctx context.Context, request CreateRoomRequest) (*Room, error) {
	body, err := c.authedRequest(ctx, http.MethodPost, "/rooms/", request)
	if err != nil {
		return nil, fmt.Errorf("client: create room failed: %w", err)
	}

	var room Room
	if err := json.Unmarshal(body, &room); err != nil {
		return nil, fmt.Errorf("client: failed to parse create room response: %w", err)
	}

	c.logger.Info("created room", "room_id", room.ID, "name", room.Name)
	return &room, nil
}

// DeleteRoom deletes a room by ID. Deleting a room that does not exist
// surfaces the server's not-found response as a KindServer error.
func (c *Client) DeleteRoom(ctx context.Context, roomID string) error {
	path := "/rooms/" + url.PathEscape(roomID) + "/"
	if _, err := c.authedRequest(ctx, http.MethodDelete, path, nil); err != nil {
		return fmt.Errorf("client: delete room %q failed: %w", roomID, err)
	}

	c.logger.Info("deleted room", "room_id", roomID)
	return nil
}

// UpdateRoom applies a partial edit (name, description) and returns the
// server's updated copy.
func (c *Client) UpdateRoom(ctx context.Context, roomID string, request UpdateRoomRequest) (*Room, error) {
	path := "/rooms/" + url.PathEscape(roomID) + "/"
	body, err := c.authedRequest(ctx, http.MethodPatch, path, request)
	if err != nil {
		return nil, fmt.Errorf("client: update room %q failed: %w", roomID, err)
	}

	var room Room
	if err := json.Unmarshal(body, &room); err != nil {
		return nil, fmt.Errorf("client: failed to parse update room response: %w", err)
	}
	return &room, nil
}

// InviteToRoom invites the given emails to a room. The server treats
// already-present members as no-ops, so the call is idempotent.
func (c *Client) InviteToRoom(ctx context.Context, roomID string, emails []string) error {
	path := "/chat/rooms/" + url.PathEscape(roomID) + "/invite/"
	if _, err := c.authedRequest(ctx, http.MethodPost, path, inviteRequest{Emails: emails}); err != nil {
		return fmt.Errorf("client: invite to room %q failed: %w", roomID, err)
	}
	return nil
}

// RemoveFromRoom removes a member from a room. Removing someone who is
// not a member is a server-side no-op.
func (c *Client) RemoveFromRoom(ctx context.Context, roomID, email string) error {
	path := "/chat/rooms/" + url.PathEscape(roomID) + "/remove/"
	if _, err := c.authedRequest(ctx, http.MethodPost, path, removeMemberRequest{Email: email}); err != nil {
		return fmt.Errorf("client: remove %q from room %q failed: %w", email, roomID, err)
	}
	return nil
}
