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

// RoomMessages fetches the ordered message list for a room, oldest
// first. Rooms are fetched independently — there is no global
// fetch-all-messages operation.
func (c *Client) RoomMessages(ctx context.Context, roomID string) ([]Message, error) {
	path := "/chat/rooms/" + url.PathEscape(roomID) + "/messages/"
	body, err := c.authedRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("client: fetching messages for room %q failed: %w", roomID, err)
	}

	var messages []Message
	if err := json.Unmarshal(body, &messages); err != nil {
		return nil, fmt.Errorf("client: failed to parse messages response: %w", err)
	}
	return messages, nil
}

// SendMessage posts a message to a room and returns the
// server-confirmed copy with its assigned identifier and timestamp.
func (c *Client) SendMessage(ctx context.Context, roomID, content string) (*Message, error) {
	path := "/chat/rooms/" + url.PathEscape(roomID) + "/messages/"
	body, err := c.authedRequest(ctx, http.MethodPost, path, sendMessageRequest{Message: content})
	if err != nil {
		return nil, fmt.Errorf("client: sending message to room %q failed: %w", roomID, err)
	}

	var message Message
	if err := json.Unmarshal(body, &message); err != nil {
		return nil, fmt.Errorf("client: failed to parse send response: %w", err)
	}
	return &message, nil
}
