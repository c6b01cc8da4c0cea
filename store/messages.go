// Copyright 2026 The CollabSpace Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/collabspace/collabspace/client"
)

// identity supplies the current user for the own/foreign message flag.
// *session.Store implements it.
type identity interface {
	Current() (client.User, bool)
}

// MessageLog holds the per-room ordered message lists, keyed by room
// identifier. Messages are ordered oldest first and belong to exactly
// one room. The log's lifecycle is independent of the room directory:
// messages may be cached for a room whose directory entry is stale.
type MessageLog struct {
	mu      sync.Mutex
	api     *client.Client
	whoami  identity
	logger  *slog.Logger
	byRoom  map[string][]client.Message
	fetches map[string]*fetchState
}

// fetchState is the per-room stale-response guard, mirroring the room
// directory's sequence scheme.
type fetchState struct {
	issued  uint64
	applied uint64
}

// NewMessageLog creates an empty log.
func NewMessageLog(api *client.Client, whoami identity, logger *slog.Logger) *MessageLog {
	if logger == nil {
		logger = slog.Default()
	}
	return &MessageLog{
		api:     api,
		whoami:  whoami,
		logger:  logger,
		byRoom:  make(map[string][]client.Message),
		fetches: make(map[string]*fetchState),
	}
}

// Messages returns a snapshot of the stored list for a room, oldest
// first. An unfetched room yields an empty list.
func (l *MessageLog) Messages(roomID string) []client.Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.byRoom[roomID])
}

// FetchForRoom replaces the stored message list for a room with the
// server's copy. On failure the stored list is untouched. Overlapping
// fetches for the same room are resolved by sequence number: a
// response that arrives after a newer fetch has applied is discarded.
func (l *MessageLog) FetchForRoom(ctx context.Context, roomID string) error {
	l.mu.Lock()
	seqState, ok := l.fetches[roomID]
	if !ok {
		seqState = &fetchState{}
		l.fetches[roomID] = seqState
	}
	seqState.issued++
	seq := seqState.issued
	l.mu.Unlock()

	messages, err := l.api.RoomMessages(ctx, roomID)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if seq <= seqState.applied {
		l.logger.Debug("discarding stale message list response", "room_id", roomID, "seq", seq)
		return nil
	}
	seqState.applied = seq
	l.byRoom[roomID] = l.markOwn(messages)
	return nil
}

// Send validates locally, posts the message, and appends the
// server-confirmed copy to the room's list. Empty or whitespace-only
// content fails validation with no network call. There is no
// optimistic echo: the list gains the message only after the server
// confirms, and a confirmed copy that is somehow already present (by
// identifier) is not appended twice.
func (l *MessageLog) Send(ctx context.Context, roomID, content string) (client.Message, error) {
	if strings.TrimSpace(content) == "" {
		return client.Message{}, &client.Error{Kind: client.KindValidation, Message: "message content is required"}
	}

	sent, err := l.api.SendMessage(ctx, roomID, content)
	if err != nil {
		return client.Message{}, err
	}

	message := *sent
	message.IsOwn = true

	l.mu.Lock()
	defer l.mu.Unlock()
	existing := l.byRoom[roomID]
	if !slices.ContainsFunc(existing, func(m client.Message) bool { return m.ID == message.ID }) {
		l.byRoom[roomID] = append(existing, message)
	}
	return message, nil
}

// markOwn sets the own/foreign flag on each message by comparing its
// sender against the current user.
func (l *MessageLog) markOwn(messages []client.Message) []client.Message {
	current, ok := l.whoami.Current()
	if !ok {
		return messages
	}
	for index := range messages {
		messages[index].IsOwn = messages[index].Sender == current.ID
	}
	return messages
}
