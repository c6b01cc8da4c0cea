// Copyright 2026 The CollabSpace Authors
// SPDX-License-Identifier: Apache-2.0

package client

// User is an authenticated account identity.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar,omitempty"`
}

// Room is a named group conversation with a member list. Members are
// identified by email. CreatedBy drives the owner capability in the
// consuming layer: the creator is always a member and can never be
// removed.
type Room struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Members     []string `json:"members"`
	CreatedAt   string   `json:"createdAt"`
	CreatedBy   string   `json:"createdBy,omitempty"`
}

// Message is a single chat message. A message belongs to exactly one
// room. IsOwn is never on the wire — the message log derives it by
// comparing Sender against the current user.
type Message struct {
	ID        string `json:"id"`
	RoomID    string `json:"roomId"`
	Sender    string `json:"sender"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
	IsTask    bool   `json:"isTask,omitempty"`

	// IsOwn reports whether the current user sent this message.
	// Derived locally on fetch and send.
	IsOwn bool `json:"-"`
}

// AuthResponse is the body of a successful login, register, or refresh
// call: the account identity plus a fresh token pair.
type AuthResponse struct {
	User    User   `json:"user"`
	Message string `json:"message"`
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// CreateRoomRequest is the body of the create-room call. Emails lists
// accounts to invite at creation time; it may be empty.
type CreateRoomRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Emails      []string `json:"emails"`
}

// UpdateRoomRequest carries a partial room edit. Empty fields are
// omitted and left unchanged by the server.
type UpdateRoomRequest struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type sendMessageRequest struct {
	Message string `json:"message"`
	IsTask  bool   `json:"isTask,omitempty"`
}

type inviteRequest struct {
	Emails []string `json:"emails"`
}

type removeMemberRequest struct {
	Email string `json:"email"`
}
