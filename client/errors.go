// Copyright 2026 The CollabSpace Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"errors"
	"fmt"
)

// Kind classifies an API failure. Callers dispatch on it to decide
// whether to show a validation hint, a retry affordance, or a
// re-authentication prompt.
type Kind string

const (
	// KindValidation is a local pre-network failure. The request was
	// never sent and no state was mutated.
	KindValidation Kind = "validation"
	// KindAuth is an authorization failure (401-class) that survived
	// the refresh protocol, or a credential problem detected locally.
	KindAuth Kind = "auth"
	// KindNetwork means no response was received: connection refused,
	// DNS failure, timeout.
	KindNetwork Kind = "network"
	// KindServer is a non-2xx, non-401 response from the server.
	KindServer Kind = "server"
)

// ErrSessionExpired marks auth failures that survived the refresh
// attempt. The session store has already been cleared when a caller
// sees this; the only recovery is re-authentication.
//
//	if errors.Is(err, client.ErrSessionExpired) { promptLogin() }
var ErrSessionExpired = errors.New("session expired, please re-authenticate")

// Error is a structured API failure. Callers can use errors.As to
// extract it:
//
//	var apiErr *client.Error
//	if errors.As(err, &apiErr) && apiErr.Kind == client.KindServer { ... }
type Error struct {
	// Kind is the taxonomy class of the failure.
	Kind Kind
	// StatusCode is the HTTP status of the response, or 0 when no
	// response was received.
	StatusCode int
	// Message is the human-readable description, taken from the
	// server's error body when one was available.
	Message string

	err error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("collabspace: %s (%d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("collabspace: %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.err }

// IsKind checks whether err is (or wraps) a *Error with the given kind.
func IsKind(err error, kind Kind) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind == kind
	}
	return false
}

// validationError builds a local validation failure. The request is
// never sent for these.
func validationError(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}
