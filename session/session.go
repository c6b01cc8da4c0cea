// Copyright 2026 The CollabSpace Authors
// SPDX-License-Identifier: Apache-2.0

// Package session holds the authenticated user identity and its bearer
// token pair, persisted to a single JSON file so a restart can restore
// the session without re-authenticating.
//
// The store is the one piece of shared mutable state in the client:
// read by the transport (to attach credentials) and written only by
// the login, logout, and refresh paths. At most one user is current at
// a time. Restore degrades silently — a missing, unreadable, or
// malformed session file means "no session", never an error.
package session

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/collabspace/collabspace/client"
)

// refreshSkew is how long before access-token expiry the store starts
// reporting NeedsRefresh, so the transport can refresh proactively
// instead of paying a 401 round trip.
const refreshSkew = 30 * time.Second

// state is the durable session file format.
type state struct {
	User         client.User `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
}

// Store holds the current session. Safe for concurrent use.
type Store struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger

	// state is nil when no session is current.
	state *state

	// accessExpiry is extracted (unverified) from the access token's
	// exp claim. Zero when the token carries no readable expiry; the
	// reactive 401 path covers that case.
	accessExpiry time.Time
}

// Compile-time check: the store is the client's credential source.
var _ client.Credentials = (*Store)(nil)

// New creates a Store backed by the given file path. The file is not
// read until Restore is called.
func New(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{path: path, logger: logger}
}

// Restore attempts to load the durable session file. Returns true when
// a well-formed session was restored, false otherwise. Never returns an
// error: malformed or unreadable state degrades to "absent".
func (s *Store) Restore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Debug("session file unreadable, starting without session", "path", s.path, "error", err)
		}
		return false
	}

	var restored state
	if err := json.Unmarshal(data, &restored); err != nil {
		s.logger.Debug("session file malformed, starting without session", "path", s.path, "error", err)
		return false
	}
	if restored.User.ID == "" {
		s.logger.Debug("session file missing user, starting without session", "path", s.path)
		return false
	}

	s.state = &restored
	s.accessExpiry = tokenExpiry(restored.AccessToken)
	s.logger.Info("restored session", "user_id", restored.User.ID, "email", restored.User.Email)
	return true
}

// Current returns the current user, if any.
func (s *Store) Current() (client.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return client.User{}, false
	}
	return s.state.User, true
}

// SetSession replaces the whole session — user and token pair — and
// persists it. This is the login/register path.
func (s *Store) SetSession(user client.User, access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = &state{User: user, AccessToken: access, RefreshToken: refresh}
	s.accessExpiry = tokenExpiry(access)
	return s.persistLocked()
}

// SetUser replaces the current user, keeping the existing token pair.
func (s *Store) SetUser(user client.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == nil {
		s.state = &state{}
	}
	s.state.User = user
	return s.persistLocked()
}

// SetTokens replaces the token pair and persists it. Called by the
// transport after a successful refresh.
func (s *Store) SetTokens(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == nil {
		// A refresh without a session should not happen; keep the
		// tokens anyway so the follow-up request can succeed.
		s.state = &state{}
	}
	s.state.AccessToken = access
	s.state.RefreshToken = refresh
	s.accessExpiry = tokenExpiry(access)
	return s.persistLocked()
}

// Clear erases the session and its durable copy. Called on logout and
// on irrecoverable authentication failure.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = nil
	s.accessExpiry = time.Time{}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("failed to remove session file", "path", s.path, "error", err)
	}
}

// AccessToken returns the current access token, or "".
func (s *Store) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return ""
	}
	return s.state.AccessToken
}

// RefreshToken returns the current refresh token, or "".
func (s *Store) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return ""
	}
	return s.state.RefreshToken
}

// NeedsRefresh reports whether the access token expires within
// refreshSkew of now. Tokens without a readable exp claim never report
// true — the transport's reactive 401 handling covers them.
func (s *Store) NeedsRefresh(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil || s.state.RefreshToken == "" || s.accessExpiry.IsZero() {
		return false
	}
	return !now.Before(s.accessExpiry.Add(-refreshSkew))
}

// persistLocked writes the session file with owner-only permissions.
func (s *Store) persistLocked() error {
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("session: encoding session state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("session: creating state directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("session: writing session file: %w", err)
	}
	return nil
}

// tokenExpiry extracts the exp claim from a JWT without verifying the
// signature — the client holds no signing key and only needs a refresh
// hint. Returns the zero time for opaque or malformed tokens.
func tokenExpiry(token string) time.Time {
	if token == "" {
		return time.Time{}
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	expiry, err := claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return time.Time{}
	}
	return expiry.Time
}
