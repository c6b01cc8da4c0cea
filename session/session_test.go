// Copyright 2026 The CollabSpace Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/collabspace/collabspace/client"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "session.json"), nil)
}

// signedToken builds a real HS256 JWT with the given expiry. The store
// never verifies signatures, but the token must parse.
func signedToken(t *testing.T, expiry time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": expiry.Unix(),
		"sub": "u1",
	})
	signed, err := token.SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("signing test token: %v", err)
	}
	return signed
}

func TestRestore(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		store := testStore(t)
		if store.Restore() {
			t.Error("Restore reported success with no file")
		}
		if _, ok := store.Current(); ok {
			t.Error("Current reported a user with no session")
		}
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.json")
		if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
			t.Fatal(err)
		}
		store := New(path, nil)
		if store.Restore() {
			t.Error("Restore reported success on malformed state")
		}
	})

	t.Run("missing user", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.json")
		if err := os.WriteFile(path, []byte(`{"accessToken":"a","refreshToken":"r"}`), 0o600); err != nil {
			t.Fatal(err)
		}
		store := New(path, nil)
		if store.Restore() {
			t.Error("Restore reported success without a user")
		}
	})

	t.Run("round trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.json")
		user := client.User{ID: "u1", Name: "Ada", Email: "ada@example.com"}

		first := New(path, nil)
		if err := first.SetSession(user, "access-1", "refresh-1"); err != nil {
			t.Fatalf("SetSession failed: %v", err)
		}

		second := New(path, nil)
		if !second.Restore() {
			t.Fatal("Restore failed after SetSession")
		}
		restored, ok := second.Current()
		if !ok || restored != user {
			t.Errorf("unexpected restored user: %+v", restored)
		}
		if second.AccessToken() != "access-1" || second.RefreshToken() != "refresh-1" {
			t.Errorf("tokens not restored: access=%q refresh=%q",
				second.AccessToken(), second.RefreshToken())
		}
	})
}

func TestClear(t *testing.T) {
	store := testStore(t)
	if err := store.SetSession(client.User{ID: "u1"}, "a", "r"); err != nil {
		t.Fatalf("SetSession failed: %v", err)
	}

	store.Clear()
	if _, ok := store.Current(); ok {
		t.Error("Current reported a user after Clear")
	}
	if store.AccessToken() != "" || store.RefreshToken() != "" {
		t.Error("tokens survived Clear")
	}
	if store.Restore() {
		t.Error("session file survived Clear")
	}

	// Clearing an already-clear store is a no-op, not a failure.
	store.Clear()
}

func TestSetTokens(t *testing.T) {
	store := testStore(t)
	if err := store.SetSession(client.User{ID: "u1"}, "access-1", "refresh-1"); err != nil {
		t.Fatalf("SetSession failed: %v", err)
	}
	if err := store.SetTokens("access-2", "refresh-2"); err != nil {
		t.Fatalf("SetTokens failed: %v", err)
	}

	if store.AccessToken() != "access-2" || store.RefreshToken() != "refresh-2" {
		t.Errorf("tokens not replaced: access=%q refresh=%q",
			store.AccessToken(), store.RefreshToken())
	}
	if user, ok := store.Current(); !ok || user.ID != "u1" {
		t.Errorf("user lost across SetTokens: %+v", user)
	}
}

func TestNeedsRefresh(t *testing.T) {
	now := time.Now().Truncate(time.Second)

	t.Run("fresh token", func(t *testing.T) {
		store := testStore(t)
		store.SetSession(client.User{ID: "u1"}, signedToken(t, now.Add(time.Hour)), "refresh-1")
		if store.NeedsRefresh(now) {
			t.Error("fresh token reported NeedsRefresh")
		}
	})

	t.Run("expired token", func(t *testing.T) {
		store := testStore(t)
		store.SetSession(client.User{ID: "u1"}, signedToken(t, now.Add(-time.Minute)), "refresh-1")
		if !store.NeedsRefresh(now) {
			t.Error("expired token did not report NeedsRefresh")
		}
	})

	t.Run("token inside the skew window", func(t *testing.T) {
		store := testStore(t)
		store.SetSession(client.User{ID: "u1"}, signedToken(t, now.Add(10*time.Second)), "refresh-1")
		if !store.NeedsRefresh(now) {
			t.Error("token expiring within the skew did not report NeedsRefresh")
		}
	})

	t.Run("opaque token never refreshes proactively", func(t *testing.T) {
		store := testStore(t)
		store.SetSession(client.User{ID: "u1"}, "not-a-jwt", "refresh-1")
		if store.NeedsRefresh(now) {
			t.Error("opaque token reported NeedsRefresh")
		}
	})

	t.Run("no refresh token", func(t *testing.T) {
		store := testStore(t)
		store.SetSession(client.User{ID: "u1"}, signedToken(t, now.Add(-time.Minute)), "")
		if store.NeedsRefresh(now) {
			t.Error("NeedsRefresh reported true with no refresh token to use")
		}
	})

	t.Run("no session", func(t *testing.T) {
		if testStore(t).NeedsRefresh(now) {
			t.Error("empty store reported NeedsRefresh")
		}
	})
}

func TestRestoreRecoversExpiry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	now := time.Now()

	first := New(path, nil)
	if err := first.SetSession(client.User{ID: "u1"}, signedToken(t, now.Add(-time.Minute)), "refresh-1"); err != nil {
		t.Fatalf("SetSession failed: %v", err)
	}

	second := New(path, nil)
	if !second.Restore() {
		t.Fatal("Restore failed")
	}
	if !second.NeedsRefresh(now) {
		t.Error("expiry was not re-extracted on Restore")
	}
}
