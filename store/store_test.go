// Copyright 2026 The CollabSpace Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/collabspace/collabspace/client"
)

// staticCredentials is a fixed token pair for store tests. The refresh
// protocol is exercised in the client package; stores only need valid
// credentials to pass through.
type staticCredentials struct{}

func (staticCredentials) AccessToken() string         { return "test-access" }
func (staticCredentials) RefreshToken() string        { return "test-refresh" }
func (staticCredentials) SetTokens(_, _ string) error { return nil }
func (staticCredentials) NeedsRefresh(time.Time) bool { return false }
func (staticCredentials) Clear()                      {}

// newTestClient builds a client against an httptest server running the
// given handler. The server is torn down with the test.
func newTestClient(t *testing.T, handler http.HandlerFunc) *client.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	api, err := client.New(client.Config{ServerURL: server.URL, Credentials: staticCredentials{}})
	if err != nil {
		t.Fatalf("client.New failed: %v", err)
	}
	return api
}

// staticIdentity is a fixed current user for message log tests.
type staticIdentity struct {
	user    client.User
	present bool
}

func (i staticIdentity) Current() (client.User, bool) { return i.user, i.present }
