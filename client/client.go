// Copyright 2026 The CollabSpace Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/collabspace/collabspace/lib/netutil"
)

// DefaultTimeout bounds every request when the caller does not supply
// an *http.Client of their own.
const DefaultTimeout = 10 * time.Second

// Credentials is the mutable credential state the client reads and
// maintains. *session.Store implements it.
//
// The client reads tokens on every request and writes in exactly two
// places: SetTokens after a successful refresh, and Clear after a
// failed one. All other writes (login, logout) happen at the call
// sites that own those flows.
type Credentials interface {
	// AccessToken returns the current access token, or "" when the
	// session is absent.
	AccessToken() string

	// RefreshToken returns the current refresh token, or "".
	RefreshToken() string

	// SetTokens replaces the token pair and persists it.
	SetTokens(access, refresh string) error

	// NeedsRefresh reports whether the access token is expired or
	// about to expire at the given instant.
	NeedsRefresh(now time.Time) bool

	// Clear erases the session: current user, token pair, and the
	// durable copy.
	Clear()
}

// Config holds configuration for creating a Client.
type Config struct {
	// ServerURL is the base URL of the CollabSpace API server
	// (e.g., "http://127.0.0.1:8000/api").
	ServerURL string
	// Credentials supplies and receives the bearer token pair.
	Credentials Credentials
	// HTTPClient is used for all requests. If nil, a client with
	// DefaultTimeout is used.
	HTTPClient *http.Client
	// Logger is used for structured logging. If nil, slog.Default()
	// is used.
	Logger *slog.Logger
}

// Client is the shared HTTP sender for the CollabSpace API.
type Client struct {
	baseURL     string
	credentials Credentials
	httpClient  *http.Client
	logger      *slog.Logger
}

// New creates a Client.
func New(config Config) (*Client, error) {
	if config.ServerURL == "" {
		return nil, fmt.Errorf("client: ServerURL is required")
	}
	if _, err := url.Parse(config.ServerURL); err != nil {
		return nil, fmt.Errorf("client: invalid ServerURL %q: %w", config.ServerURL, err)
	}
	if config.Credentials == nil {
		return nil, fmt.Errorf("client: Credentials is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:     strings.TrimRight(config.ServerURL, "/"),
		credentials: config.Credentials,
		httpClient:  httpClient,
		logger:      logger,
	}, nil
}

// CloseIdleConnections closes idle HTTP connections in the underlying
// transport's connection pool. Call after a network disruption to force
// subsequent requests onto fresh TCP connections.
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}

// authedRequest performs an authenticated request, running the refresh
// protocol on an authorization failure: one refresh attempt, then one
// retry of the original request. A failed refresh clears the credential
// store and surfaces ErrSessionExpired. The guard against recursion is
// structural — Refresh sends through doRequest, never back through
// authedRequest.
func (c *Client) authedRequest(ctx context.Context, method, path string, requestBody any, query ...url.Values) ([]byte, error) {
	// Proactive refresh when the access token is known to be stale.
	// Best effort: if it fails, the request below gets the reactive
	// 401 path as the correctness backstop.
	if c.credentials.NeedsRefresh(time.Now()) {
		if err := c.Refresh(ctx); err != nil {
			c.logger.Debug("proactive token refresh failed", "error", err)
		}
	}

	body, err := c.doRequest(ctx, method, path, true, requestBody, query...)
	if !IsKind(err, KindAuth) {
		return body, err
	}

	if refreshErr := c.Refresh(ctx); refreshErr != nil {
		c.credentials.Clear()
		c.logger.Warn("credential refresh failed, session cleared", "error", refreshErr)
		return nil, &Error{
			Kind:       KindAuth,
			StatusCode: http.StatusUnauthorized,
			Message:    "session expired, please re-authenticate",
			err:        ErrSessionExpired,
		}
	}
	return c.doRequest(ctx, method, path, true, requestBody, query...)
}

// doRequest performs a single HTTP request and returns the response
// body. On 2xx, returns the body. On any failure, returns a *Error with
// the taxonomy kind. authenticated controls whether the current access
// token is attached.
func (c *Client) doRequest(ctx context.Context, method, path string, authenticated bool, requestBody any, query ...url.Values) ([]byte, error) {
	requestURL := c.baseURL + path
	if len(query) > 0 && query[0] != nil {
		requestURL += "?" + query[0].Encode()
	}

	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("client: failed to encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("client: failed to create request: %w", err)
	}

	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if authenticated {
		if token := c.credentials.AccessToken(); token != "" {
			request.Header.Set("Authorization", "Bearer "+token)
		}
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, &Error{
			Kind:    KindNetwork,
			Message: fmt.Sprintf("request to %s %s failed: %v", method, path, err),
			err:     err,
		}
	}
	defer response.Body.Close()

	responseBody, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return nil, &Error{
			Kind:    KindNetwork,
			Message: fmt.Sprintf("reading response from %s %s: %v", method, path, err),
			err:     err,
		}
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return responseBody, nil
	}

	kind := KindServer
	if response.StatusCode == http.StatusUnauthorized {
		kind = KindAuth
	}
	return responseBody, &Error{
		Kind:       kind,
		StatusCode: response.StatusCode,
		Message:    serverMessage(response.StatusCode, responseBody),
	}
}

// serverMessage extracts the human-readable error text from an API
// error body. The backend uses {"detail": ...} for framework errors and
// {"message": ...} for application ones; anything else degrades to the
// raw body or the status text.
func serverMessage(statusCode int, body []byte) string {
	var payload struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Detail != "" {
			return payload.Detail
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return http.StatusText(statusCode)
}
