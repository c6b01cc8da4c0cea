// Copyright 2026 The CollabSpace Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Login authenticates with email and password. On success the caller
// owns populating the session store with the returned user and token
// pair — the client itself never writes the current user.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	if strings.TrimSpace(email) == "" {
		return nil, validationError("email is required for login")
	}
	if password == "" {
		return nil, validationError("password is required for login")
	}

	body, err := c.doRequest(ctx, http.MethodPost, "/login/", false, loginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, fmt.Errorf("client: login failed: %w", err)
	}

	var response AuthResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("client: failed to parse login response: %w", err)
	}

	c.logger.Info("logged in", "user_id", response.User.ID, "email", response.User.Email)
	return &response, nil
}

// Register creates a new account and returns the same shape as Login:
// the new identity plus a token pair, so registration doubles as the
// first sign-in.
func (c *Client) Register(ctx context.Context, name, email, password string) (*AuthResponse, error) {
	if strings.TrimSpace(name) == "" {
		return nil, validationError("name is required for registration")
	}
	if strings.TrimSpace(email) == "" {
		return nil, validationError("email is required for registration")
	}
	if password == "" {
		return nil, validationError("password is required for registration")
	}

	body, err := c.doRequest(ctx, http.MethodPost, "/register/", false, registerRequest{
		Name:     name,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, fmt.Errorf("client: registration failed: %w", err)
	}

	var response AuthResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("client: failed to parse register response: %w", err)
	}

	c.logger.Info("registered account", "user_id", response.User.ID, "email", response.User.Email)
	return &response, nil
}

// Logout invalidates the server-side session. Local session teardown is
// the caller's job — the store is cleared at the logout call site
// whether or not the server call succeeded.
func (c *Client) Logout(ctx context.Context) error {
	if _, err := c.doRequest(ctx, http.MethodPost, "/logout/", true, struct{}{}); err != nil {
		return fmt.Errorf("client: logout failed: %w", err)
	}
	return nil
}

// Refresh exchanges the current refresh token for a new token pair and
// persists it through the credential store. This is the only credential
// write on the success path. Refresh requests are sent directly through
// doRequest: an authorization failure here is terminal for the caller's
// request, never the start of another refresh.
func (c *Client) Refresh(ctx context.Context) error {
	refreshToken := c.credentials.RefreshToken()
	if refreshToken == "" {
		return &Error{Kind: KindAuth, Message: "no refresh token available"}
	}

	body, err := c.doRequest(ctx, http.MethodPost, "/refresh/", false, refreshRequest{
		Refresh: refreshToken,
	})
	if err != nil {
		return fmt.Errorf("client: token refresh failed: %w", err)
	}

	var response AuthResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return fmt.Errorf("client: failed to parse refresh response: %w", err)
	}
	if response.Access == "" {
		return fmt.Errorf("client: refresh response missing access token")
	}

	// Some backends rotate the refresh token, some return only a new
	// access token. Keep the old refresh token when none is returned.
	if response.Refresh == "" {
		response.Refresh = refreshToken
	}
	if err := c.credentials.SetTokens(response.Access, response.Refresh); err != nil {
		return fmt.Errorf("client: persisting refreshed tokens: %w", err)
	}

	c.logger.Debug("refreshed access token")
	return nil
}
