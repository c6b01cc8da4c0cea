// Copyright 2026 The CollabSpace Authors
// SPDX-License-Identifier: Apache-2.0

// Package client wraps the CollabSpace REST API.
//
// [Client] is the single shared HTTP sender used by every store that
// talks to the backend. It attaches the current bearer credential to
// each outgoing request (callers never attach it themselves), converts
// failures into the [*Error] taxonomy (validation, auth, network,
// server), and runs the refresh protocol: an authorization failure on
// any request other than the refresh call triggers exactly one refresh
// attempt followed by one retry of the original request. A failed
// refresh clears the credential store and surfaces [ErrSessionExpired]
// to the caller; the refresh call itself never triggers another
// refresh, so a persistently invalid credential cannot loop.
//
// Credentials live behind the [Credentials] interface, implemented by
// the session package's Store. The client reads tokens through it and
// writes only on successful refresh or refresh failure — login and
// logout mutate the store at the call site that owns those flows.
//
// Request URLs are built by string concatenation on a
// trailing-slash-stripped base URL rather than url.URL to avoid
// double-encoding of escaped path segments.
package client
