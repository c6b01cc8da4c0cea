// Copyright 2026 The CollabSpace Authors
// SPDX-License-Identifier: Apache-2.0

// Package store holds the client-side entity state: the room directory,
// the per-room message log, and the local task board.
//
// Each store owns its collection exclusively and exposes command
// operations plus a read-only snapshot; the rendering layer calls
// commands and re-reads snapshots. Cross-references between stores are
// by identifier only — a task's room field is a lookup key, never a
// pointer into the directory.
//
// Room and message state is server-confirmed: local lists mutate only
// after the transport acknowledges. The task board is local-only. All
// stores are mutex-guarded and safe for concurrent use, and network
// calls run outside the lock so fetches may overlap; stale responses
// from overlapping fetches are discarded by sequence number rather than
// applied last-arrival-wins.
package store
