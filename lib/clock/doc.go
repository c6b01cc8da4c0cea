// Copyright 2026 The CollabSpace Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock abstracts time for testability. Production code injects
// Real(); tests inject Fake() and advance time deterministically.
//
// The task board's deadline sweep is the main consumer: it compares due
// dates against Clock.Now and schedules periodic sweeps with
// Clock.NewTicker, so tests can drive a task into the overdue state
// without sleeping.
package clock
