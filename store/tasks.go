// Copyright 2026 The CollabSpace Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/collabspace/collabspace/client"
	"github.com/collabspace/collabspace/lib/clock"
)

// Status is a task's lifecycle state. Transitions between states are
// unconstrained: any state is reachable from any other. DeadlineOver is
// additionally reachable via the explicit SweepOverdue operation.
type Status string

const (
	StatusPending      Status = "pending"
	StatusInProgress   Status = "in-progress"
	StatusCompleted    Status = "completed"
	StatusDeadlineOver Status = "deadline-over"
)

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusDeadlineOver:
		return true
	}
	return false
}

// Priority is a task's urgency level.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the three known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// dueDateLayout is the calendar-date format of Task.DueDate.
const dueDateLayout = "2006-01-02"

// Task is a trackable work item, optionally derived from a chat
// message. RoomID is a lookup key into the room directory, never an
// owning reference.
type Task struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Assignee      string   `json:"assignee"`
	DueDate       string   `json:"dueDate"`
	Status        Status   `json:"status"`
	Priority      Priority `json:"priority"`
	Shared        bool     `json:"isShared"`
	RoomID        string   `json:"chatId"`
	CreatedBy     string   `json:"createdBy,omitempty"`
	OriginMessage string   `json:"originMessage,omitempty"`
}

// Board is the local task list. It has no transport dependency: tasks
// live only in memory (and whatever snapshot the consuming layer
// persists), matching the product's current local-only task behavior.
type Board struct {
	mu     sync.Mutex
	clock  clock.Clock
	logger *slog.Logger
	tasks  []Task
}

// BoardConfig holds configuration for creating a Board.
type BoardConfig struct {
	// Clock drives due-date comparisons. If nil, clock.Real() is used.
	Clock clock.Clock
	// Logger is used for structured logging. If nil, slog.Default().
	Logger *slog.Logger
}

// NewBoard creates an empty board.
func NewBoard(config BoardConfig) *Board {
	c := config.Clock
	if c == nil {
		c = clock.Real()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Board{clock: c, logger: logger}
}

// Create validates the draft, forces status to pending regardless of
// input, assigns a generated identifier, and appends the task. Title,
// description, assignee, due date, and priority are all required.
func (b *Board) Create(draft Task) (Task, error) {
	switch {
	case strings.TrimSpace(draft.Title) == "":
		return Task{}, &client.Error{Kind: client.KindValidation, Message: "task title is required"}
	case strings.TrimSpace(draft.Description) == "":
		return Task{}, &client.Error{Kind: client.KindValidation, Message: "task description is required"}
	case strings.TrimSpace(draft.Assignee) == "":
		return Task{}, &client.Error{Kind: client.KindValidation, Message: "task assignee is required"}
	case strings.TrimSpace(draft.DueDate) == "":
		return Task{}, &client.Error{Kind: client.KindValidation, Message: "task due date is required"}
	case !draft.Priority.Valid():
		return Task{}, &client.Error{Kind: client.KindValidation, Message: "task priority must be low, medium, or high"}
	}

	task := draft
	task.ID = uuid.NewString()
	task.Status = StatusPending

	b.mu.Lock()
	defer b.mu.Unlock()
	b.tasks = append(b.tasks, task)
	return task, nil
}

// UpdateStatus replaces the status of the matching task in place. Any
// transition is permitted. An unknown task ID is a no-op, not an
// error; an unknown status value fails validation.
func (b *Board) UpdateStatus(taskID string, status Status) error {
	if !status.Valid() {
		return &client.Error{Kind: client.KindValidation, Message: "unknown task status " + string(status)}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for index := range b.tasks {
		if b.tasks[index].ID == taskID {
			b.tasks[index].Status = status
			return nil
		}
	}
	b.logger.Debug("status update for unknown task ignored", "task_id", taskID)
	return nil
}

// Task returns a task by ID.
func (b *Board) Task(taskID string) (Task, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, task := range b.tasks {
		if task.ID == taskID {
			return task, true
		}
	}
	return Task{}, false
}

// Tasks returns a snapshot of the full list in insertion order.
func (b *Board) Tasks() []Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Task(nil), b.tasks...)
}

// ForRoom returns the tasks cross-referenced to a room. A pure filter
// over the full list, not a separate store.
func (b *Board) ForRoom(roomID string) []Task {
	return b.filter(func(task Task) bool { return task.RoomID == roomID })
}

// ForAssignee returns the tasks assigned to the given assignee.
func (b *Board) ForAssignee(assignee string) []Task {
	return b.filter(func(task Task) bool { return task.Assignee == assignee })
}

// Replace swaps the whole list, preserving the given order. Used by
// consuming layers that persist and reload board snapshots.
func (b *Board) Replace(tasks []Task) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tasks = append([]Task(nil), tasks...)
}

// SweepOverdue transitions pending and in-progress tasks whose due
// date has passed to deadline-over, returning how many changed. Tasks
// with unparsable due dates are left alone. This is the only automatic
// path into deadline-over, and it runs only when explicitly invoked or
// scheduled via Watch.
func (b *Board) SweepOverdue() int {
	now := b.clock.Now()

	b.mu.Lock()
	defer b.mu.Unlock()
	changed := 0
	for index := range b.tasks {
		task := &b.tasks[index]
		if task.Status != StatusPending && task.Status != StatusInProgress {
			continue
		}
		due, err := time.Parse(dueDateLayout, task.DueDate)
		if err != nil {
			continue
		}
		// Due "today" is not overdue; the deadline passes at the end
		// of the due date.
		if now.Before(due.AddDate(0, 0, 1)) {
			continue
		}
		task.Status = StatusDeadlineOver
		changed++
	}
	return changed
}

// Watch runs SweepOverdue every interval until ctx is cancelled.
func (b *Board) Watch(ctx context.Context, interval time.Duration) {
	ticker := b.clock.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if changed := b.SweepOverdue(); changed > 0 {
				b.logger.Info("tasks past due", "count", changed)
			}
		}
	}
}

func (b *Board) filter(keep func(Task) bool) []Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	var matched []Task
	for _, task := range b.tasks {
		if keep(task) {
			matched = append(matched, task)
		}
	}
	return matched
}
