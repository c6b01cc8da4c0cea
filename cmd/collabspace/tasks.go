// Copyright 2026 The CollabSpace Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	flag "github.com/spf13/pflag"

	"github.com/collabspace/collabspace/store"
)

// The task board is local-only: there is no backend persistence for
// tasks. The CLI keeps the board alive across invocations by saving a
// snapshot next to the session file.

func runTask(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: collabspace task <add|list|status|sweep> [flags]")
	}
	switch args[0] {
	case "add":
		return addTask(args[1:])
	case "list":
		return listTasks(args[1:])
	case "status":
		return setTaskStatus(args[1:])
	case "sweep":
		return sweepTasks(args[1:])
	default:
		return fmt.Errorf("unknown task subcommand: %q", args[0])
	}
}

func taskBoard(configPath string) (*env, *store.Board, string, error) {
	e, err := loadEnv(configPath)
	if err != nil {
		return nil, nil, "", err
	}

	board := store.NewBoard(store.BoardConfig{Logger: e.logger})
	boardPath := filepath.Join(e.cfg.StateDir, "tasks.json")

	data, err := os.ReadFile(boardPath)
	if err == nil {
		var tasks []store.Task
		if err := json.Unmarshal(data, &tasks); err != nil {
			e.logger.Warn("task snapshot malformed, starting empty", "path", boardPath, "error", err)
		} else {
			board.Replace(tasks)
		}
	} else if !os.IsNotExist(err) {
		return nil, nil, "", fmt.Errorf("reading task snapshot: %w", err)
	}

	return e, board, boardPath, nil
}

func saveBoard(board *store.Board, boardPath string) error {
	data, err := json.MarshalIndent(board.Tasks(), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding task snapshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(boardPath), 0o700); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	if err := os.WriteFile(boardPath, data, 0o600); err != nil {
		return fmt.Errorf("writing task snapshot: %w", err)
	}
	return nil
}

func addTask(args []string) error {
	flags := flag.NewFlagSet("task add", flag.ExitOnError)
	configPath := flags.String("config", "", "path to collabspace.yaml config file")
	room := flags.String("room", "", "room the task belongs to (required)")
	title := flags.String("title", "", "task title (required)")
	description := flags.String("description", "", "task description (required)")
	assignee := flags.String("assignee", "", "assignee (defaults to the current user's email)")
	due := flags.String("due", "", "due date, YYYY-MM-DD (required)")
	priority := flags.String("priority", "medium", "priority: low, medium, or high")
	shared := flags.Bool("shared", false, "mark the task visible to the whole room")
	fromMessage := flags.String("from-message", "", "content of the chat message this task was created from")
	if err := flags.Parse(args); err != nil {
		return err
	}

	e, board, boardPath, err := taskBoard(*configPath)
	if err != nil {
		return err
	}
	user, err := e.requireUser()
	if err != nil {
		return err
	}

	who := *assignee
	if who == "" {
		who = user.Email
	}

	task, err := board.Create(store.Task{
		Title:         *title,
		Description:   *description,
		Assignee:      who,
		DueDate:       *due,
		Priority:      store.Priority(*priority),
		Shared:        *shared,
		RoomID:        *room,
		CreatedBy:     user.Email,
		OriginMessage: *fromMessage,
	})
	if err != nil {
		return err
	}
	if err := saveBoard(board, boardPath); err != nil {
		return err
	}

	fmt.Printf("created task %s (%s)\n", task.Title, task.ID)
	return nil
}

func listTasks(args []string) error {
	flags := flag.NewFlagSet("task list", flag.ExitOnError)
	configPath := flags.String("config", "", "path to collabspace.yaml config file")
	room := flags.String("room", "", "only tasks for this room")
	mine := flags.Bool("mine", false, "only tasks assigned to the current user")
	if err := flags.Parse(args); err != nil {
		return err
	}

	e, board, _, err := taskBoard(*configPath)
	if err != nil {
		return err
	}

	tasks := board.Tasks()
	if *room != "" {
		tasks = board.ForRoom(*room)
	}
	if *mine {
		user, err := e.requireUser()
		if err != nil {
			return err
		}
		var kept []store.Task
		for _, task := range tasks {
			if task.Assignee == user.Email {
				kept = append(kept, task)
			}
		}
		tasks = kept
	}

	for _, task := range tasks {
		fmt.Printf("%s  [%s/%s]  %s — due %s, assigned to %s\n",
			task.ID, task.Status, task.Priority, task.Title, task.DueDate, task.Assignee)
	}
	return nil
}

func setTaskStatus(args []string) error {
	flags := flag.NewFlagSet("task status", flag.ExitOnError)
	configPath := flags.String("config", "", "path to collabspace.yaml config file")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 2 {
		return fmt.Errorf("usage: collabspace task status <task-id> <pending|in-progress|completed|deadline-over>")
	}

	_, board, boardPath, err := taskBoard(*configPath)
	if err != nil {
		return err
	}

	if err := board.UpdateStatus(flags.Arg(0), store.Status(flags.Arg(1))); err != nil {
		return err
	}
	return saveBoard(board, boardPath)
}

func sweepTasks(args []string) error {
	flags := flag.NewFlagSet("task sweep", flag.ExitOnError)
	configPath := flags.String("config", "", "path to collabspace.yaml config file")
	if err := flags.Parse(args); err != nil {
		return err
	}

	_, board, boardPath, err := taskBoard(*configPath)
	if err != nil {
		return err
	}

	changed := board.SweepOverdue()
	if changed > 0 {
		if err := saveBoard(board, boardPath); err != nil {
			return err
		}
	}
	fmt.Printf("%d task(s) moved to deadline-over\n", changed)
	return nil
}
