// Copyright 2026 The CollabSpace Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collabspace/collabspace/client"
)

func roomListBody(rooms ...client.Room) []byte {
	body, _ := json.Marshal(rooms)
	return body
}

func TestRoomDirectoryFetchAll(t *testing.T) {
	api := newTestClient(t, func(writer http.ResponseWriter, _ *http.Request) {
		writer.Write(roomListBody(
			client.Room{ID: "r1", Name: "general", Members: []string{"ada@example.com"}},
			client.Room{ID: "r2", Name: "ops"},
		))
	})
	directory := NewRoomDirectory(api, nil)

	require.NoError(t, directory.FetchAll(context.Background()))
	rooms := directory.Rooms()
	require.Len(t, rooms, 2)
	assert.Equal(t, "r1", rooms[0].ID)

	// The snapshot is a copy: mutating it must not leak back.
	rooms[0].Name = "hijacked"
	rooms[0].Members[0] = "mallory@example.com"
	fresh := directory.Rooms()
	assert.Equal(t, "general", fresh[0].Name)
	assert.Equal(t, "ada@example.com", fresh[0].Members[0])
}

func TestRoomDirectoryFetchAllFailureKeepsList(t *testing.T) {
	var fail atomic.Bool
	api := newTestClient(t, func(writer http.ResponseWriter, _ *http.Request) {
		if fail.Load() {
			writer.WriteHeader(http.StatusInternalServerError)
			return
		}
		writer.Write(roomListBody(client.Room{ID: "r1", Name: "general"}))
	})
	directory := NewRoomDirectory(api, nil)

	require.NoError(t, directory.FetchAll(context.Background()))
	fail.Store(true)
	require.Error(t, directory.FetchAll(context.Background()))
	assert.Len(t, directory.Rooms(), 1, "failed fetch must not clobber the list")
}

// TestRoomDirectoryStaleFetchDiscarded overlaps two FetchAll calls and
// answers the older one last. The older response must be discarded.
func TestRoomDirectoryStaleFetchDiscarded(t *testing.T) {
	firstArrived := make(chan struct{})
	releaseFirst := make(chan struct{})
	var calls atomic.Int64

	api := newTestClient(t, func(writer http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			close(firstArrived)
			<-releaseFirst
			writer.Write(roomListBody(client.Room{ID: "stale", Name: "stale"}))
			return
		}
		writer.Write(roomListBody(client.Room{ID: "fresh", Name: "fresh"}))
	})
	directory := NewRoomDirectory(api, nil)

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- directory.FetchAll(context.Background())
	}()
	<-firstArrived

	// Second fetch starts after the first and completes before it.
	require.NoError(t, directory.FetchAll(context.Background()))

	close(releaseFirst)
	require.NoError(t, <-firstDone)

	rooms := directory.Rooms()
	require.Len(t, rooms, 1)
	assert.Equal(t, "fresh", rooms[0].ID, "older response overwrote a newer one")
}

func TestRoomDirectoryCreate(t *testing.T) {
	t.Run("validation skips the network", func(t *testing.T) {
		var calls atomic.Int64
		api := newTestClient(t, func(http.ResponseWriter, *http.Request) {
			calls.Add(1)
		})
		directory := NewRoomDirectory(api, nil)

		_, err := directory.Create(context.Background(), "   ", "desc", nil)
		assert.True(t, client.IsKind(err, client.KindValidation))
		_, err = directory.Create(context.Background(), "name", "", nil)
		assert.True(t, client.IsKind(err, client.KindValidation))
		assert.Zero(t, calls.Load())
		assert.Empty(t, directory.Rooms())
	})

	t.Run("appends the server copy", func(t *testing.T) {
		api := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
			json.NewEncoder(writer).Encode(client.Room{
				ID: "r7", Name: "design", Description: "d", CreatedBy: "ada@example.com",
			})
		})
		directory := NewRoomDirectory(api, nil)

		room, err := directory.Create(context.Background(), "design", "d", nil)
		require.NoError(t, err)
		assert.Equal(t, "r7", room.ID)

		rooms := directory.Rooms()
		require.Len(t, rooms, 1)
		assert.Equal(t, "ada@example.com", rooms[0].CreatedBy)
	})
}

func TestRoomDirectoryDelete(t *testing.T) {
	seedDirectory := func(t *testing.T, handler http.HandlerFunc) *RoomDirectory {
		api := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
			if request.Method == http.MethodGet {
				writer.Write(roomListBody(
					client.Room{ID: "r1", Name: "general"},
					client.Room{ID: "r2", Name: "ops"},
				))
				return
			}
			handler(writer, request)
		})
		directory := NewRoomDirectory(api, nil)
		require.NoError(t, directory.FetchAll(context.Background()))
		return directory
	}

	t.Run("removes locally after confirmation", func(t *testing.T) {
		directory := seedDirectory(t, func(writer http.ResponseWriter, _ *http.Request) {
			writer.WriteHeader(http.StatusNoContent)
		})

		wasSelected, err := directory.Delete(context.Background(), "r1")
		require.NoError(t, err)
		assert.False(t, wasSelected)

		rooms := directory.Rooms()
		require.Len(t, rooms, 1)
		assert.Equal(t, "r2", rooms[0].ID)
	})

	t.Run("clears the selection when the selected room dies", func(t *testing.T) {
		directory := seedDirectory(t, func(writer http.ResponseWriter, _ *http.Request) {
			writer.WriteHeader(http.StatusNoContent)
		})
		require.True(t, directory.Select("r2"))

		wasSelected, err := directory.Delete(context.Background(), "r2")
		require.NoError(t, err)
		assert.True(t, wasSelected)
		_, ok := directory.Selected()
		assert.False(t, ok)
	})

	t.Run("server failure leaves the list alone", func(t *testing.T) {
		directory := seedDirectory(t, func(writer http.ResponseWriter, _ *http.Request) {
			writer.WriteHeader(http.StatusNotFound)
		})

		_, err := directory.Delete(context.Background(), "r1")
		require.Error(t, err)
		assert.Len(t, directory.Rooms(), 2)
	})
}

func TestRoomDirectoryInvite(t *testing.T) {
	newSeeded := func(t *testing.T) *RoomDirectory {
		api := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
			if request.Method == http.MethodGet {
				writer.Write(roomListBody(client.Room{
					ID: "r1", Name: "general",
					Members: []string{"ada@example.com"},
				}))
				return
			}
			writer.WriteHeader(http.StatusOK)
		})
		directory := NewRoomDirectory(api, nil)
		require.NoError(t, directory.FetchAll(context.Background()))
		return directory
	}

	t.Run("validation", func(t *testing.T) {
		directory := newSeeded(t)
		err := directory.Invite(context.Background(), "r1", nil)
		assert.True(t, client.IsKind(err, client.KindValidation))
		err = directory.Invite(context.Background(), "r1", []string{"grace@example.com", " "})
		assert.True(t, client.IsKind(err, client.KindValidation))
	})

	t.Run("idempotent member set", func(t *testing.T) {
		directory := newSeeded(t)
		require.NoError(t, directory.Invite(context.Background(), "r1", []string{"grace@example.com"}))
		require.NoError(t, directory.Invite(context.Background(), "r1", []string{"grace@example.com"}))

		room, ok := directory.Room("r1")
		require.True(t, ok)
		assert.Equal(t, []string{"ada@example.com", "grace@example.com"}, room.Members,
			"a member invited twice must appear exactly once")
	})
}

func TestRoomDirectoryRemoveMember(t *testing.T) {
	newSeeded := func(t *testing.T, serverCalls *atomic.Int64) *RoomDirectory {
		api := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
			if request.Method == http.MethodGet {
				writer.Write(roomListBody(client.Room{
					ID: "r1", Name: "general",
					Members:   []string{"ada@example.com", "grace@example.com"},
					CreatedBy: "ada@example.com",
				}))
				return
			}
			if serverCalls != nil {
				serverCalls.Add(1)
			}
			writer.WriteHeader(http.StatusOK)
		})
		directory := NewRoomDirectory(api, nil)
		require.NoError(t, directory.FetchAll(context.Background()))
		return directory
	}

	t.Run("creator is never removable", func(t *testing.T) {
		var serverCalls atomic.Int64
		directory := newSeeded(t, &serverCalls)

		err := directory.RemoveMember(context.Background(), "r1", "ada@example.com")
		assert.True(t, client.IsKind(err, client.KindValidation))
		assert.Zero(t, serverCalls.Load(), "creator removal must fail before the network")

		room, _ := directory.Room("r1")
		assert.Contains(t, room.Members, "ada@example.com")
	})

	t.Run("removes after confirmation", func(t *testing.T) {
		directory := newSeeded(t, nil)

		require.NoError(t, directory.RemoveMember(context.Background(), "r1", "grace@example.com"))
		room, _ := directory.Room("r1")
		assert.Equal(t, []string{"ada@example.com"}, room.Members)
	})
}

func TestRoomDirectoryUpdate(t *testing.T) {
	api := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		if request.Method == http.MethodGet {
			writer.Write(roomListBody(client.Room{ID: "r1", Name: "general", Description: "old"}))
			return
		}
		json.NewEncoder(writer).Encode(client.Room{ID: "r1", Name: "renamed", Description: "old"})
	})
	directory := NewRoomDirectory(api, nil)
	require.NoError(t, directory.FetchAll(context.Background()))

	_, err := directory.Update(context.Background(), "r1", "", "  ")
	assert.True(t, client.IsKind(err, client.KindValidation))

	updated, err := directory.Update(context.Background(), "r1", "renamed", "")
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)

	room, ok := directory.Room("r1")
	require.True(t, ok)
	assert.Equal(t, "renamed", room.Name)
}

func TestRoomDirectorySelect(t *testing.T) {
	api := newTestClient(t, func(writer http.ResponseWriter, _ *http.Request) {
		writer.Write(roomListBody(client.Room{ID: "r1", Name: "general"}))
	})
	directory := NewRoomDirectory(api, nil)
	require.NoError(t, directory.FetchAll(context.Background()))

	assert.False(t, directory.Select("missing"))
	_, ok := directory.Selected()
	assert.False(t, ok)

	assert.True(t, directory.Select("r1"))
	selected, ok := directory.Selected()
	require.True(t, ok)
	assert.Equal(t, "r1", selected)
}
