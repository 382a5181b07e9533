package ledgerstore

import (
	"fmt"
	"testing"
	"time"

	"github.com/dalemusser/mediasave/internal/testutil"
)

func seedEntries(t *testing.T, store *Store) {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	base := time.Now().UTC().Add(-time.Hour)
	entries := []Entry{
		{
			RequestID: "req-1",
			Method:    "POST",
			Path:      "/api/capture/audio",
			ActorType: "api_key",
			MediaType: "audio",

			StatusCode: 200,
			StartedAt:  base,
		},
		{
			RequestID: "req-2",
			Method:    "POST",
			Path:      "/api/capture/photo",
			ActorType: "api_key",
			MediaType: "photo",

			StatusCode:   200,
			ErrorClass:   "validation",
			ErrorMessage: "Invalid file format.",
			StartedAt:    base.Add(10 * time.Minute),
		},
		{
			RequestID: "req-3",
			Method:    "GET",
			Path:      "/api/history",
			ActorType: "anonymous",

			StatusCode: 401,
			ErrorClass: "auth",
			StartedAt:  base.Add(20 * time.Minute),
		},
	}
	for _, e := range entries {
		if err := store.Create(ctx, e); err != nil {
			t.Fatalf("Create(%s) error: %v", e.RequestID, err)
		}
	}
}

func TestStore_CreateAndGetByRequestID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	seedEntries(t, store)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	entry, err := store.GetByRequestID(ctx, "req-2")
	if err != nil {
		t.Fatalf("GetByRequestID() error: %v", err)
	}
	if entry.MediaType != "photo" {
		t.Errorf("media_type = %q, want %q", entry.MediaType, "photo")
	}
	if entry.ErrorMessage != "Invalid file format." {
		t.Errorf("error_message = %q, want %q", entry.ErrorMessage, "Invalid file format.")
	}
}

func TestStore_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	seedEntries(t, store)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	t.Run("newest first", func(t *testing.T) {
		entries, err := store.List(ctx, ListFilter{}, 1, 50)
		if err != nil {
			t.Fatalf("List() error: %v", err)
		}
		if len(entries) != 3 {
			t.Fatalf("List() returned %d entries, want 3", len(entries))
		}
		if entries[0].RequestID != "req-3" {
			t.Errorf("first entry = %q, want %q", entries[0].RequestID, "req-3")
		}
	})

	t.Run("filter by media type", func(t *testing.T) {
		entries, err := store.List(ctx, ListFilter{MediaType: "audio"}, 1, 50)
		if err != nil {
			t.Fatalf("List() error: %v", err)
		}
		if len(entries) != 1 || entries[0].RequestID != "req-1" {
			t.Errorf("List(audio) = %+v, want only req-1", entries)
		}
	})

	t.Run("filter by actor and error class", func(t *testing.T) {
		count, err := store.Count(ctx, ListFilter{ActorType: "anonymous", ErrorClass: "auth"})
		if err != nil {
			t.Fatalf("Count() error: %v", err)
		}
		if count != 1 {
			t.Errorf("Count() = %d, want 1", count)
		}
	})

	t.Run("filter by status range", func(t *testing.T) {
		min := 400
		count, err := store.Count(ctx, ListFilter{StatusCodeMin: &min})
		if err != nil {
			t.Fatalf("Count() error: %v", err)
		}
		if count != 1 {
			t.Errorf("Count(status >= 400) = %d, want 1", count)
		}
	})

	t.Run("pagination", func(t *testing.T) {
		entries, err := store.List(ctx, ListFilter{}, 2, 2)
		if err != nil {
			t.Fatalf("List() error: %v", err)
		}
		if len(entries) != 1 || entries[0].RequestID != "req-1" {
			t.Errorf("page 2 = %+v, want only req-1", entries)
		}
	})
}

func TestStore_RecentErrors(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	seedEntries(t, store)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	entries, err := store.RecentErrors(ctx, 10)
	if err != nil {
		t.Fatalf("RecentErrors() error: %v", err)
	}
	if len(entries) != 1 || entries[0].RequestID != "req-3" {
		t.Errorf("RecentErrors() = %+v, want only the 401 entry", entries)
	}
}

func TestStore_DeleteOlderThan(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	for i := 0; i < 4; i++ {
		err := store.Create(ctx, Entry{
			RequestID: fmt.Sprintf("req-%d", i),
			Method:    "POST",
			Path:      "/api/capture/text",
			ActorType: "api_key",

			StatusCode: 200,
			StartedAt:  now.Add(-time.Duration(i) * 24 * time.Hour),
		})
		if err != nil {
			t.Fatalf("Create() error: %v", err)
		}
	}

	deleted, err := store.DeleteOlderThan(ctx, now.Add(-36*time.Hour))
	if err != nil {
		t.Fatalf("DeleteOlderThan() error: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}

	remaining, err := store.Count(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("Count() error: %v", err)
	}
	if remaining != 2 {
		t.Errorf("remaining = %d, want 2", remaining)
	}
}
