package historystore

import (
	"testing"
	"time"

	"github.com/dalemusser/mediasave/internal/domain/models"
	"github.com/dalemusser/mediasave/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_EnsureSchema(t *testing.T) {
	t.Run("creates the full column set", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		store := New(db, time.UTC)

		ctx, cancel := testutil.TestContext()
		defer cancel()

		if err := store.EnsureSchema(ctx); err != nil {
			t.Fatalf("EnsureSchema() error = %v", err)
		}

		schema, err := store.GetSchema(ctx)
		if err != nil {
			t.Fatalf("GetSchema() error = %v", err)
		}

		wantKeys := []string{
			"file_name", "saved_at", "folder_path",
			"folder_link", "file_link", "file_format", "media_type",
		}
		if len(schema.Columns) != len(wantKeys) {
			t.Fatalf("column count = %d, want %d", len(schema.Columns), len(wantKeys))
		}
		for i, key := range wantKeys {
			if schema.Columns[i].Key != key {
				t.Errorf("column[%d] = %q, want %q", i, schema.Columns[i].Key, key)
			}
		}
	})

	t.Run("appends new columns to a legacy schema", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		store := New(db, time.UTC)

		ctx, cancel := testutil.TestContext()
		defer cancel()

		// Schema written before file_format and media_type existed.
		legacy := []models.HistoryColumn{
			{Key: "file_name", Label: "File Name"},
			{Key: "saved_at", Label: "Saved At"},
			{Key: "folder_path", Label: "Folder Path"},
			{Key: "folder_link", Label: "Folder Link"},
			{Key: "file_link", Label: "File Link"},
		}
		_, err := db.Collection("history_schema").InsertOne(ctx, bson.M{
			"_id":       primitive.NewObjectID(),
			"singleton": true,
			"columns":   legacy,
		})
		if err != nil {
			t.Fatalf("seed legacy schema: %v", err)
		}

		if err := store.EnsureSchema(ctx); err != nil {
			t.Fatalf("EnsureSchema() error = %v", err)
		}

		schema, err := store.GetSchema(ctx)
		if err != nil {
			t.Fatalf("GetSchema() error = %v", err)
		}
		if len(schema.Columns) != 7 {
			t.Fatalf("column count = %d, want 7", len(schema.Columns))
		}
		// Legacy columns keep their positions; new ones land at the end.
		if schema.Columns[0].Key != "file_name" {
			t.Errorf("column[0] = %q, want file_name", schema.Columns[0].Key)
		}
		if schema.Columns[5].Key != "file_format" || schema.Columns[6].Key != "media_type" {
			t.Errorf("appended columns = %q, %q; want file_format, media_type",
				schema.Columns[5].Key, schema.Columns[6].Key)
		}
	})

	t.Run("second run is a no-op", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		store := New(db, time.UTC)

		ctx, cancel := testutil.TestContext()
		defer cancel()

		if err := store.EnsureSchema(ctx); err != nil {
			t.Fatalf("first EnsureSchema() error = %v", err)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			t.Fatalf("second EnsureSchema() error = %v", err)
		}

		schema, err := store.GetSchema(ctx)
		if err != nil {
			t.Fatalf("GetSchema() error = %v", err)
		}
		if len(schema.Columns) != 7 {
			t.Errorf("column count = %d, want 7 (no duplicates)", len(schema.Columns))
		}
	})
}

func TestStore_Append(t *testing.T) {
	db := testutil.SetupTestDB(t)

	chicago, err := time.LoadLocation("America/Chicago")
	if err != nil {
		t.Fatalf("LoadLocation: %v", err)
	}
	store := New(db, chicago)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	savedAt := time.Date(2026, 8, 24, 18, 30, 5, 0, time.UTC)

	entry, err := store.Append(ctx, AppendInput{
		FileName:   "a1b2c3d4.mp3",
		SavedAt:    savedAt,
		FolderPath: "Captures > August",
		FolderLink: "/browse/folders/68a",
		FileLink:   "/files/captures/2026/08/a1b2c3d4.mp3",
		FileFormat: "mp3",
		MediaType:  "audio",
	})
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	// 18:30:05 UTC is 13:30:05 in Chicago during DST.
	if entry.SavedAt != "2026/08/24 13:30:05" {
		t.Errorf("SavedAt = %q, want %q", entry.SavedAt, "2026/08/24 13:30:05")
	}
	if entry.FileFormat != "MP3" {
		t.Errorf("FileFormat = %q, want MP3", entry.FileFormat)
	}
	if entry.MediaType != "audio" {
		t.Errorf("MediaType = %q, want audio", entry.MediaType)
	}
}

func TestStore_Append_UpgradesLegacySchema(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db, time.UTC)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Schema written before file_format and media_type existed; Append must
	// bring it current before the row lands.
	legacy := []models.HistoryColumn{
		{Key: "file_name", Label: "File Name"},
		{Key: "saved_at", Label: "Saved At"},
		{Key: "folder_path", Label: "Folder Path"},
		{Key: "folder_link", Label: "Folder Link"},
		{Key: "file_link", Label: "File Link"},
	}
	_, err := db.Collection("history_schema").InsertOne(ctx, bson.M{
		"_id":       primitive.NewObjectID(),
		"singleton": true,
		"columns":   legacy,
	})
	if err != nil {
		t.Fatalf("seed legacy schema: %v", err)
	}

	if _, err := store.Append(ctx, AppendInput{
		FileName:   "clip.webm",
		SavedAt:    time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC),
		FileFormat: "webm",
		MediaType:  "video",
	}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	schema, err := store.GetSchema(ctx)
	if err != nil {
		t.Fatalf("GetSchema() error = %v", err)
	}
	if len(schema.Columns) != 7 {
		t.Fatalf("column count = %d, want 7", len(schema.Columns))
	}
	if schema.Columns[5].Key != "file_format" || schema.Columns[6].Key != "media_type" {
		t.Errorf("appended columns = %q, %q; want file_format, media_type",
			schema.Columns[5].Key, schema.Columns[6].Key)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Count() = %d, want 1", count)
	}
}

func TestStore_Append_CreatesSchema(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db, time.UTC)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	// No boot-time EnsureSchema has run; the first append creates it.
	if _, err := store.Append(ctx, AppendInput{
		FileName:  "notes.txt",
		SavedAt:   time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC),
		MediaType: "text",
	}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	schema, err := store.GetSchema(ctx)
	if err != nil {
		t.Fatalf("GetSchema() error = %v", err)
	}
	if len(schema.Columns) != 7 {
		t.Errorf("column count = %d, want 7", len(schema.Columns))
	}
}

func TestStore_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db, time.UTC)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	for i, name := range []string{"first.mp3", "second.webm", "third.png"} {
		_, err := store.Append(ctx, AppendInput{
			FileName:  name,
			SavedAt:   time.Date(2026, 8, 24, 10, i, 0, 0, time.UTC),
			MediaType: "audio",
		})
		if err != nil {
			t.Fatalf("Append(%q) error = %v", name, err)
		}
	}

	entries, err := store.List(ctx, 1, 50)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("entry count = %d, want 3", len(entries))
	}
	// Newest first.
	if entries[0].FileName != "third.png" {
		t.Errorf("entries[0] = %q, want third.png", entries[0].FileName)
	}
	if entries[2].FileName != "first.mp3" {
		t.Errorf("entries[2] = %q, want first.mp3", entries[2].FileName)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 3 {
		t.Errorf("Count() = %d, want 3", count)
	}
}
