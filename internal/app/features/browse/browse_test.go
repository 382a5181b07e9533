package browse

import (
	"testing"

	"github.com/dalemusser/mediasave/internal/app/store/folder"
	"github.com/dalemusser/mediasave/internal/app/store/mediafile"
	"github.com/dalemusser/mediasave/internal/testutil"
	"github.com/dalemusser/waffle/pantry/storage"
	"go.uber.org/zap"
)

func newTestStorage(t *testing.T) storage.Store {
	t.Helper()
	store, err := storage.NewLocal(storage.LocalConfig{
		BasePath: t.TempDir(),
		BaseURL:  "/files",
	})
	if err != nil {
		t.Fatalf("storage.NewLocal() error: %v", err)
	}
	return store
}

func TestNewHandler(t *testing.T) {
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	h := NewHandler(db, newTestStorage(t), logger)
	if h == nil {
		t.Fatal("NewHandler() returned nil")
	}
}

func TestRoutes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	h := NewHandler(db, newTestStorage(t), logger)
	router := Routes(h)

	if router == nil {
		t.Fatal("Routes() returned nil")
	}
}

func TestFolderContents(t *testing.T) {
	db := testutil.SetupTestDB(t)
	folders := folder.New(db)
	files := mediafile.New(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	root, err := folders.Resolve(ctx, "Captures", nil)
	if err != nil {
		t.Fatalf("folders Resolve() error: %v", err)
	}
	sub, err := folders.Resolve(ctx, "Week 1", &root.ID)
	if err != nil {
		t.Fatalf("folders Resolve() error: %v", err)
	}

	if _, err := files.Create(ctx, mediafile.CreateInput{
		FolderID:    &sub.ID,
		Name:        "clip.mp3",
		StorageKey:  "captures/2026/08/deadbeef.mp3",
		Size:        42,
		ContentType: "audio/mpeg",
		MediaType:   "audio",
		Format:      "MP3",
	}); err != nil {
		t.Fatalf("files Create() error: %v", err)
	}

	path, err := folders.GetPath(ctx, sub.ID)
	if err != nil {
		t.Fatalf("folders GetPath() error: %v", err)
	}
	if got, want := folder.PathText(path), "Captures > Week 1"; got != want {
		t.Errorf("PathText() = %q, want %q", got, want)
	}

	listed, err := files.ListByFolder(ctx, &sub.ID, 1, 10)
	if err != nil {
		t.Fatalf("files ListByFolder() error: %v", err)
	}
	if len(listed) != 1 || listed[0].Name != "clip.mp3" {
		t.Errorf("ListByFolder() = %+v, want one entry named clip.mp3", listed)
	}

	count, err := files.CountByFolder(ctx, &sub.ID)
	if err != nil {
		t.Fatalf("files CountByFolder() error: %v", err)
	}
	if count != 1 {
		t.Errorf("CountByFolder() = %d, want 1", count)
	}

	rootFolders, err := folders.ListByParent(ctx, nil)
	if err != nil {
		t.Fatalf("folders ListByParent() error: %v", err)
	}
	if len(rootFolders) != 1 || rootFolders[0].Name != "Captures" {
		t.Errorf("ListByParent(nil) = %+v, want one folder named Captures", rootFolders)
	}
}
