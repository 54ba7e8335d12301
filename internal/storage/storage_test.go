package storage_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nikbrunner/cm/internal/model"
	"github.com/nikbrunner/cm/internal/storage"
)

func TestJSONStorage_SaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "bookmarks.json")

	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	data := &model.AppData{
		Collections: []model.Collection{
			{ID: "c1", Name: "Development", Color: "#3b82f6", Icon: "Code", CreatedAt: now, UpdatedAt: now},
		},
		Bookmarks: []model.Bookmark{
			{
				ID:           "b1",
				URL:          "https://example.com",
				Title:        "Test",
				Description:  "A test bookmark",
				FaviconURL:   "https://www.google.com/s2/favicons?domain=example.com",
				CollectionID: "c1",
				CreatedAt:    now,
				UpdatedAt:    now,
			},
		},
	}

	s := storage.NewJSONStorage(path)
	if err := s.Save(data); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	if len(loaded.Collections) != 1 || len(loaded.Bookmarks) != 1 {
		t.Fatalf("unexpected counts: %d collections, %d bookmarks",
			len(loaded.Collections), len(loaded.Bookmarks))
	}
	if loaded.Collections[0] != data.Collections[0] {
		t.Errorf("collection mismatch: got %+v, want %+v", loaded.Collections[0], data.Collections[0])
	}
	if loaded.Bookmarks[0] != data.Bookmarks[0] {
		t.Errorf("bookmark mismatch: got %+v, want %+v", loaded.Bookmarks[0], data.Bookmarks[0])
	}
}

func TestJSONStorage_RoundTripIsIdempotent(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "bookmarks.json")

	s := storage.NewJSONStorage(path)
	first, err := s.Load() // seeds
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	if err := s.Save(first); err != nil {
		t.Fatalf("failed to save: %v", err)
	}
	second, err := s.Load()
	if err != nil {
		t.Fatalf("failed to reload: %v", err)
	}

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Error("load(); save(load()) did not reproduce an equivalent document")
	}
}

func TestJSONStorage_SeedsOnFirstRun(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "bookmarks.json")

	s := storage.NewJSONStorage(path)
	data, err := s.Load()
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}

	if len(data.Collections) != 3 {
		t.Errorf("expected 3 seed collections, got %d", len(data.Collections))
	}
	if len(data.Bookmarks) != 6 {
		t.Errorf("expected 6 seed bookmarks, got %d", len(data.Bookmarks))
	}

	// Seeding must also persist, so a second load sees the same data.
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("seed data was not persisted: %v", err)
	}
	reloaded, err := s.Load()
	if err != nil {
		t.Fatalf("failed to reload: %v", err)
	}
	if len(reloaded.Collections) != 3 || len(reloaded.Bookmarks) != 6 {
		t.Error("persisted seed data does not match returned seed data")
	}
}

func TestJSONStorage_CorruptFileFallsBackToSeed(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "bookmarks.json")

	corrupt := []byte(`{"collections": [{"id": "c1", truncated...`)
	if err := os.WriteFile(path, corrupt, 0644); err != nil {
		t.Fatalf("failed to write corrupt file: %v", err)
	}

	s := storage.NewJSONStorage(path)
	data, err := s.Load()
	if err != nil {
		t.Fatalf("expected recovery, got error: %v", err)
	}
	if len(data.Collections) != 3 || len(data.Bookmarks) != 6 {
		t.Error("expected seed data as fallback for corrupt file")
	}

	// Fallback is non-destructive: the corrupt file must be left untouched.
	onDisk, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to re-read file: %v", err)
	}
	if string(onDisk) != string(corrupt) {
		t.Error("corrupt file was overwritten by fallback load")
	}
}

func TestJSONStorage_NilSlicesBecomeEmpty(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "bookmarks.json")

	if err := os.WriteFile(path, []byte(`{}`), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	s := storage.NewJSONStorage(path)
	data, err := s.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if data.Collections == nil || data.Bookmarks == nil {
		t.Error("expected initialized slices for empty document")
	}
}

func TestJSONStorage_PreservesCollectionOrder(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "bookmarks.json")

	data := model.NewAppData()
	data.Collections = []model.Collection{
		{ID: "c1", Name: "First"},
		{ID: "c2", Name: "Second"},
		{ID: "c3", Name: "Third"},
	}

	s := storage.NewJSONStorage(path)
	if err := s.Save(data); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	expectedNames := []string{"First", "Second", "Third"}
	for i, name := range expectedNames {
		if loaded.Collections[i].Name != name {
			t.Errorf("order not preserved: expected %q at position %d, got %q",
				name, i, loaded.Collections[i].Name)
		}
	}
}

func TestJSONStorage_CreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "dir", "bookmarks.json")

	s := storage.NewJSONStorage(path)
	if err := s.Save(model.NewAppData()); err != nil {
		t.Fatalf("failed to save with nested dir: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("storage file was not created in nested directory")
	}
}

func TestSeedData_ReferentialIntegrity(t *testing.T) {
	seed := storage.SeedData()

	for _, b := range seed.Bookmarks {
		if seed.CollectionByID(b.CollectionID) == nil {
			t.Errorf("seed bookmark %s references missing collection %s", b.ID, b.CollectionID)
		}
		if b.FaviconURL == "" {
			t.Errorf("seed bookmark %s has no favicon URL", b.ID)
		}
	}

	for _, c := range seed.Collections {
		if c.UpdatedAt.Before(c.CreatedAt) {
			t.Errorf("seed collection %s has updatedAt before createdAt", c.ID)
		}
	}
}
