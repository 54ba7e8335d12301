// Package storage persists the whole data set as one durable document.
package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/nikbrunner/cm/internal/model"
)

// Storage defines the interface for persisting the data set.
// Load never fails hard: missing storage seeds defaults, corrupt storage
// falls back to defaults.
type Storage interface {
	Load() (*model.AppData, error)
	Save(data *model.AppData) error
}

// JSONStorage implements Storage using a single JSON file.
type JSONStorage struct {
	path string
}

// NewJSONStorage creates a new JSONStorage with the given file path.
func NewJSONStorage(path string) *JSONStorage {
	return &JSONStorage{path: path}
}

// Path returns the storage file path.
func (s *JSONStorage) Path() string {
	return s.path
}

// Load reads the data set from the JSON file.
//
// On first run (no file) it writes and returns the seed data. On read or
// parse failure it logs and returns the seed data WITHOUT persisting it, so
// a possibly recoverable file is never overwritten.
func (s *JSONStorage) Load() (*model.AppData, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			seed := SeedData()
			if saveErr := s.Save(seed); saveErr != nil {
				log.Warn().Err(saveErr).Str("path", s.path).Msg("failed to persist seed data")
			}
			return seed, nil
		}
		log.Warn().Err(err).Str("path", s.path).Msg("failed to read bookmarks, falling back to seed data")
		return SeedData(), nil
	}

	var data model.AppData
	if err := json.Unmarshal(raw, &data); err != nil {
		log.Warn().Err(err).Str("path", s.path).Msg("failed to parse bookmarks, falling back to seed data")
		return SeedData(), nil
	}

	if data.Collections == nil {
		data.Collections = []model.Collection{}
	}
	if data.Bookmarks == nil {
		data.Bookmarks = []model.Bookmark{}
	}

	return &data, nil
}

// Save writes the full data set to the JSON file, overwriting any prior
// value. Creates the directory if it doesn't exist.
func (s *JSONStorage) Save(data *model.AppData) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, raw, 0644)
}

// DefaultJSONPath returns the default storage path: ~/.config/cm/bookmarks.json
func DefaultJSONPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "cm", "bookmarks.json"), nil
}

// OpenStorage opens the appropriate storage backend.
// Prefers SQLite if the database file exists, otherwise falls back to JSON.
func OpenStorage() (Storage, error) {
	sqlitePath, err := DefaultSQLitePath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(sqlitePath); err == nil {
		return NewSQLiteStorage(sqlitePath)
	}

	jsonPath, err := DefaultJSONPath()
	if err != nil {
		return nil, err
	}
	return NewJSONStorage(jsonPath), nil
}
