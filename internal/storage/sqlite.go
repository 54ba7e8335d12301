package storage

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/nikbrunner/cm/internal/model"
)

const currentSchemaVersion = 1

// SQLiteStorage implements Storage using a SQLite database.
// The data set is still treated as one document: Save replaces all rows
// inside a transaction.
type SQLiteStorage struct {
	db   *sql.DB
	path string
}

// NewSQLiteStorage creates a new SQLiteStorage with the given database path.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, err
		}
	}

	s := &SQLiteStorage{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Path returns the database file path.
func (s *SQLiteStorage) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// migrate runs database migrations.
func (s *SQLiteStorage) migrate() error {
	var version int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		// Table doesn't exist or is empty, start fresh
		version = 0
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	return nil
}

// migrateV1 creates the initial schema.
//
// Bookmarks carry no foreign key on collection_id: a dangling reference is
// tolerated data, not a constraint violation.
func (s *SQLiteStorage) migrateV1() error {
	schema := `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS collections (
			id TEXT PRIMARY KEY NOT NULL,
			name TEXT NOT NULL,
			color TEXT,
			icon TEXT,
			position INTEGER NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS bookmarks (
			id TEXT PRIMARY KEY NOT NULL,
			url TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT,
			favicon_url TEXT NOT NULL,
			collection_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_bookmarks_collection_id ON bookmarks(collection_id);
		CREATE INDEX IF NOT EXISTS idx_bookmarks_url ON bookmarks(url);

		INSERT OR REPLACE INTO schema_version (version) VALUES (1);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Load reads the data set from the SQLite database.
// An empty database seeds default data, matching JSONStorage behavior.
func (s *SQLiteStorage) Load() (*model.AppData, error) {
	data := model.NewAppData()

	// Display order is the persisted position, not name order.
	rows, err := s.db.Query(`
		SELECT id, name, color, icon, created_at, updated_at
		FROM collections
		ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var c model.Collection
		var color, icon sql.NullString
		var createdAt, updatedAt string

		if err := rows.Scan(&c.ID, &c.Name, &color, &icon, &createdAt, &updatedAt); err != nil {
			return nil, err
		}

		c.Color = color.String
		c.Icon = icon.String
		c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		c.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)

		data.Collections = append(data.Collections, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.db.Query(`
		SELECT id, url, title, description, favicon_url, collection_id, created_at, updated_at
		FROM bookmarks
		ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var b model.Bookmark
		var description sql.NullString
		var createdAt, updatedAt string

		if err := rows.Scan(
			&b.ID, &b.URL, &b.Title, &description,
			&b.FaviconURL, &b.CollectionID, &createdAt, &updatedAt,
		); err != nil {
			return nil, err
		}

		b.Description = description.String
		b.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		b.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)

		data.Bookmarks = append(data.Bookmarks, b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(data.Collections) == 0 && len(data.Bookmarks) == 0 {
		seed := SeedData()
		if err := s.Save(seed); err != nil {
			return nil, err
		}
		return seed, nil
	}

	return data, nil
}

// Save writes the data set to the SQLite database.
// Uses a transaction for atomicity - all or nothing.
func (s *SQLiteStorage) Save(data *model.AppData) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM bookmarks"); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM collections"); err != nil {
		return err
	}

	collectionStmt, err := tx.Prepare(`
		INSERT INTO collections (id, name, color, icon, position, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer collectionStmt.Close()

	for i, c := range data.Collections {
		if _, err := collectionStmt.Exec(
			c.ID, c.Name, nullable(c.Color), nullable(c.Icon), i,
			c.CreatedAt.Format(time.RFC3339), c.UpdatedAt.Format(time.RFC3339),
		); err != nil {
			return err
		}
	}

	bookmarkStmt, err := tx.Prepare(`
		INSERT INTO bookmarks (id, url, title, description, favicon_url, collection_id, position, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer bookmarkStmt.Close()

	for i, b := range data.Bookmarks {
		if _, err := bookmarkStmt.Exec(
			b.ID, b.URL, b.Title, nullable(b.Description),
			b.FaviconURL, b.CollectionID, i,
			b.CreatedAt.Format(time.RFC3339), b.UpdatedAt.Format(time.RFC3339),
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// DefaultSQLitePath returns the default SQLite database path: ~/.config/cm/bookmarks.db
func DefaultSQLitePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "cm", "bookmarks.db"), nil
}
