// Package store holds the canonical in-memory data set and its mutation API.
package store

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nikbrunner/cm/internal/favicon"
	"github.com/nikbrunner/cm/internal/model"
	"github.com/nikbrunner/cm/internal/storage"
)

// ErrNotPermutation is returned when a reorder does not contain exactly the
// current set of collections.
var ErrNotPermutation = errors.New("reordered collections are not a permutation of the current set")

// Store is the single source of truth for the process.
//
// Mutations are synchronous and atomic from the caller's point of view.
// Every mutation persists the whole data set through the configured storage;
// a failed persist is logged and the in-memory state stays authoritative.
type Store struct {
	mu      sync.Mutex
	data    *model.AppData
	storage storage.Storage
	now     func() time.Time
	subs    []func()
}

// New creates a Store loading its initial state from the given storage.
func New(s storage.Storage) (*Store, error) {
	data, err := s.Load()
	if err != nil {
		return nil, err
	}
	return &Store{
		data:    data,
		storage: s,
		now:     time.Now,
	}, nil
}

// SetClock replaces the store's clock. Tests use this to freeze time.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Subscribe registers fn to run after every state change, including reloads.
// fn runs on the mutating goroutine and must not call back into the store.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Data returns a deep copy of the current data set.
func (s *Store) Data() *model.AppData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Clone()
}

// Collections returns a copy of the collection sequence in display order.
func (s *Store) Collections() []model.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Collection, len(s.data.Collections))
	copy(out, s.data.Collections)
	return out
}

// Bookmarks returns a copy of the bookmark sequence in insertion order.
func (s *Store) Bookmarks() []model.Bookmark {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Bookmark, len(s.data.Bookmarks))
	copy(out, s.data.Bookmarks)
	return out
}

// CollectionInput carries the caller-editable fields of a collection.
// An empty ID means create; a known ID means update.
type CollectionInput struct {
	ID    string
	Name  string
	Color string
	Icon  string
}

// UpsertCollection merges the input into an existing collection or appends a
// new one. Updates refresh UpdatedAt and preserve CreatedAt; reordering is
// not affected. Returns the resulting record.
func (s *Store) UpsertCollection(input CollectionInput) model.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := strings.TrimSpace(input.Name)
	now := s.now()

	for i := range s.data.Collections {
		if s.data.Collections[i].ID == input.ID {
			c := &s.data.Collections[i]
			c.Name = name
			c.Color = input.Color
			c.Icon = model.NormalizeIcon(input.Icon)
			c.UpdatedAt = now
			result := *c
			s.persistLocked()
			return result
		}
	}

	created := model.NewCollection(model.NewCollectionParams{
		Name:  name,
		Color: input.Color,
		Icon:  input.Icon,
	}, now)
	s.data.Collections = append(s.data.Collections, created)
	s.persistLocked()
	return created
}

// BookmarkInput carries the caller-editable fields of a bookmark.
// An empty ID means create; a known ID means update.
type BookmarkInput struct {
	ID           string
	URL          string
	Title        string
	Description  string
	CollectionID string
}

// UpsertBookmark merges the input into an existing bookmark or appends a new
// one. The favicon URL is recomputed from the URL's hostname on every upsert,
// even when the URL is unchanged. Updates refresh UpdatedAt and preserve
// CreatedAt. Returns the resulting record.
func (s *Store) UpsertBookmark(input BookmarkInput) model.Bookmark {
	s.mu.Lock()
	defer s.mu.Unlock()

	url := strings.TrimSpace(input.URL)
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	faviconURL := favicon.URL(url)
	now := s.now()

	for i := range s.data.Bookmarks {
		if s.data.Bookmarks[i].ID == input.ID {
			b := &s.data.Bookmarks[i]
			b.URL = url
			b.Title = title
			b.Description = description
			b.FaviconURL = faviconURL
			b.CollectionID = input.CollectionID
			b.UpdatedAt = now
			result := *b
			s.persistLocked()
			return result
		}
	}

	created := model.NewBookmark(model.NewBookmarkParams{
		URL:          url,
		Title:        title,
		Description:  description,
		FaviconURL:   faviconURL,
		CollectionID: input.CollectionID,
	}, now)
	s.data.Bookmarks = append(s.data.Bookmarks, created)
	s.persistLocked()
	return created
}

// DeleteBookmark removes the bookmark with the given ID. No-op if absent.
// Collections are never touched: a collection the bookmark referenced stays.
func (s *Store) DeleteBookmark(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.data.Bookmarks[:0]
	removed := false
	for _, b := range s.data.Bookmarks {
		if b.ID == id {
			removed = true
			continue
		}
		kept = append(kept, b)
	}
	if !removed {
		return
	}
	s.data.Bookmarks = kept
	s.persistLocked()
}

// ReplaceCollections atomically replaces the collection sequence with the
// given permutation of the current set. Reordering is not a content edit:
// no timestamps change. A sequence that adds, drops, or duplicates IDs is
// rejected.
func (s *Store) ReplaceCollections(newOrder []model.Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(newOrder) != len(s.data.Collections) {
		return ErrNotPermutation
	}
	current := make(map[string]bool, len(s.data.Collections))
	for _, c := range s.data.Collections {
		current[c.ID] = true
	}
	seen := make(map[string]bool, len(newOrder))
	for _, c := range newOrder {
		if !current[c.ID] || seen[c.ID] {
			return ErrNotPermutation
		}
		seen[c.ID] = true
	}

	replacement := make([]model.Collection, len(newOrder))
	copy(replacement, newOrder)
	s.data.Collections = replacement
	s.persistLocked()
	return nil
}

// Reload replaces the in-memory state with whatever storage currently holds.
// Used when another process wrote the storage file: last writer wins, whole
// document, no merging.
func (s *Store) Reload() {
	data, err := s.storage.Load()
	if err != nil {
		log.Warn().Err(err).Msg("reload after external change failed, keeping in-memory state")
		return
	}

	s.mu.Lock()
	s.data = data
	subs := s.subs
	s.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

// persistLocked saves the full data set and notifies subscribers.
// Persistence is fire-and-forget: a write failure is logged and the
// in-memory change stands. Caller must hold s.mu.
func (s *Store) persistLocked() {
	if err := s.storage.Save(s.data); err != nil {
		log.Warn().Err(err).Msg("failed to persist bookmarks, in-memory state remains authoritative")
	}
	for _, fn := range s.subs {
		fn()
	}
}
