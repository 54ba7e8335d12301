package model

// AppData is the root aggregate: all collections and bookmarks.
// Collection order is the user-controlled display order; bookmark order is
// insertion order.
type AppData struct {
	Collections []Collection `json:"collections"`
	Bookmarks   []Bookmark   `json:"bookmarks"`
}

// NewAppData creates an empty AppData with initialized slices.
func NewAppData() *AppData {
	return &AppData{
		Collections: []Collection{},
		Bookmarks:   []Bookmark{},
	}
}

// CollectionByID finds a collection by ID, returns nil if not found.
// A nil result is how dangling bookmark references surface; callers treat it
// as "uncategorized", never as an error.
func (d *AppData) CollectionByID(id string) *Collection {
	for i := range d.Collections {
		if d.Collections[i].ID == id {
			return &d.Collections[i]
		}
	}
	return nil
}

// BookmarkByID finds a bookmark by ID, returns nil if not found.
func (d *AppData) BookmarkByID(id string) *Bookmark {
	for i := range d.Bookmarks {
		if d.Bookmarks[i].ID == id {
			return &d.Bookmarks[i]
		}
	}
	return nil
}

// BookmarksInCollection returns the bookmarks belonging to the given
// collection, in insertion order.
func (d *AppData) BookmarksInCollection(collectionID string) []Bookmark {
	var result []Bookmark
	for _, b := range d.Bookmarks {
		if b.CollectionID == collectionID {
			result = append(result, b)
		}
	}
	return result
}

// CollectionByName finds a collection by exact name, returns nil if not found.
func (d *AppData) CollectionByName(name string) *Collection {
	for i := range d.Collections {
		if d.Collections[i].Name == name {
			return &d.Collections[i]
		}
	}
	return nil
}

// HasBookmarkURL reports whether any bookmark already stores the given URL.
func (d *AppData) HasBookmarkURL(url string) bool {
	for _, b := range d.Bookmarks {
		if b.URL == url {
			return true
		}
	}
	return false
}

// ImportMerge merges imported collections and bookmarks into the data set.
// Collections are reused by name; bookmarks with duplicate URLs are skipped.
// Returns the number of bookmarks added and skipped.
func (d *AppData) ImportMerge(collections []Collection, bookmarks []Bookmark) (added, skipped int) {
	// Map imported collection IDs onto existing collections with the same name.
	idRemap := make(map[string]string)
	for _, c := range collections {
		if existing := d.CollectionByName(c.Name); existing != nil {
			idRemap[c.ID] = existing.ID
			continue
		}
		d.Collections = append(d.Collections, c)
	}

	for _, b := range bookmarks {
		if d.HasBookmarkURL(b.URL) {
			skipped++
			continue
		}
		if mapped, ok := idRemap[b.CollectionID]; ok {
			b.CollectionID = mapped
		}
		d.Bookmarks = append(d.Bookmarks, b)
		added++
	}

	return added, skipped
}

// Clone returns a deep copy of the data set.
func (d *AppData) Clone() *AppData {
	out := &AppData{
		Collections: make([]Collection, len(d.Collections)),
		Bookmarks:   make([]Bookmark, len(d.Bookmarks)),
	}
	copy(out.Collections, d.Collections)
	copy(out.Bookmarks, d.Bookmarks)
	return out
}
