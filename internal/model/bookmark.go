package model

import "time"

// Bookmark represents a saved URL with metadata, belonging to one collection.
type Bookmark struct {
	ID           string    `json:"id"`
	URL          string    `json:"url"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	FaviconURL   string    `json:"faviconUrl"`
	CollectionID string    `json:"collectionId"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewBookmarkParams holds parameters for creating a new Bookmark.
type NewBookmarkParams struct {
	URL          string
	Title        string
	Description  string
	FaviconURL   string
	CollectionID string
}

// NewBookmark creates a Bookmark with a generated ID and equal timestamps.
func NewBookmark(params NewBookmarkParams, now time.Time) Bookmark {
	return Bookmark{
		ID:           GenerateID(BookmarkIDPrefix),
		URL:          params.URL,
		Title:        params.Title,
		Description:  params.Description,
		FaviconURL:   params.FaviconURL,
		CollectionID: params.CollectionID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
