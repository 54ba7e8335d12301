package model

import "time"

// Collection represents a user-named, ordered group that bookmarks belong to.
type Collection struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"`
	Icon      string    `json:"icon,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewCollectionParams holds parameters for creating a new Collection.
type NewCollectionParams struct {
	Name  string
	Color string
	Icon  string
}

// NewCollection creates a Collection with a generated ID and equal timestamps.
func NewCollection(params NewCollectionParams, now time.Time) Collection {
	return Collection{
		ID:        GenerateID(CollectionIDPrefix),
		Name:      params.Name,
		Color:     params.Color,
		Icon:      NormalizeIcon(params.Icon),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ColorPalette holds the hex colors offered when tagging a collection.
var ColorPalette = []string{
	"#ef4444", // red
	"#f97316", // orange
	"#eab308", // yellow
	"#84cc16", // lime
	"#22c55e", // green
	"#10b981", // emerald
	"#14b8a6", // teal
	"#06b6d4", // cyan
	"#3b82f6", // blue
	"#6366f1", // indigo
	"#8b5cf6", // violet
	"#a855f7", // purple
	"#d946ef", // fuchsia
	"#ec4899", // pink
	"#f43f5e", // rose
	"#78716c", // stone
}
