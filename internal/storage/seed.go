package storage

import (
	"time"

	"github.com/nikbrunner/cm/internal/favicon"
	"github.com/nikbrunner/cm/internal/model"
)

// SeedData returns the fixed default data set installed on first run:
// three collections and six bookmarks.
func SeedData() *model.AppData {
	now := time.Now()

	return &model.AppData{
		Collections: []model.Collection{
			{
				ID:        "c1",
				Name:      "Design Inspiration",
				Color:     "#3b82f6",
				Icon:      "Palette",
				CreatedAt: now,
				UpdatedAt: now,
			},
			{
				ID:        "c2",
				Name:      "Tech Reading",
				Color:     "#8b5cf6",
				Icon:      "BookOpen",
				CreatedAt: now,
				UpdatedAt: now,
			},
			{
				ID:        "c3",
				Name:      "Utilities",
				Color:     "#10b981",
				Icon:      "Tool",
				CreatedAt: now,
				UpdatedAt: now,
			},
		},
		Bookmarks: []model.Bookmark{
			seedBookmark("b1", "c1", "https://dribbble.com",
				"Dribbble - Discover the World's Top Designers & Creative Professionals", now),
			seedBookmark("b2", "c1", "https://www.awwwards.com",
				"Awwwards - Website Awards - Best Web Design Trends", now),
			seedBookmark("b3", "c2", "https://react.dev",
				"React", now),
			seedBookmark("b4", "c2", "https://www.builder.io/blog/visual-copilot",
				"Visual Copilot: AI that turns Figma designs into clean code", now),
			seedBookmark("b5", "c3", "https://tinypng.com",
				"TinyPNG - Compress WebP, PNG and JPEG images intelligently", now),
			seedBookmark("b6", "c3", "https://caniuse.com",
				"Can I use... Support tables for HTML5, CSS3, etc", now),
		},
	}
}

func seedBookmark(id, collectionID, url, title string, now time.Time) model.Bookmark {
	return model.Bookmark{
		ID:           id,
		URL:          url,
		Title:        title,
		FaviconURL:   favicon.URL(url),
		CollectionID: collectionID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
