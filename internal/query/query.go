// Package query filters the bookmark list for display.
package query

import (
	"strings"

	"github.com/nikbrunner/cm/internal/model"
)

// Filter returns the bookmarks visible for the given collection scope and
// free-text query. scope == "" means all bookmarks.
//
// The text match is a case-insensitive substring test over title and URL.
// Collection names participate only when unscoped: a bookmark whose
// collection name matches is kept even if its own fields do not. While
// scoped to a collection, only that collection's bookmarks are searched.
// Input order is preserved; there is no relevance ranking.
func Filter(bookmarks []model.Bookmark, collections []model.Collection, scope, rawQuery string) []model.Bookmark {
	q := strings.ToLower(strings.TrimSpace(rawQuery))

	inView := bookmarks
	if scope != "" {
		inView = nil
		for _, b := range bookmarks {
			if b.CollectionID == scope {
				inView = append(inView, b)
			}
		}
	}

	if q == "" {
		return inView
	}

	if scope != "" {
		var result []model.Bookmark
		for _, b := range inView {
			if matchesText(b, q) {
				result = append(result, b)
			}
		}
		return result
	}

	matchingCollections := make(map[string]bool)
	for _, c := range collections {
		if strings.Contains(strings.ToLower(c.Name), q) {
			matchingCollections[c.ID] = true
		}
	}

	var result []model.Bookmark
	for _, b := range inView {
		if matchesText(b, q) || matchingCollections[b.CollectionID] {
			result = append(result, b)
		}
	}
	return result
}

func matchesText(b model.Bookmark, q string) bool {
	return strings.Contains(strings.ToLower(b.Title), q) ||
		strings.Contains(strings.ToLower(b.URL), q)
}
