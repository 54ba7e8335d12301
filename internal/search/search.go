// Package search provides fuzzy quick search for the cm CLI.
//
// This is distinct from the query package: quick search ranks loosely
// matching titles for fast open-by-keyword, while query.Filter is the exact
// substring filter driving the browse list.
package search

import (
	"github.com/sahilm/fuzzy"

	"github.com/nikbrunner/cm/internal/model"
)

// Result represents a fuzzy search match.
type Result struct {
	Bookmark       *model.Bookmark
	MatchedIndexes []int
	Score          int
}

// bookmarkTitles implements fuzzy.Source for a bookmark slice.
type bookmarkTitles []*model.Bookmark

func (bt bookmarkTitles) String(i int) string {
	return bt[i].Title
}

func (bt bookmarkTitles) Len() int {
	return len(bt)
}

// FuzzySearchBookmarks searches all bookmarks by title using fuzzy matching.
// Returns results sorted by match score (best first).
func FuzzySearchBookmarks(data *model.AppData, query string) []Result {
	if query == "" {
		return nil
	}

	bookmarks := make(bookmarkTitles, len(data.Bookmarks))
	for i := range data.Bookmarks {
		bookmarks[i] = &data.Bookmarks[i]
	}

	matches := fuzzy.FindFrom(query, bookmarks)

	results := make([]Result, len(matches))
	for i, m := range matches {
		results[i] = Result{
			Bookmark:       bookmarks[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}

	return results
}
