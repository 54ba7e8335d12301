package query

import (
	"testing"

	"gotest.tools/v3/assert"

	"github.com/nikbrunner/cm/internal/model"
)

func testData() ([]model.Bookmark, []model.Collection) {
	collections := []model.Collection{
		{ID: "c1", Name: "Travel"},
		{ID: "c2", Name: "Tech Reading"},
	}
	bookmarks := []model.Bookmark{
		{ID: "b1", Title: "Paris Guide", URL: "https://parisguide.example", CollectionID: "c1"},
		{ID: "b2", Title: "Unrelated", URL: "https://unrelated.example", CollectionID: "c2"},
		{ID: "b3", Title: "Go Blog", URL: "https://go.dev/blog", CollectionID: "c2"},
	}
	return bookmarks, collections
}

func ids(bookmarks []model.Bookmark) []string {
	out := make([]string, len(bookmarks))
	for i, b := range bookmarks {
		out[i] = b.ID
	}
	return out
}

func TestFilter_EmptyQueryUnscoped(t *testing.T) {
	bookmarks, collections := testData()

	got := Filter(bookmarks, collections, "", "")

	assert.DeepEqual(t, ids(got), []string{"b1", "b2", "b3"})
}

func TestFilter_EmptyQueryScoped(t *testing.T) {
	bookmarks, collections := testData()

	got := Filter(bookmarks, collections, "c2", "")

	assert.DeepEqual(t, ids(got), []string{"b2", "b3"})
}

func TestFilter_WhitespaceQueryIsEmpty(t *testing.T) {
	bookmarks, collections := testData()

	got := Filter(bookmarks, collections, "", "   \t ")

	assert.DeepEqual(t, ids(got), []string{"b1", "b2", "b3"})
}

func TestFilter_ScopedExcludesCollectionNameMatches(t *testing.T) {
	bookmarks, collections := testData()

	// "travel" matches only the collection name, which is ignored while scoped.
	got := Filter(bookmarks, collections, "c1", "travel")

	assert.Equal(t, len(got), 0)
}

func TestFilter_UnscopedIncludesCollectionNameMatches(t *testing.T) {
	bookmarks, collections := testData()

	got := Filter(bookmarks, collections, "", "travel")

	assert.DeepEqual(t, ids(got), []string{"b1"})
}

func TestFilter_ScopedMatchesTitleAndURL(t *testing.T) {
	bookmarks, collections := testData()

	got := Filter(bookmarks, collections, "c1", "paris")
	assert.DeepEqual(t, ids(got), []string{"b1"})

	got = Filter(bookmarks, collections, "c2", "go.dev")
	assert.DeepEqual(t, ids(got), []string{"b3"})
}

func TestFilter_CaseInsensitive(t *testing.T) {
	bookmarks, collections := testData()

	got := Filter(bookmarks, collections, "", "PARIS")

	assert.DeepEqual(t, ids(got), []string{"b1"})
}

func TestFilter_StableOrder(t *testing.T) {
	collections := []model.Collection{{ID: "c1", Name: "Mixed"}}
	bookmarks := []model.Bookmark{
		{ID: "b3", Title: "go three", URL: "https://three.example", CollectionID: "c1"},
		{ID: "b1", Title: "go one", URL: "https://one.example", CollectionID: "c1"},
		{ID: "b2", Title: "go two", URL: "https://two.example", CollectionID: "c1"},
	}

	got := Filter(bookmarks, collections, "", "go")

	// Input order preserved, no ranking.
	assert.DeepEqual(t, ids(got), []string{"b3", "b1", "b2"})
}

func TestFilter_DanglingCollectionID(t *testing.T) {
	collections := []model.Collection{{ID: "c1", Name: "Travel"}}
	bookmarks := []model.Bookmark{
		{ID: "b1", Title: "Orphan", URL: "https://orphan.example", CollectionID: "deleted"},
	}

	// Must not panic; orphan is findable by its own fields.
	got := Filter(bookmarks, collections, "", "orphan")
	assert.DeepEqual(t, ids(got), []string{"b1"})

	// Scoping to the dangling ID yields just that bookmark.
	got = Filter(bookmarks, collections, "deleted", "")
	assert.DeepEqual(t, ids(got), []string{"b1"})
}
