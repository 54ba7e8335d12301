package doctor

import "github.com/nikbrunner/cm/internal/model"

// DanglingReferences returns the bookmarks whose CollectionID resolves to no
// collection. Such bookmarks are tolerated everywhere else (shown as
// uncategorized); this report is the only place they are called out.
func DanglingReferences(data *model.AppData) []model.Bookmark {
	var orphans []model.Bookmark
	for _, b := range data.Bookmarks {
		if data.CollectionByID(b.CollectionID) == nil {
			orphans = append(orphans, b)
		}
	}
	return orphans
}
