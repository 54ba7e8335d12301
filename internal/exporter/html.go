// Package exporter writes collections as Netscape bookmark HTML.
package exporter

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikbrunner/cm/internal/model"
)

// DefaultExportPath returns the default export file path.
// Format: ~/Downloads/bookmarks-export-YYYY-MM-DD.html
func DefaultExportPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("bookmarks-export-%s.html", time.Now().Format("2006-01-02"))
	return filepath.Join(home, "Downloads", filename), nil
}

// ExportHTML exports the data set to Netscape bookmark HTML format.
// Collections appear as folders in display order. Bookmarks whose collection
// no longer exists are written at the root level (uncategorized).
func ExportHTML(data *model.AppData) string {
	var b strings.Builder

	b.WriteString("<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	b.WriteString("<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	b.WriteString("<TITLE>Bookmarks</TITLE>\n")
	b.WriteString("<H1>Bookmarks</H1>\n")
	b.WriteString("<DL><p>\n")

	for _, collection := range data.Collections {
		fmt.Fprintf(&b, "    <DT><H3>%s</H3>\n", html.EscapeString(collection.Name))
		b.WriteString("    <DL><p>\n")
		for _, bookmark := range data.BookmarksInCollection(collection.ID) {
			writeBookmark(&b, bookmark, 2)
		}
		b.WriteString("    </DL><p>\n")
	}

	// Orphans last, at root level.
	for _, bookmark := range data.Bookmarks {
		if data.CollectionByID(bookmark.CollectionID) == nil {
			writeBookmark(&b, bookmark, 1)
		}
	}

	b.WriteString("</DL><p>\n")

	return b.String()
}

func writeBookmark(b *strings.Builder, bookmark model.Bookmark, indent int) {
	fmt.Fprintf(b,
		"%s<DT><A HREF=\"%s\" ADD_DATE=\"%d\">%s</A>\n",
		strings.Repeat("    ", indent),
		html.EscapeString(bookmark.URL),
		bookmark.CreatedAt.Unix(),
		html.EscapeString(bookmark.Title),
	)
}
