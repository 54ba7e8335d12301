// Package importer parses Netscape bookmark HTML into collections.
package importer

import (
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/nikbrunner/cm/internal/favicon"
	"github.com/nikbrunner/cm/internal/model"
)

// ImportedCollectionName is the bucket for bookmarks that sit outside any
// folder in the imported file. Collections are flat here, so it is also
// where a folder-less file ends up wholesale.
const ImportedCollectionName = "Imported"

// ParseHTMLBookmarks parses Netscape bookmark HTML and returns collections
// and bookmarks. Top-level folders become collections; nested folders are
// flattened into their top-level ancestor.
func ParseHTMLBookmarks(r io.Reader) ([]model.Collection, []model.Bookmark, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()

	var collections []model.Collection
	var bookmarks []model.Bookmark

	// Stack of collection IDs; nested folders re-push their ancestor.
	var stack []string
	var pending string
	var importedID string

	ensureImported := func() string {
		if importedID == "" {
			c := model.NewCollection(model.NewCollectionParams{Name: ImportedCollectionName}, now)
			collections = append(collections, c)
			importedID = c.ID
		}
		return importedID
	}

	var parse func(*html.Node)
	parse = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch strings.ToLower(n.Data) {
			case "h3":
				name := getTextContent(n)
				if name == "" {
					return
				}
				if len(stack) == 0 {
					c := model.NewCollection(model.NewCollectionParams{Name: name}, now)
					collections = append(collections, c)
					pending = c.ID
				} else {
					// Nested folder: flatten into the enclosing collection.
					pending = stack[len(stack)-1]
				}
				return // Don't recurse into H3

			case "a":
				href := getAttr(n, "href")
				if href == "" {
					// Skip bookmarks without URL
					return
				}

				title := getTextContent(n)
				if title == "" {
					title = href // fallback to URL as title
				}

				collectionID := ""
				if len(stack) > 0 {
					collectionID = stack[len(stack)-1]
				} else {
					collectionID = ensureImported()
				}

				// Parse ADD_DATE timestamp
				createdAt := now
				if addDate := getAttr(n, "add_date"); addDate != "" {
					if ts, err := strconv.ParseInt(addDate, 10, 64); err == nil {
						createdAt = time.Unix(ts, 0)
					}
				}

				bookmarks = append(bookmarks, model.Bookmark{
					ID:           model.GenerateID(model.BookmarkIDPrefix),
					URL:          href,
					Title:        title,
					FaviconURL:   favicon.URL(href),
					CollectionID: collectionID,
					CreatedAt:    createdAt,
					UpdatedAt:    createdAt,
				})
				return // Don't recurse into A

			case "dl":
				pushed := false
				if pending != "" {
					stack = append(stack, pending)
					pending = ""
					pushed = true
				}

				for c := n.FirstChild; c != nil; c = c.NextSibling {
					parse(c)
				}

				if pushed {
					stack = stack[:len(stack)-1]
				}
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			parse(c)
		}
	}

	parse(doc)

	return collections, bookmarks, nil
}

// getTextContent extracts the concatenated text of a node's children.
func getTextContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}

// getAttr returns the value of the named attribute, case-insensitive.
func getAttr(n *html.Node, name string) string {
	for _, attr := range n.Attr {
		if strings.EqualFold(attr.Key, name) {
			return attr.Val
		}
	}
	return ""
}
