// Package favicon derives favicon provider URLs from bookmark URLs.
package favicon

import (
	"fmt"
	"net/url"

	"github.com/rs/zerolog/log"
)

const (
	// DefaultProvider serves favicons by domain.
	DefaultProvider = "https://www.google.com/s2/favicons"

	// PlaceholderHost is used when a bookmark URL cannot be parsed.
	PlaceholderHost = "example.com"
)

// URL returns the favicon provider URL for the given bookmark URL.
// An unparseable URL falls back to the placeholder host; the failure is
// logged, never returned.
func URL(rawURL string) string {
	return fmt.Sprintf("%s?domain=%s", DefaultProvider, Host(rawURL))
}

// URLSized returns the favicon provider URL with an explicit pixel size,
// for display contexts.
func URLSized(rawURL string, size int) string {
	return fmt.Sprintf("%s?domain=%s&sz=%d", DefaultProvider, Host(rawURL), size)
}

// Host extracts the hostname from a bookmark URL, falling back to the
// placeholder host when the URL is not an absolute URL.
func Host(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		log.Warn().Str("url", rawURL).Msg("invalid URL for favicon, using placeholder")
		return PlaceholderHost
	}
	return u.Hostname()
}
