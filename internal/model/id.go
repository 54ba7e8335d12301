package model

import "github.com/google/uuid"

// ID prefixes distinguish entity types at a glance in stored data.
const (
	CollectionIDPrefix = "c"
	BookmarkIDPrefix   = "b"
)

// GenerateID creates a new prefixed UUID string.
func GenerateID(prefix string) string {
	return prefix + uuid.New().String()
}
