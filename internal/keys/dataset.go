package keys

import (
	"fmt"
	"strings"
)

// sanitizeKey replaces spaces with hyphens and lowercases the string.
func sanitizeKey(s string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", "-"))
}

// Dataset returns the canonical object key of a source's JSON dataset.
func Dataset(sourceID string) string {
	return fmt.Sprintf("datasets/%s.json", sanitizeKey(sourceID))
}

// Candidate returns the stable id of the index-th record of a source.
func Candidate(sourceID string, index int) string {
	return fmt.Sprintf("%s/%d", sourceID, index)
}
