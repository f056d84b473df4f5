package service

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	invalidKeyChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)
	repeatedUnders  = regexp.MustCompile(`_+`)
)

// SanitizeFileName turns a source file name into a valid index document key:
// the trailing .pdf suffix is stripped, every character outside [a-zA-Z0-9_-]
// becomes an underscore, runs of underscores collapse to one and leading or
// trailing underscores are removed. The function is idempotent.
//
// Two different file names can sanitize to the same key; AssignID does not
// guard against that. Sources should carry distinct base names.
func SanitizeFileName(filename string) string {
	name := strings.TrimSuffix(filename, ".pdf")
	name = invalidKeyChars.ReplaceAllString(name, "_")
	name = repeatedUnders.ReplaceAllString(name, "_")
	return strings.Trim(name, "_")
}

// AssignID derives the index key for one chunk. The sequence index is scoped
// per page per source and increases monotonically in page scan order, which is
// the sole uniqueness guarantee within an indexing run.
func AssignID(sanitizedName string, pageNumber, sequenceIndex int) string {
	return fmt.Sprintf("%s_%d_%d", sanitizedName, pageNumber, sequenceIndex)
}
