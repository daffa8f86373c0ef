package utils

import (
	"regexp"
	"strings"
)

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// SanitizeText removes HTML/script tags from free-text input and trims
// surrounding whitespace. Titles and descriptions pass through here before
// persistence.
func SanitizeText(s string) string {
	return strings.TrimSpace(htmlTagPattern.ReplaceAllString(s, ""))
}
