package normalize

import (
	"regexp"
	"strings"
)

var wsRe = regexp.MustCompile(`\s+`)

// CleanText collapses runs of whitespace into single spaces and trims.
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(wsRe.ReplaceAllString(s, " "))
}
