package normalize

import (
	"regexp"
	"strings"
)

// AnonymousInitials is the sentinel for names that cannot be reduced.
const AnonymousInitials = "A."

/********** placeholder registries **********/

// Placeholder handles the platforms hand out instead of a real name.
var (
	storePlaceholderRe = regexp.MustCompile(`(?i)anonymous|anon|google user|a google user`)
	webPlaceholderRe   = regexp.MustCompile(`(?i)anonymous|anon|trustpilot user`)
)

var alphaRe = regexp.MustCompile(`[A-Za-z]`)

// initials reduces a display name to bare initials: first name, or first
// plus last, letters upper-cased. sep joins the two ("" gives "J.D.",
// " " gives "J. D."). The raw name never survives past this point.
func initials(name, sep string) string {
	var parts []string
	for _, p := range strings.Fields(name) {
		if alphaRe.MatchString(p) {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return AnonymousInitials
	}
	out := firstLetter(parts[0]) + "."
	if len(parts) == 1 {
		return out
	}
	return out + sep + firstLetter(parts[len(parts)-1]) + "."
}

func firstLetter(s string) string {
	r := []rune(s)
	return strings.ToUpper(string(r[:1]))
}

// FeedReviewer maps a feed display name to compact initials ("J.D.").
func FeedReviewer(name string) string {
	return initials(name, "")
}

// StoreReviewer maps a store username to spaced initials ("J. D."),
// treating the store's placeholder accounts as anonymous.
func StoreReviewer(name string) string {
	n := strings.Join(strings.Fields(name), " ")
	if n == "" || storePlaceholderRe.MatchString(n) {
		return AnonymousInitials
	}
	return initials(n, " ")
}

// WebReviewer is the review-site flavor of StoreReviewer.
func WebReviewer(name string) string {
	n := strings.Join(strings.Fields(name), " ")
	if n == "" || webPlaceholderRe.MatchString(n) {
		return AnonymousInitials
	}
	return initials(n, " ")
}
