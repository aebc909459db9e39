// internal/normalize/store.go
package normalize

import (
	"strconv"
	"strings"

	"review_harvester/internal/domain"
)

// intScore reads the score field as an integer, no clamping.
func intScore(v any) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case int:
		return t
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return n
		}
	}
	return 0
}

// MapStoreEntry maps one store batch item. The timestamp must be present
// and parsable, the score must be an integer star in 1..5 (no clamping),
// and empty text skips the item. A missing username behaves like the
// platform's anonymous account.
func MapStoreEntry(e map[string]any) (domain.Review, bool) {
	stamp := LookupStr(e, "at")
	if stamp == "" {
		return domain.Review{}, false
	}
	at, err := ParseTime(stamp)
	if err != nil {
		return domain.Review{}, false
	}

	score := intScore(LookupAny(e, "score"))
	if score < 1 || score > 5 {
		return domain.Review{}, false
	}

	user := LookupStr(e, "userName")
	if user == "" {
		user = "Anonymous"
	}

	text := strings.TrimSpace(LookupStr(e, "content"))
	if text == "" {
		return domain.Review{}, false
	}

	return domain.Review{
		Date:     domain.Day(at),
		Rating:   score,
		Reviewer: StoreReviewer(user),
		Text:     text,
		Platform: domain.PlatformStore,
	}, true
}
