// internal/normalize/feed.go
package normalize

import (
	"strconv"
	"strings"

	"review_harvester/internal/domain"
)

// clampRating coerces the flexible rating label into 1..5. Numeric values
// out of range are clamped; non-numeric values are rejected.
func clampRating(v any) (int, bool) {
	var n int
	switch t := v.(type) {
	case float64:
		n = int(t)
	case int:
		n = t
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		i, err := strconv.Atoi(s)
		if err != nil {
			return 0, false
		}
		n = i
	default:
		return 0, false
	}
	if n < 1 {
		n = 1
	}
	if n > 5 {
		n = 5
	}
	return n, true
}

// MapFeedEntry maps one feed entry into a Review. An entry needs a numeric
// rating and a parsable timestamp; text comes from the content label with
// the title as fallback. Anything unusable skips the entry, not the page.
func MapFeedEntry(e map[string]any) (domain.Review, bool) {
	rating := LookupAny(e, "im:rating.label")
	content := LookupStr(e, "content.label")
	if rating == nil && content == "" {
		return domain.Review{}, false
	}
	star, ok := clampRating(rating)
	if !ok {
		return domain.Review{}, false
	}

	stamp := LookupStr(e, "updated.label")
	if stamp == "" {
		stamp = LookupStr(e, "im:releaseDate.label")
	}
	if stamp == "" {
		return domain.Review{}, false
	}
	at, err := ParseTime(stamp)
	if err != nil {
		return domain.Review{}, false
	}

	text := CleanText(content)
	if text == "" {
		text = CleanText(LookupStr(e, "title.label"))
	}
	if text == "" {
		return domain.Review{}, false
	}

	return domain.Review{
		Date:     domain.Day(at),
		Rating:   star,
		Reviewer: FeedReviewer(LookupStr(e, "author.name.label")),
		Text:     text,
		Platform: domain.PlatformFeed,
	}, true
}
