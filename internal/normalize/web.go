// internal/normalize/web.go
package normalize

import (
	"time"

	"review_harvester/internal/domain"
)

// WebCard is one extracted review card from an HTML page, before
// anonymization. Text may span paragraphs joined with newlines.
type WebCard struct {
	At     time.Time
	Rating int
	Text   string
	Name   string
}

// MapWebCard finalizes an extracted card into a Review.
func MapWebCard(c WebCard) (domain.Review, bool) {
	if c.At.IsZero() || c.Rating < 1 || c.Rating > 5 || c.Text == "" {
		return domain.Review{}, false
	}
	return domain.Review{
		Date:     domain.Day(c.At),
		Rating:   c.Rating,
		Reviewer: WebReviewer(c.Name),
		Text:     c.Text,
		Platform: domain.PlatformWeb,
	}, true
}
