// internal/paginate/paginate.go

// Package paginate walks each source newest-first until a stop condition,
// producing windowed, deduplicated reviews.
package paginate

import (
	"context"

	"review_harvester/internal/normalize"
)

// FeedSource serves raw entries for numbered feed pages.
type FeedSource interface {
	Page(ctx context.Context, page int) ([]map[string]any, error)
}

// ReviewBatcher serves continuation-token batches of raw review items.
// An empty returned token signals exhaustion.
type ReviewBatcher interface {
	Batch(ctx context.Context, token string) ([]map[string]any, string, error)
}

// PageSource serves extracted review cards for numbered HTML pages.
type PageSource interface {
	Cards(ctx context.Context, page int) ([]normalize.WebCard, error)
}
