// internal/paginate/feed.go
package paginate

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"review_harvester/internal/adapters/observability"
	"review_harvester/internal/dedup"
	"review_harvester/internal/domain"
	"review_harvester/internal/normalize"
)

type FeedConfig struct {
	MaxPages  int
	PrefixLen int
}

// Feed walks numbered feed pages newest-first. Pacing and request retries
// live in the Fetcher; this loop only decides when to stop.
type Feed struct {
	src FeedSource
	win domain.Window
	ix  *dedup.Index
	cfg FeedConfig
}

func NewFeed(src FeedSource, win domain.Window, ix *dedup.Index, cfg FeedConfig) *Feed {
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 20
	}
	if cfg.PrefixLen <= 0 {
		cfg.PrefixLen = 100
	}
	return &Feed{src: src, win: win, ix: ix, cfg: cfg}
}

func (p *Feed) Platform() domain.Platform { return domain.PlatformFeed }

// Harvest walks pages until a failed or empty page, a page whose oldest
// item falls outside the window, the page ceiling, or shutdown. Whatever
// was collected up to that point is returned, deduplicated in page order.
func (p *Feed) Harvest(ctx context.Context) []domain.Review {
	source := string(p.Platform())
	var rows []domain.Review

	for page := 1; page <= p.cfg.MaxPages; page++ {
		if ctx.Err() != nil {
			log.Info().Str("source", source).Msg("shutdown requested, stopping harvest")
			break
		}

		entries, err := p.src.Page(ctx, page)
		if err != nil || len(entries) == 0 {
			break
		}
		mapped := make([]domain.Review, 0, len(entries))
		for _, e := range entries {
			if r, ok := normalize.MapFeedEntry(e); ok {
				mapped = append(mapped, r)
			}
		}
		if len(mapped) == 0 {
			break
		}
		observability.ObservePage(source)

		var oldest time.Time
		for _, r := range mapped {
			if oldest.IsZero() || r.Date.Before(oldest) {
				oldest = r.Date
			}
			if p.win.Contains(r.Date) {
				rows = append(rows, r)
			}
		}
		if PastWindow(oldest, p.win) {
			log.Debug().Str("source", source).Int("page", page).Msg("oldest item past the window, stopping")
			break
		}
	}

	// first occurrence wins
	out := make([]domain.Review, 0, len(rows))
	for _, r := range rows {
		if p.ix.Admit(r, p.cfg.PrefixLen) {
			out = append(out, r)
		}
	}
	observability.ObserveCollected(source, len(out))
	log.Info().Str("source", source).Int("reviews", len(out)).Msg("harvest complete")
	return out
}
