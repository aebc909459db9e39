// internal/paginate/web.go
package paginate

import (
	"context"

	"github.com/rs/zerolog/log"

	"review_harvester/internal/adapters/observability"
	"review_harvester/internal/dedup"
	"review_harvester/internal/domain"
	"review_harvester/internal/normalize"
	"review_harvester/internal/schedule"
)

type WebConfig struct {
	MaxPages        int
	EstimationPages int
	PageMargin      int
	ItemLimit       int
	Workers         int
	EmptyStreak     int
	PrefixLen       int
}

// Web harvests an HTML review listing. Page depth is unknown up front, so
// a short sequential probe estimates how far recent content goes, then
// the scheduler fetches the estimated range concurrently.
type Web struct {
	src PageSource
	win domain.Window
	ix  *dedup.Index
	cfg WebConfig
}

func NewWeb(src PageSource, win domain.Window, ix *dedup.Index, cfg WebConfig) *Web {
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 50
	}
	if cfg.EstimationPages <= 0 {
		cfg.EstimationPages = 5
	}
	if cfg.PageMargin <= 0 {
		cfg.PageMargin = 10
	}
	if cfg.ItemLimit <= 0 {
		cfg.ItemLimit = 1000
	}
	if cfg.EmptyStreak <= 0 {
		cfg.EmptyStreak = 3
	}
	if cfg.PrefixLen <= 0 {
		cfg.PrefixLen = 80
	}
	return &Web{src: src, win: win, ix: ix, cfg: cfg}
}

func (p *Web) Platform() domain.Platform { return domain.PlatformWeb }

func (p *Web) Harvest(ctx context.Context) []domain.Review {
	source := string(p.Platform())

	est := p.estimatePages(ctx)
	if ctx.Err() != nil {
		return nil
	}
	if est == 0 {
		log.Info().Str("source", source).Msg("no reviews found")
		return nil
	}
	last := est + p.cfg.PageMargin
	if last > p.cfg.MaxPages {
		last = p.cfg.MaxPages
	}
	log.Info().Str("source", source).Int("estimated", est).Int("last", last).
		Msg("scheduling page fetches")

	pool := schedule.NewPool(schedule.Config{
		Workers:     p.cfg.Workers,
		EmptyStreak: p.cfg.EmptyStreak,
		ItemLimit:   p.cfg.ItemLimit,
	})
	rows := pool.Run(ctx, last, p.fetchPage)

	observability.ObserveCollected(source, len(rows))
	log.Info().Str("source", source).Int("reviews", len(rows)).Msg("harvest complete")
	return rows
}

// estimatePages probes the first few pages in order to find how deep
// recent content goes. A failed probe moves on to the next page; an empty
// page, or one where everything is already past the window, ends the
// probe. Returns 0 when the site shows nothing at all.
func (p *Web) estimatePages(ctx context.Context) int {
	source := string(p.Platform())
	limit := p.cfg.EstimationPages
	if limit > p.cfg.MaxPages {
		limit = p.cfg.MaxPages
	}

	est := 0
	for page := 1; page <= limit; page++ {
		if ctx.Err() != nil {
			log.Info().Str("source", source).Msg("shutdown requested during page estimation")
			return 0
		}
		cards, err := p.src.Cards(ctx, page)
		if err != nil {
			continue
		}
		observability.ObservePage(source)
		if len(cards) == 0 {
			break
		}
		est = page

		old := 0
		for _, c := range cards {
			r, ok := normalize.MapWebCard(c)
			if !ok {
				continue
			}
			if !p.win.Contains(r.Date) {
				old++
			}
		}
		if old == len(cards) && page > 2 {
			break
		}
	}
	return est
}

// fetchPage is the scheduler worker: fetch one page, keep what is inside
// the window and new to the run. raw reports how many cards the page held
// before filtering so the scheduler can spot the end of content.
func (p *Web) fetchPage(ctx context.Context, page int) (int, []domain.Review, error) {
	cards, err := p.src.Cards(ctx, page)
	if err != nil {
		return 0, nil, err
	}
	observability.ObservePage(string(p.Platform()))
	if len(cards) == 0 {
		return 0, nil, nil
	}

	var kept []domain.Review
	for _, c := range cards {
		r, ok := normalize.MapWebCard(c)
		if !ok {
			continue
		}
		if !p.win.Contains(r.Date) {
			continue
		}
		if !p.ix.Admit(r, p.cfg.PrefixLen) {
			continue
		}
		kept = append(kept, r)
	}
	return len(cards), kept, nil
}
