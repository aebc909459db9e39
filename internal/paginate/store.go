// internal/paginate/store.go
package paginate

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sethvargo/go-retry"

	"review_harvester/internal/adapters/observability"
	"review_harvester/internal/dedup"
	"review_harvester/internal/domain"
	"review_harvester/internal/normalize"
)

type StoreConfig struct {
	MaxPages             int
	RetryDelay           time.Duration
	MaxConsecutiveErrors int
	LowYieldMin          int
	LowYieldGrace        int
	LowYieldStop         int
	PrefixLen            int
}

// Store walks the continuation-token batches newest-first. The upstream
// API occasionally faults independent of network health, so each batch
// gets one inline retry before counting toward the consecutive-error
// stop, and a low-yield heuristic bounds the walk near the window edge.
type Store struct {
	src ReviewBatcher
	win domain.Window
	ix  *dedup.Index
	cfg StoreConfig
}

func NewStore(src ReviewBatcher, win domain.Window, ix *dedup.Index, cfg StoreConfig) *Store {
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 50
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 2 * time.Second
	}
	if cfg.MaxConsecutiveErrors <= 0 {
		cfg.MaxConsecutiveErrors = 3
	}
	if cfg.LowYieldMin <= 0 {
		cfg.LowYieldMin = 10
	}
	if cfg.LowYieldGrace <= 0 {
		cfg.LowYieldGrace = 5
	}
	if cfg.LowYieldStop <= 0 {
		cfg.LowYieldStop = 10
	}
	if cfg.PrefixLen <= 0 {
		cfg.PrefixLen = 100
	}
	return &Store{src: src, win: win, ix: ix, cfg: cfg}
}

func (p *Store) Platform() domain.Platform { return domain.PlatformStore }

func (p *Store) Harvest(ctx context.Context) []domain.Review {
	source := string(p.Platform())
	var rows []domain.Review
	token := ""
	consecutive := 0

	for page := 1; page <= p.cfg.MaxPages; page++ {
		if ctx.Err() != nil {
			log.Info().Str("source", source).Msg("shutdown requested, stopping harvest")
			break
		}

		var batch []map[string]any
		var next string
		err := retry.Do(ctx, retry.WithMaxRetries(1, retry.NewConstant(p.cfg.RetryDelay)),
			func(ctx context.Context) error {
				b, n, err := p.src.Batch(ctx, token)
				if err != nil {
					return retry.RetryableError(err)
				}
				batch, next = b, n
				return nil
			})
		if err != nil {
			consecutive++
			log.Warn().Err(err).Str("source", source).Int("page", page).
				Int("consecutive", consecutive).Msg("batch failed")
			if consecutive >= p.cfg.MaxConsecutiveErrors {
				log.Error().Str("source", source).Int("consecutive", consecutive).
					Msg("too many consecutive failures, stopping")
				break
			}
			continue
		}
		consecutive = 0

		if len(batch) == 0 {
			log.Info().Str("source", source).Int("page", page).Msg("no more reviews")
			break
		}
		observability.ObservePage(source)

		added := 0
		for _, e := range batch {
			r, ok := normalize.MapStoreEntry(e)
			if !ok {
				continue
			}
			if !p.win.Contains(r.Date) {
				continue
			}
			if !p.ix.Admit(r, p.cfg.PrefixLen) {
				continue
			}
			rows = append(rows, r)
			added++
		}

		if LowYield(added, page, p.cfg.LowYieldMin, p.cfg.LowYieldGrace) {
			log.Info().Str("source", source).Int("added", added).Int("page", page).
				Msg("low yield, probably reaching items past the window")
			if page > p.cfg.LowYieldStop {
				break
			}
		}

		if next == "" {
			log.Info().Str("source", source).Msg("no continuation token, reached the end")
			break
		}
		token = next
	}

	observability.ObserveCollected(source, len(rows))
	log.Info().Str("source", source).Int("reviews", len(rows)).Msg("harvest complete")
	return rows
}
