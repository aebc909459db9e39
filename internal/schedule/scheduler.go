// internal/schedule/scheduler.go

// Package schedule runs page fetches on a bounded worker pool and folds
// the results in completion order.
package schedule

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"review_harvester/internal/domain"
)

// PageResult is what one worker reports for one page. Raw counts items
// before window filtering and dedup; a page that failed outright counts
// as empty.
type PageResult struct {
	Page    int
	Raw     int
	Reviews []domain.Review
	Err     error
}

// FetchFunc fetches and filters one page.
type FetchFunc func(ctx context.Context, page int) (raw int, kept []domain.Review, err error)

type Config struct {
	Workers     int
	EmptyStreak int
	ItemLimit   int
}

// politeWorkerCap bounds the pool no matter what is configured, to stay
// polite to the upstream server.
const politeWorkerCap = 3

type Pool struct {
	cfg Config
}

func NewPool(cfg Config) *Pool {
	if cfg.Workers <= 0 || cfg.Workers > politeWorkerCap {
		cfg.Workers = politeWorkerCap
	}
	if cfg.EmptyStreak <= 0 {
		cfg.EmptyStreak = 3
	}
	if cfg.ItemLimit <= 0 {
		cfg.ItemLimit = 1000
	}
	return &Pool{cfg: cfg}
}

// Run fetches pages 1..lastPage and returns everything accepted before a
// stop: enough consecutive empty pages, the item ceiling exceeded, or
// shutdown. Pages not yet started are then never dispatched; work already
// in flight finishes on its own and its results are discarded.
func (p *Pool) Run(ctx context.Context, lastPage int, fetch FetchFunc) []domain.Review {
	results := make(chan PageResult)
	stop := make(chan struct{})
	sem := semaphore.NewWeighted(int64(p.cfg.Workers))

	go func() {
		var wg sync.WaitGroup
		for page := 1; page <= lastPage; page++ {
			if stopped(stop) || ctx.Err() != nil {
				break
			}
			if err := sem.Acquire(ctx, 1); err != nil {
				break
			}
			if stopped(stop) {
				sem.Release(1)
				break
			}
			wg.Add(1)
			go func(page int) {
				defer wg.Done()
				defer sem.Release(1)
				raw, kept, err := fetch(ctx, page)
				results <- PageResult{Page: page, Raw: raw, Reviews: kept, Err: err}
			}(page)
		}
		wg.Wait()
		close(results)
	}()

	var out []domain.Review
	emptyRun := 0
	done := false
	for res := range results {
		if done {
			continue // drain and discard whatever was still in flight
		}
		if ctx.Err() != nil {
			log.Info().Msg("shutdown requested, cancelling remaining pages")
			close(stop)
			done = true
			continue
		}
		if res.Err != nil {
			log.Warn().Err(res.Err).Int("page", res.Page).Msg("page failed")
		}
		if res.Raw == 0 {
			emptyRun++
			if emptyRun >= p.cfg.EmptyStreak {
				log.Info().Int("pages", emptyRun).Msg("consecutive empty pages, stopping")
				close(stop)
				done = true
				continue
			}
		} else {
			emptyRun = 0
		}
		out = append(out, res.Reviews...)
		if len(out) > p.cfg.ItemLimit {
			log.Info().Int("reviews", len(out)).Msg("item ceiling exceeded, stopping")
			close(stop)
			done = true
		}
	}
	return out
}

func stopped(stop chan struct{}) bool {
	select {
	case <-stop:
		return true
	default:
		return false
	}
}
