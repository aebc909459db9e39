package schedule_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"review_harvester/internal/domain"
	"review_harvester/internal/schedule"
)

func pageReviews(page, n int) []domain.Review {
	out := make([]domain.Review, n)
	for i := range out {
		out[i] = domain.Review{
			Date:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			Rating: 5,
			Text:   fmt.Sprintf("page %d review %d", page, i),
		}
	}
	return out
}

// pageLog records which pages were actually fetched.
type pageLog struct {
	mu    sync.Mutex
	pages []int
}

func (l *pageLog) add(p int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pages = append(l.pages, p)
}

func (l *pageLog) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pages)
}

func TestRun_CollectsAllPages(t *testing.T) {
	var lg pageLog
	pool := schedule.NewPool(schedule.Config{Workers: 1})
	out := pool.Run(context.Background(), 4, func(ctx context.Context, page int) (int, []domain.Review, error) {
		lg.add(page)
		return 2, pageReviews(page, 2), nil
	})

	if len(out) != 8 {
		t.Fatalf("expected 8 reviews, got %d", len(out))
	}
	if lg.count() != 4 {
		t.Fatalf("expected 4 pages fetched, got %d", lg.count())
	}
}

func TestRun_StopsAfterEmptyStreak(t *testing.T) {
	var lg pageLog
	pool := schedule.NewPool(schedule.Config{Workers: 1, EmptyStreak: 3})
	out := pool.Run(context.Background(), 100, func(ctx context.Context, page int) (int, []domain.Review, error) {
		lg.add(page)
		if page <= 2 {
			return 1, pageReviews(page, 1), nil
		}
		return 0, nil, nil
	})

	// pages 3,4,5 are empty; the stop lands there, far before page 100
	if len(out) != 2 {
		t.Fatalf("expected the 2 early reviews, got %d", len(out))
	}
	if n := lg.count(); n > 7 {
		t.Fatalf("kept fetching after the empty streak: %d pages", n)
	}
}

func TestRun_NonEmptyPageResetsStreak(t *testing.T) {
	pool := schedule.NewPool(schedule.Config{Workers: 1, EmptyStreak: 3})
	out := pool.Run(context.Background(), 9, func(ctx context.Context, page int) (int, []domain.Review, error) {
		// alternate empty and non-empty; the streak never reaches 3
		if page%2 == 0 {
			return 0, nil, nil
		}
		return 1, pageReviews(page, 1), nil
	})
	if len(out) != 5 {
		t.Fatalf("expected all 5 odd pages collected, got %d", len(out))
	}
}

func TestRun_ItemCeiling(t *testing.T) {
	var lg pageLog
	pool := schedule.NewPool(schedule.Config{Workers: 1, ItemLimit: 10})
	out := pool.Run(context.Background(), 100, func(ctx context.Context, page int) (int, []domain.Review, error) {
		lg.add(page)
		return 6, pageReviews(page, 6), nil
	})

	// the page that crossed the ceiling is kept whole
	if len(out) != 12 {
		t.Fatalf("expected 12 reviews, got %d", len(out))
	}
	if n := lg.count(); n > 4 {
		t.Fatalf("kept fetching after the ceiling: %d pages", n)
	}
}

func TestRun_FailedPagesCountAsEmpty(t *testing.T) {
	var lg pageLog
	pool := schedule.NewPool(schedule.Config{Workers: 1, EmptyStreak: 2})
	out := pool.Run(context.Background(), 100, func(ctx context.Context, page int) (int, []domain.Review, error) {
		lg.add(page)
		return 0, nil, fmt.Errorf("boom on page %d", page)
	})

	if len(out) != 0 {
		t.Fatalf("expected nothing collected, got %d", len(out))
	}
	if n := lg.count(); n > 4 {
		t.Fatalf("failures should feed the empty streak, fetched %d pages", n)
	}
}

func TestRun_CancelDropsInFlightPages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pool := schedule.NewPool(schedule.Config{Workers: 1})
	out := pool.Run(ctx, 100, func(ctx context.Context, page int) (int, []domain.Review, error) {
		if page == 3 {
			cancel()
		}
		return 2, pageReviews(page, 2), nil
	})

	// everything from page 3 on is in flight during the cancel and dropped
	if len(out) > 4 {
		t.Fatalf("kept reviews fetched after cancellation: %d", len(out))
	}
	for _, r := range out {
		if !strings.HasPrefix(r.Text, "page 1 ") && !strings.HasPrefix(r.Text, "page 2 ") {
			t.Fatalf("review from a cancelled page leaked: %q", r.Text)
		}
	}
}

func TestRun_CapsWorkers(t *testing.T) {
	var cur, peak int32
	pool := schedule.NewPool(schedule.Config{Workers: 0}) // 0 means the polite cap
	_ = pool.Run(context.Background(), 9, func(ctx context.Context, page int) (int, []domain.Review, error) {
		n := atomic.AddInt32(&cur, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt32(&cur, -1)
		return 1, pageReviews(page, 1), nil
	})

	if p := atomic.LoadInt32(&peak); p > 3 {
		t.Fatalf("worker cap exceeded: %d", p)
	}
	if p := atomic.LoadInt32(&peak); p < 2 {
		t.Fatalf("pages never overlapped, peak %d", p)
	}
}
