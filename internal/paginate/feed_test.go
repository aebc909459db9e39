package paginate_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"review_harvester/internal/dedup"
	"review_harvester/internal/domain"
	"review_harvester/internal/paginate"
)

// ---- fakes ----

type fakeFeed struct {
	pages   [][]map[string]any
	fetched int
	onPage  func(page int)
}

func (f *fakeFeed) Page(ctx context.Context, page int) ([]map[string]any, error) {
	f.fetched++
	if f.onPage != nil {
		f.onPage(page)
	}
	if page > len(f.pages) {
		return nil, nil
	}
	return f.pages[page-1], nil
}

func feedEntry(updated, rating, content string) map[string]any {
	return map[string]any{
		"im:rating": map[string]any{"label": rating},
		"content":   map[string]any{"label": content},
		"updated":   map[string]any{"label": updated},
		"author":    map[string]any{"name": map[string]any{"label": "Jane Doe"}},
	}
}

func stamp(daysAgo int) string {
	return time.Now().UTC().Add(-time.Duration(daysAgo) * 24 * time.Hour).Format(time.RFC3339)
}

func testWindow() domain.Window {
	return domain.NewWindow(time.Now(), 365)
}

// ---- tests ----

func TestFeedHarvest_StopsPastWindow(t *testing.T) {
	src := &fakeFeed{pages: [][]map[string]any{
		{feedEntry(stamp(10), "5", "recent one"), feedEntry(stamp(20), "4", "recent two")},
		{feedEntry(stamp(400), "3", "old one"), feedEntry(stamp(410), "2", "old two")},
		{feedEntry(stamp(500), "1", "never reached")},
	}}

	p := paginate.NewFeed(src, testWindow(), dedup.NewIndex(), paginate.FeedConfig{})
	out := p.Harvest(context.Background())

	if len(out) != 2 {
		t.Fatalf("expected the 2 recent reviews, got %d", len(out))
	}
	if src.fetched != 2 {
		t.Fatalf("page 3 should never be fetched, got %d fetches", src.fetched)
	}
}

func TestFeedHarvest_EmptyPageStops(t *testing.T) {
	src := &fakeFeed{pages: [][]map[string]any{
		{feedEntry(stamp(5), "5", "only page")},
		{},
		{feedEntry(stamp(6), "5", "unreachable")},
	}}

	p := paginate.NewFeed(src, testWindow(), dedup.NewIndex(), paginate.FeedConfig{})
	out := p.Harvest(context.Background())

	if len(out) != 1 {
		t.Fatalf("expected 1 review, got %d", len(out))
	}
	if src.fetched != 2 {
		t.Fatalf("expected 2 fetches, got %d", src.fetched)
	}
}

func TestFeedHarvest_DeduplicatesAcrossPages(t *testing.T) {
	dup := feedEntry(stamp(8), "4", "same text both pages")
	src := &fakeFeed{pages: [][]map[string]any{
		{dup, feedEntry(stamp(9), "5", "unique")},
		{dup},
		{},
	}}

	p := paginate.NewFeed(src, testWindow(), dedup.NewIndex(), paginate.FeedConfig{})
	out := p.Harvest(context.Background())

	if len(out) != 2 {
		t.Fatalf("expected duplicate collapsed to 2 reviews, got %d", len(out))
	}
}

func TestFeedHarvest_PageCeiling(t *testing.T) {
	var pages [][]map[string]any
	for i := 0; i < 30; i++ {
		pages = append(pages, []map[string]any{feedEntry(stamp(i+1), "5", fmt.Sprintf("review %d", i))})
	}
	src := &fakeFeed{pages: pages}

	p := paginate.NewFeed(src, testWindow(), dedup.NewIndex(), paginate.FeedConfig{MaxPages: 3})
	out := p.Harvest(context.Background())

	if src.fetched != 3 {
		t.Fatalf("expected the ceiling to hold at 3 fetches, got %d", src.fetched)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 reviews, got %d", len(out))
	}
}

func TestFeedHarvest_UnmappableEntriesSkipped(t *testing.T) {
	src := &fakeFeed{pages: [][]map[string]any{
		{
			feedEntry(stamp(5), "5", "good entry"),
			feedEntry("", "5", "no timestamp"),
			feedEntry(stamp(5), "not-a-number", "bad rating"),
		},
		{},
	}}

	p := paginate.NewFeed(src, testWindow(), dedup.NewIndex(), paginate.FeedConfig{})
	out := p.Harvest(context.Background())

	if len(out) != 1 {
		t.Fatalf("expected only the mappable entry, got %d", len(out))
	}
}

func TestFeedHarvest_CancelKeepsPartial(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := &fakeFeed{pages: [][]map[string]any{
		{feedEntry(stamp(1), "5", "page one")},
		{feedEntry(stamp(2), "5", "page two")},
		{feedEntry(stamp(3), "5", "page three")},
	}}
	src.onPage = func(page int) {
		if page == 2 {
			cancel()
		}
	}

	p := paginate.NewFeed(src, testWindow(), dedup.NewIndex(), paginate.FeedConfig{})
	out := p.Harvest(ctx)

	// page 2 was already in flight; page 3 must not start
	if src.fetched != 2 {
		t.Fatalf("expected harvesting to stop after 2 fetches, got %d", src.fetched)
	}
	if len(out) != 2 {
		t.Fatalf("expected the collected pages kept, got %d", len(out))
	}
}
