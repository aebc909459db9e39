package normalize_test

import (
	"testing"
	"time"

	"review_harvester/internal/domain"
	"review_harvester/internal/normalize"
)

func feedEntry(rating any, content, updated, title, author string) map[string]any {
	e := map[string]any{
		"im:rating": map[string]any{"label": rating},
		"content":   map[string]any{"label": content},
		"updated":   map[string]any{"label": updated},
		"title":     map[string]any{"label": title},
		"author":    map[string]any{"name": map[string]any{"label": author}},
	}
	return e
}

func TestMapFeedEntry(t *testing.T) {
	r, ok := normalize.MapFeedEntry(feedEntry("4", "Great   app,\nworks well", "2025-03-14T12:30:00-07:00", "Nice", "Jane Doe"))
	if !ok {
		t.Fatalf("expected entry to map")
	}
	if r.Rating != 4 {
		t.Fatalf("rating: %d", r.Rating)
	}
	if r.Text != "Great app, works well" {
		t.Fatalf("text not cleaned: %q", r.Text)
	}
	if r.Reviewer != "J.D." {
		t.Fatalf("reviewer: %q", r.Reviewer)
	}
	if r.Platform != domain.PlatformFeed {
		t.Fatalf("platform: %q", r.Platform)
	}
	// offset timestamps land on their UTC calendar day, time-of-day dropped
	if !r.Date.Equal(time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("date: %v", r.Date)
	}
}

func TestMapFeedEntry_OffsetCrossesMidnight(t *testing.T) {
	// 20:30 -07:00 is 03:30 UTC the next day
	r, ok := normalize.MapFeedEntry(feedEntry("4", "fine", "2025-03-14T20:30:00-07:00", "", ""))
	if !ok {
		t.Fatalf("expected entry to map")
	}
	if !r.Date.Equal(time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("date: %v", r.Date)
	}
}

func TestMapFeedEntry_ClampsRating(t *testing.T) {
	r, ok := normalize.MapFeedEntry(feedEntry("7", "fine", "2025-03-14", "", ""))
	if !ok || r.Rating != 5 {
		t.Fatalf("high rating should clamp to 5, got %d ok=%v", r.Rating, ok)
	}
	r, ok = normalize.MapFeedEntry(feedEntry("0", "fine", "2025-03-14", "", ""))
	if !ok || r.Rating != 1 {
		t.Fatalf("low rating should clamp to 1, got %d ok=%v", r.Rating, ok)
	}
}

func TestMapFeedEntry_TitleFallback(t *testing.T) {
	r, ok := normalize.MapFeedEntry(feedEntry("3", "", "2025-03-14", "  Just the  title ", ""))
	if !ok || r.Text != "Just the title" {
		t.Fatalf("expected title fallback, got %q ok=%v", r.Text, ok)
	}
}

func TestMapFeedEntry_Skips(t *testing.T) {
	cases := []struct {
		name string
		e    map[string]any
	}{
		{"no rating and no content", feedEntry(nil, "", "2025-03-14", "t", "a")},
		{"non-numeric rating", feedEntry("five", "text", "2025-03-14", "", "")},
		{"no timestamp", feedEntry("4", "text", "", "", "")},
		{"unparsable timestamp", feedEntry("4", "text", "not a date", "", "")},
		{"no text anywhere", feedEntry("4", "", "2025-03-14", "", "")},
	}
	for _, tc := range cases {
		if _, ok := normalize.MapFeedEntry(tc.e); ok {
			t.Fatalf("%s: expected skip", tc.name)
		}
	}
}

func TestMapFeedEntry_AnonymousAuthor(t *testing.T) {
	r, ok := normalize.MapFeedEntry(feedEntry("5", "ok", "2025-03-14", "", ""))
	if !ok || r.Reviewer != "A." {
		t.Fatalf("missing author should become A., got %q", r.Reviewer)
	}
}
