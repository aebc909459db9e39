//go:build integration || !unit

package integration

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"review_harvester/internal/adapters/feedapi"
	"review_harvester/internal/adapters/storeapi"
	"review_harvester/internal/adapters/webreviews"
	"review_harvester/internal/app"
	"review_harvester/internal/dedup"
	"review_harvester/internal/domain"
	"review_harvester/internal/export"
	"review_harvester/internal/fetch"
	"review_harvester/internal/paginate"
	"review_harvester/internal/sentiment"
)

// ---------- helpers ----------

func stamp(daysAgo int) string {
	return time.Now().UTC().Add(-time.Duration(daysAgo) * 24 * time.Hour).Format(time.RFC3339)
}

func feedEntry(daysAgo int, rating, content string) map[string]any {
	return map[string]any{
		"im:rating": map[string]any{"label": rating},
		"content":   map[string]any{"label": content},
		"updated":   map[string]any{"label": stamp(daysAgo)},
		"author":    map[string]any{"name": map[string]any{"label": "Jane Doe"}},
	}
}

func storeItem(daysAgo int, score int, content string) map[string]any {
	return map[string]any{
		"at":       stamp(daysAgo),
		"score":    score,
		"userName": "John Smith",
		"content":  content,
	}
}

func webCard(daysAgo, rating int, text string) string {
	return fmt.Sprintf(`<article>
	  <img alt="Rated %d out of 5"/>
	  <time datetime="%s"></time>
	  <div data-testid="review-content"><p>%s</p></div>
	  <span>Sam Client</span>
	</article>`, rating, stamp(daysAgo), text)
}

func webPage(cards ...string) string {
	body := ""
	for _, c := range cards {
		body += c
	}
	return `<html><body><section data-testid="reviews-list">` + body + `</section></body></html>`
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func fastFetch(accept, source string) *fetch.Client {
	return fetch.New(fetch.Config{
		Timeout:     2 * time.Second,
		BackoffBase: time.Millisecond,
		Accept:      accept,
	}, source)
}

// ---------- fake upstreams ----------

func feedServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch atomic.AddInt32(hits, 1) {
		case 1:
			writeJSON(w, map[string]any{"feed": map[string]any{"entry": []any{
				feedEntry(10, "5", "Love this app, works perfectly"),
				feedEntry(20, "4", "Pretty good overall"),
			}}})
		case 2:
			// everything on page 2 is past the window
			writeJSON(w, map[string]any{"feed": map[string]any{"entry": []any{
				feedEntry(400, "3", "Ancient review"),
			}}})
		default:
			writeJSON(w, map[string]any{"feed": map[string]any{}})
		}
	}))
}

func storeServer(t *testing.T) *httptest.Server {
	t.Helper()
	dup := storeItem(5, 5, "Excellent, five stars")
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("token") {
		case "":
			writeJSON(w, map[string]any{
				"reviews":   []any{dup, storeItem(6, 1, "Terrible after the update")},
				"nextToken": "T2",
			})
		case "T2":
			writeJSON(w, map[string]any{
				"reviews":   []any{dup, storeItem(7, 3, "It does the job")},
				"nextToken": "",
			})
		default:
			writeJSON(w, map[string]any{"reviews": []any{}})
		}
	}))
}

func webServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "", "1":
			_, _ = w.Write([]byte(webPage(
				webCard(1, 5, "Great support experience"),
				webCard(2, 2, "Slow to respond lately"),
			)))
		case "2":
			_, _ = w.Write([]byte(webPage(webCard(3, 4, "Mostly reliable"))))
		default:
			_, _ = w.Write([]byte(webPage()))
		}
	}))
}

// ---------- the test ----------

func TestHarvest_EndToEnd(t *testing.T) {
	var feedHits int32
	feedTS := feedServer(t, &feedHits)
	defer feedTS.Close()
	storeTS := storeServer(t)
	defer storeTS.Close()
	webTS := webServer(t)
	defer webTS.Close()

	win := domain.NewWindow(time.Now(), 365)
	sources := []domain.Harvester{
		paginate.NewFeed(
			feedapi.New(fastFetch(fetch.AcceptJSON, "feed-source"), feedTS.URL, "us", "123456789"),
			win, dedup.NewIndex(), paginate.FeedConfig{MaxPages: 5},
		),
		paginate.NewStore(
			storeapi.New(fastFetch(fetch.AcceptJSON, "store-source"), storeTS.URL, "com.example.app", "en", "us", 100),
			win, dedup.NewIndex(), paginate.StoreConfig{RetryDelay: time.Millisecond},
		),
		paginate.NewWeb(
			webreviews.New(fastFetch("", "web-source"), webTS.URL),
			win, dedup.NewIndex(), paginate.WebConfig{MaxPages: 3, Workers: 1},
		),
	}

	progress := app.NewProgress()
	progress.StartRun()
	byPlatform := app.NewEngine(sources, progress).Run(context.Background())
	progress.FinishRun()

	// feed: 2 recent reviews, the all-old page 2 ends the walk
	if got := len(byPlatform[domain.PlatformFeed]); got != 2 {
		t.Fatalf("feed reviews: %d", got)
	}
	if atomic.LoadInt32(&feedHits) != 2 {
		t.Fatalf("feed page 3 should never be requested, got %d hits", feedHits)
	}
	// store: 4 items served, one duplicated across batches
	if got := len(byPlatform[domain.PlatformStore]); got != 3 {
		t.Fatalf("store reviews: %d", got)
	}
	// web: 3 cards across two pages
	if got := len(byPlatform[domain.PlatformWeb]); got != 3 {
		t.Fatalf("web reviews: %d", got)
	}

	s := progress.Snapshot()
	if s.State != "done" || s.Collected["store-source"] != 3 {
		t.Fatalf("unexpected progress: %+v", s)
	}

	// ---------- analysis and export ----------

	var all []domain.Review
	for _, pl := range []domain.Platform{domain.PlatformFeed, domain.PlatformStore, domain.PlatformWeb} {
		all = append(all, byPlatform[pl]...)
	}

	scorer := sentiment.NewLexicon(map[string]float64{
		"love": 3.2, "great": 3.1, "good": 1.9, "excellent": 2.7,
		"terrible": -2.1, "slow": -1.2,
	})
	analyzed := app.Analyze(context.Background(), all, scorer, sentiment.DefaultThresholds())
	app.SortReviews(analyzed)

	dir := t.TempDir()
	var w export.Writer
	dest := filepath.Join(dir, "reviews_analysis.csv")
	if err := w.Export(analyzed, dest); err != nil {
		t.Fatalf("export: %v", err)
	}

	f, err := os.Open(dest)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	recs, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(recs) != 9 {
		t.Fatalf("expected header plus 8 rows, got %d", len(recs))
	}
	if len(recs[0]) != 7 {
		t.Fatalf("expected sentiment columns in the analysis file: %v", recs[0])
	}

	// newest first
	for i := 2; i < len(recs); i++ {
		if recs[i][0] > recs[i-1][0] {
			t.Fatalf("rows out of order: %s after %s", recs[i][0], recs[i-1][0])
		}
	}

	// the known-positive review carries a good label
	found := false
	for _, rec := range recs[1:] {
		if rec[3] == "Love this app, works perfectly" {
			found = true
			if rec[6] != "good" {
				t.Fatalf("expected a good label, got %q", rec[6])
			}
		}
	}
	if !found {
		t.Fatalf("seeded review missing from the export")
	}
}
