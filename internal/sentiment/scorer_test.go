package sentiment_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"review_harvester/internal/fetch"
	"review_harvester/internal/sentiment"
)

func seedLexicon(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lexicon.txt")
	if err := os.WriteFile(path, []byte("good\t1.9\nbad\t-2.5\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestNewScorer_LexiconByDefault(t *testing.T) {
	s, err := sentiment.NewScorer(context.Background(), sentiment.Config{
		LexiconPath: seedLexicon(t),
	}, fetch.New(fetch.Config{}, "lexicon"))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if s.Name() != "lexicon/vader" {
		t.Fatalf("unexpected backend: %s", s.Name())
	}
	if got := s.Score(context.Background(), "good"); got <= 0 {
		t.Fatalf("expected positive score, got %v", got)
	}
}

func TestNewScorer_NeuralWhenHealthy(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"label":"POSITIVE","score":0.8}]`))
	}))
	defer ts.Close()

	s, err := sentiment.NewScorer(context.Background(), sentiment.Config{
		UseNeural:      true,
		NeuralEndpoint: ts.URL,
		LexiconPath:    seedLexicon(t),
	}, fetch.New(fetch.Config{}, "lexicon"))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if s.Name() != "neural/sst2" {
		t.Fatalf("unexpected backend: %s", s.Name())
	}
}

func TestNewScorer_FallsBackWhenNeuralIsDown(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close()

	s, err := sentiment.NewScorer(context.Background(), sentiment.Config{
		UseNeural:      true,
		NeuralEndpoint: ts.URL,
		LexiconPath:    seedLexicon(t),
	}, fetch.New(fetch.Config{}, "lexicon"))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if s.Name() != "lexicon/vader" {
		t.Fatalf("expected lexicon fallback, got %s", s.Name())
	}
}
