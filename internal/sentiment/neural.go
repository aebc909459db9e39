// internal/sentiment/neural.go
package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type NeuralConfig struct {
	Endpoint string
	MaxChars int
	Timeout  time.Duration
}

// Neural scores text against a hosted sentiment-classification endpoint
// (POST {"inputs": text} -> [{"label","score"},...]). It is opt-in; the
// factory probes it once at construction and never falls back afterwards.
type Neural struct {
	hc       *http.Client
	endpoint string
	maxChars int
}

func NewNeural(ctx context.Context, cfg NeuralConfig) (*Neural, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("neural endpoint not configured")
	}
	if cfg.MaxChars <= 0 {
		cfg.MaxChars = 4096
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	n := &Neural{
		hc:       &http.Client{Timeout: cfg.Timeout},
		endpoint: cfg.Endpoint,
		maxChars: cfg.MaxChars,
	}
	// capability probe; a dead endpoint fails construction, not the run
	if _, err := n.classify(ctx, "ok"); err != nil {
		return nil, fmt.Errorf("neural probe: %w", err)
	}
	return n, nil
}

func (n *Neural) Name() string { return "neural/sst2" }

// Score returns the top label's probability, negated for NEGATIVE. Long
// text is truncated; a failed call scores neutral rather than aborting
// the batch.
func (n *Neural) Score(ctx context.Context, text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	if r := []rune(text); len(r) > n.maxChars {
		text = string(r[:n.maxChars])
	}
	s, err := n.classify(ctx, text)
	if err != nil {
		log.Warn().Err(err).Msg("neural scoring failed, using neutral")
		return 0
	}
	return s
}

type prediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

func (n *Neural) classify(ctx context.Context, text string) (float64, error) {
	body, err := json.Marshal(map[string]string{"inputs": text})
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.hc.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return 0, fmt.Errorf("endpoint returned %d", resp.StatusCode)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, err
	}

	// Servers answer either [[{label,score},...]] or [{label,score},...].
	var preds []prediction
	var nested [][]prediction
	if err := json.Unmarshal(b, &nested); err == nil && len(nested) > 0 {
		preds = nested[0]
	} else if err := json.Unmarshal(b, &preds); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}
	if len(preds) == 0 {
		return 0, fmt.Errorf("empty response")
	}
	best := preds[0]
	for _, p := range preds[1:] {
		if p.Score > best.Score {
			best = p
		}
	}
	if strings.EqualFold(best.Label, "POSITIVE") {
		return best.Score, nil
	}
	return -best.Score, nil
}
