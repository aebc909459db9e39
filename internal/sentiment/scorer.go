// internal/sentiment/scorer.go
package sentiment

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"review_harvester/internal/domain"
	"review_harvester/internal/fetch"
)

type Config struct {
	UseNeural      bool
	NeuralEndpoint string
	NeuralMaxChars int
	NeuralTimeout  time.Duration
	LexiconURL     string
	LexiconPath    string
}

// NewScorer picks the scoring backend once, up front. With UseNeural set
// it probes the endpoint and quietly falls back to the lexicon when the
// probe fails; after construction the choice is fixed for the run.
func NewScorer(ctx context.Context, cfg Config, f *fetch.Client) (domain.Scorer, error) {
	if cfg.UseNeural {
		n, err := NewNeural(ctx, NeuralConfig{
			Endpoint: cfg.NeuralEndpoint,
			MaxChars: cfg.NeuralMaxChars,
			Timeout:  cfg.NeuralTimeout,
		})
		if err == nil {
			log.Info().Str("backend", n.Name()).Msg("sentiment backend ready")
			return n, nil
		}
		log.Warn().Err(err).Msg("neural backend unavailable, falling back to lexicon")
	}

	if err := EnsureLexicon(ctx, cfg.LexiconPath, cfg.LexiconURL, f); err != nil {
		return nil, err
	}
	valences, err := LoadLexicon(cfg.LexiconPath)
	if err != nil {
		return nil, err
	}
	l := NewLexicon(valences)
	log.Info().Str("backend", l.Name()).Int("terms", len(valences)).Msg("sentiment backend ready")
	return l, nil
}
