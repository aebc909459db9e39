// internal/app/analyze.go
package app

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"review_harvester/internal/domain"
	"review_harvester/internal/sentiment"
)

// Analyze attaches a sentiment score and label to every review.
func Analyze(ctx context.Context, rows []domain.Review, scorer domain.Scorer, t sentiment.Thresholds) []domain.Review {
	log.Info().Int("reviews", len(rows)).Str("backend", scorer.Name()).Msg("analyzing reviews")
	out := make([]domain.Review, len(rows))
	for i, r := range rows {
		score := scorer.Score(ctx, r.Text)
		label := sentiment.LabelFromScore(score, t)
		r.SentimentScore = &score
		r.SentimentLabel = &label
		out[i] = r
	}
	return out
}

// SortReviews orders rows newest first, higher ratings first within a day.
func SortReviews(rows []domain.Review) {
	sort.SliceStable(rows, func(i, j int) bool {
		if d := strings.Compare(rows[i].DateISO(), rows[j].DateISO()); d != 0 {
			return d > 0
		}
		return rows[i].Rating > rows[j].Rating
	})
}
