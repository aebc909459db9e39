// internal/export/csv.go

// Package export writes harvested reviews to downstream artifacts.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog/log"

	"review_harvester/internal/domain"
)

// Writer saves reviews as UTF-8 CSV. Rows are written in the order given;
// sorting is the caller's call.
type Writer struct{}

var baseHeader = []string{"review_date", "star_rating", "reviewer_anonymized", "review_text", "platform"}

// Export writes rows to dest. The sentiment columns appear when the rows
// carry analysis. Nothing to write leaves no file behind.
func (Writer) Export(rows []domain.Review, dest string) error {
	if len(rows) == 0 {
		log.Info().Str("file", dest).Msg("no reviews to save")
		return nil
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	w := csv.NewWriter(f)

	withSentiment := rows[0].SentimentScore != nil
	header := baseHeader
	if withSentiment {
		header = append(append(make([]string, 0, len(baseHeader)+2), baseHeader...),
			"sentiment_score", "sentiment_label")
	}
	if err := w.Write(header); err != nil {
		f.Close()
		return err
	}

	for _, r := range rows {
		rec := []string{r.DateISO(), strconv.Itoa(r.Rating), r.Reviewer, r.Text, string(r.Platform)}
		if withSentiment {
			var score, label string
			if r.SentimentScore != nil {
				score = strconv.FormatFloat(*r.SentimentScore, 'f', 4, 64)
			}
			if r.SentimentLabel != nil {
				label = string(*r.SentimentLabel)
			}
			rec = append(rec, score, label)
		}
		if err := w.Write(rec); err != nil {
			f.Close()
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", dest, err)
	}
	log.Info().Int("reviews", len(rows)).Str("file", dest).Msg("reviews saved")
	return nil
}
