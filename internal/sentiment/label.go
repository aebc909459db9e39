// internal/sentiment/label.go
package sentiment

import "review_harvester/internal/domain"

// Thresholds split the [-1,1] score range into the three labels.
type Thresholds struct {
	Good float64
	Bad  float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{Good: 0.25, Bad: -0.25}
}

// LabelFromScore maps a score to good/neutral/bad. Boundary values land on
// the non-neutral side.
func LabelFromScore(score float64, t Thresholds) domain.Label {
	if score >= t.Good {
		return domain.LabelGood
	}
	if score <= t.Bad {
		return domain.LabelBad
	}
	return domain.LabelNeutral
}
