package domain

import (
	"errors"
	"strings"
	"time"
)

// Platform identifies where a review was harvested from.
type Platform string

const (
	PlatformFeed  Platform = "feed-source"
	PlatformStore Platform = "store-source"
	PlatformWeb   Platform = "web-source"
)

// Label is the three-way sentiment bucket derived from a polarity score.
type Label string

const (
	LabelGood    Label = "good"
	LabelNeutral Label = "neutral"
	LabelBad     Label = "bad"
)

// Review is one normalized user review. Values are immutable once built,
// except for the sentiment fields attached additively after harvesting.
type Review struct {
	Date     time.Time // calendar date at midnight UTC
	Rating   int       // 1..5
	Reviewer string    // initials only; "A." when unknown
	Text     string
	Platform Platform

	SentimentScore *float64
	SentimentLabel *Label
}

var (
	ErrRatingRange = errors.New("star rating outside 1..5")
	ErrEmptyText   = errors.New("empty review text")
	ErrNoDate      = errors.New("missing review date")
)

// Day truncates a timestamp to its calendar date, midnight UTC. Review
// dates carry no time-of-day; sources report timestamps at varying
// precision and the same review must fingerprint identically everywhere.
func Day(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func (r Review) Validate() error {
	if r.Rating < 1 || r.Rating > 5 {
		return ErrRatingRange
	}
	if strings.TrimSpace(r.Text) == "" {
		return ErrEmptyText
	}
	if r.Date.IsZero() {
		return ErrNoDate
	}
	return nil
}

// DateISO renders the review date as 2006-01-02.
func (r Review) DateISO() string { return r.Date.Format("2006-01-02") }

// Fingerprint is the intra-run deduplication key. Genuinely distinct long
// reviews sharing a prefix may collide; accepted approximation.
type Fingerprint struct {
	Date   string
	Rating int
	Prefix string
}

// FingerprintOf derives the dedup key from the date, the rating and the
// first n runes of the text.
func FingerprintOf(r Review, n int) Fingerprint {
	text := r.Text
	if runes := []rune(text); len(runes) > n {
		text = string(runes[:n])
	}
	return Fingerprint{Date: r.DateISO(), Rating: r.Rating, Prefix: text}
}
