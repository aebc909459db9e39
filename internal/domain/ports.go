package domain

import "context"

// Harvester produces the deduplicated, window-filtered reviews of one
// source. Implementations absorb per-page failures as stop conditions and
// return whatever was collected when ctx is cancelled.
type Harvester interface {
	Platform() Platform
	Harvest(ctx context.Context) []Review
}

// Scorer turns review text into a polarity score in [-1,1].
// Empty or blank input scores 0; implementations never fail a call.
type Scorer interface {
	Score(ctx context.Context, text string) float64
	Name() string
}

// Exporter is the downstream consumer of ordered review sequences.
// Serialization is entirely its concern.
type Exporter interface {
	Export(reviews []Review, dest string) error
}
