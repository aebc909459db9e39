// internal/app/harvester.go
package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"review_harvester/internal/domain"
)

// Engine runs the enabled sources in turn. One source blowing up must
// never take the others down with it.
type Engine struct {
	sources  []domain.Harvester
	progress *Progress
}

func NewEngine(sources []domain.Harvester, progress *Progress) *Engine {
	return &Engine{sources: sources, progress: progress}
}

// Run harvests each source sequentially. A source that panics contributes
// an empty result; shutdown skips the sources not yet started but keeps
// everything already collected.
func (e *Engine) Run(ctx context.Context) map[domain.Platform][]domain.Review {
	out := make(map[domain.Platform][]domain.Review, len(e.sources))
	for _, src := range e.sources {
		if ctx.Err() != nil {
			log.Info().Msg("shutdown requested, skipping remaining sources")
			break
		}
		e.progress.StartSource(src.Platform())
		rows := e.harvestOne(ctx, src)
		out[src.Platform()] = rows
		e.progress.FinishSource(src.Platform(), len(rows))
	}
	return out
}

func (e *Engine) harvestOne(ctx context.Context, src domain.Harvester) (rows []domain.Review) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("source", string(src.Platform())).
				Msg("source harvest failed, contributing empty result")
			rows = nil
		}
	}()
	log.Info().Str("source", string(src.Platform())).Msg("harvesting")
	return src.Harvest(ctx)
}
