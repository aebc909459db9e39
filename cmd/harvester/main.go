package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"review_harvester/internal/adapters/feedapi"
	server "review_harvester/internal/adapters/http_server"
	"review_harvester/internal/adapters/observability"
	"review_harvester/internal/adapters/storeapi"
	"review_harvester/internal/adapters/webreviews"
	"review_harvester/internal/app"
	"review_harvester/internal/dedup"
	"review_harvester/internal/domain"
	"review_harvester/internal/export"
	"review_harvester/internal/fetch"
	"review_harvester/internal/paginate"
	"review_harvester/internal/sentiment"
	"review_harvester/internal/shared"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuration invalid")
	}

	// first signal stops harvesting cooperatively, a second one kills
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	observability.Serve()

	log.Info().
		Bool("feed", cfg.FeedEnabled).
		Bool("store", cfg.StoreEnabled).
		Bool("web", cfg.WebEnabled).
		Str("mode", cfg.OutputMode).
		Bool("single_file", cfg.OutputSingleFile).
		Msg("harvester starting")

	progress := app.NewProgress()

	// optional ops server for health, status and metrics
	var opsSrv *http.Server
	if cfg.HTTPAddr != "" {
		srv := server.New()
		reg := observability.InitRegistry()
		srv.Mount("/metrics", observability.MetricsHandler(reg))
		srv.MountHandlers(&server.Handlers{Progress: progress})
		opsSrv = &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			log.Info().Str("addr", cfg.HTTPAddr).Msg("ops server listening")
			if err := opsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("ops server failed")
			}
		}()
	}

	// one window for the whole run
	win := domain.NewWindow(time.Now(), cfg.WindowDays)
	log.Info().Time("cutoff", win.Cutoff).Msg("harvest window")

	fetchCfg := func(accept string) fetch.Config {
		return fetch.Config{
			Timeout:           cfg.RequestTimeout,
			MaxRetries:        cfg.MaxRetries,
			BackoffBase:       cfg.BackoffBase,
			BackoffMultiplier: cfg.BackoffMultiplier,
			Pause:             cfg.RequestPause,
			Accept:            accept,
		}
	}

	var sources []domain.Harvester
	if cfg.FeedEnabled {
		fc := fetch.New(fetchCfg(fetch.AcceptJSON), string(domain.PlatformFeed))
		src := feedapi.New(fc, cfg.FeedBase, cfg.FeedCountry, cfg.FeedAppID)
		sources = append(sources, paginate.NewFeed(src, win, dedup.NewIndex(), paginate.FeedConfig{
			MaxPages:  cfg.FeedMaxPages,
			PrefixLen: cfg.PrefixLen,
		}))
	}
	if cfg.StoreEnabled {
		fc := fetch.New(fetchCfg(fetch.AcceptJSON), string(domain.PlatformStore))
		src := storeapi.New(fc, cfg.StoreBase, cfg.StoreAppID, cfg.StoreLocale, cfg.StoreCountry, cfg.StoreBatchSize)
		sources = append(sources, paginate.NewStore(src, win, dedup.NewIndex(), paginate.StoreConfig{
			MaxPages:             cfg.StoreMaxPages,
			RetryDelay:           cfg.StoreRetryDelay,
			MaxConsecutiveErrors: cfg.StoreMaxConsecutive,
			LowYieldMin:          cfg.StoreLowYieldMin,
			LowYieldGrace:        cfg.StoreLowYieldGrace,
			LowYieldStop:         cfg.StoreLowYieldStop,
			PrefixLen:            cfg.PrefixLen,
		}))
	}
	if cfg.WebEnabled {
		fc := fetch.New(fetchCfg(""), string(domain.PlatformWeb))
		src := webreviews.New(fc, cfg.WebBase)
		sources = append(sources, paginate.NewWeb(src, win, dedup.NewIndex(), paginate.WebConfig{
			MaxPages:        cfg.WebMaxPages,
			EstimationPages: cfg.WebEstimationPages,
			PageMargin:      cfg.WebPageMargin,
			ItemLimit:       cfg.WebItemLimit,
			Workers:         cfg.WebWorkers,
			EmptyStreak:     cfg.WebEmptyStreak,
			PrefixLen:       cfg.WebPrefixLen,
		}))
	}

	// pick the sentiment backend up front so a broken setup fails before
	// any scraping happens
	var scorer domain.Scorer
	if cfg.OutputMode != shared.OutputRaw {
		fc := fetch.New(fetchCfg(""), "lexicon")
		s, err := sentiment.NewScorer(ctx, sentiment.Config{
			UseNeural:      cfg.UseNeural,
			NeuralEndpoint: cfg.NeuralEndpoint,
			NeuralMaxChars: cfg.NeuralMaxChars,
			NeuralTimeout:  cfg.RequestTimeout,
			LexiconURL:     cfg.LexiconURL,
			LexiconPath:    cfg.LexiconPath,
		}, fc)
		if err != nil {
			log.Fatal().Err(err).Msg("sentiment backend init failed")
		}
		scorer = s
	}

	engine := app.NewEngine(sources, progress)
	progress.StartRun()
	start := time.Now()
	byPlatform := engine.Run(ctx)
	scrapeDur := time.Since(start)
	progress.FinishRun()

	if ctx.Err() != nil {
		log.Info().Msg("harvest interrupted, saving what was collected")
	}

	total := 0
	for _, rows := range byPlatform {
		total += len(rows)
	}
	log.Info().Int("reviews", total).Dur("elapsed", scrapeDur).Msg("scraping complete")

	// analysis and export continue after an interrupt; partial results
	// are still worth keeping
	processStart := time.Now()
	if err := writeOutputs(context.Background(), cfg, byPlatform, scorer); err != nil {
		log.Fatal().Err(err).Msg("writing outputs failed")
	}

	rate := 0.0
	if s := scrapeDur.Seconds(); s > 0 {
		rate = float64(total) / s
	}
	log.Info().
		Int("reviews", total).
		Dur("scraping", scrapeDur).
		Dur("processing", time.Since(processStart)).
		Float64("reviews_per_sec", rate).
		Msg("run complete")

	if opsSrv != nil {
		shCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = opsSrv.Shutdown(shCtx)
	}
}

func writeOutputs(ctx context.Context, cfg shared.Config, byPlatform map[domain.Platform][]domain.Review, scorer domain.Scorer) error {
	var w export.Writer
	raw := cfg.OutputMode == shared.OutputRaw || cfg.OutputMode == shared.OutputBoth
	analysis := cfg.OutputMode == shared.OutputAnalysis || cfg.OutputMode == shared.OutputBoth
	thresholds := sentiment.Thresholds{Good: cfg.GoodThresh, Bad: cfg.BadThresh}
	order := []domain.Platform{domain.PlatformFeed, domain.PlatformStore, domain.PlatformWeb}
	path := func(name string) string { return filepath.Join(cfg.OutputDir, name+".csv") }

	if cfg.OutputSingleFile {
		var all []domain.Review
		for _, pl := range order {
			all = append(all, byPlatform[pl]...)
		}
		if raw {
			rows := append([]domain.Review(nil), all...)
			app.SortReviews(rows)
			if err := w.Export(rows, path(cfg.OutputPrefix)); err != nil {
				return err
			}
		}
		if analysis {
			rows := app.Analyze(ctx, all, scorer, thresholds)
			app.SortReviews(rows)
			if err := w.Export(rows, path(cfg.OutputPrefix+"_analysis")); err != nil {
				return err
			}
		}
		return nil
	}

	for _, pl := range order {
		rows, ok := byPlatform[pl]
		if !ok {
			continue
		}
		if len(rows) == 0 {
			log.Info().Str("source", string(pl)).Msg("no reviews collected")
			continue
		}
		name := cfg.OutputPrefix + "_" + string(pl)
		if raw {
			rs := append([]domain.Review(nil), rows...)
			app.SortReviews(rs)
			if err := w.Export(rs, path(name)); err != nil {
				return err
			}
		}
		if analysis {
			rs := app.Analyze(ctx, rows, scorer, thresholds)
			app.SortReviews(rs)
			if err := w.Export(rs, path(name+"_analysis")); err != nil {
				return err
			}
		}
	}
	return nil
}
