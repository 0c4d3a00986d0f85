package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vidurdewan/the-digest-sub002/internal/config"
	"github.com/vidurdewan/the-digest-sub002/internal/infrastructure/scheduler"
	"github.com/vidurdewan/the-digest-sub002/internal/infrastructure/storage"
	"github.com/vidurdewan/the-digest-sub002/internal/logging"
	"github.com/vidurdewan/the-digest-sub002/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	store    *storage.SQLStore
	registry *prometheus.Registry

	Pipeline   *usecase.Pipeline
	TopStories *usecase.TopStories
	Feed       *usecase.Feed
	Related    *usecase.Related
	Ingest     *usecase.Ingest
	Scheduler  *usecase.Scheduler
}

// New opens the store, applies the schema, and builds every use case.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	store, err := storage.Open(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("migrate store: %w", err)
	}

	return Wire(cfg, store, baseLogger)
}

// Wire builds the use cases around an already opened store.
func Wire(cfg config.Config, store *storage.SQLStore, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	registry := prometheus.NewRegistry()
	metrics := usecase.NewMetrics()
	if err := metrics.Register(registry); err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Articles:    store,
		Preferences: store,
		Metrics:     metrics,
		Logger:      baseLogger.With("component", "pipeline"),
		Options: usecase.PipelineOptions{
			RecentWindow:   cfg.Ranking.RecentWindow(),
			RecentLimit:    cfg.Ranking.RecentLimit,
			PageSize:       cfg.Ranking.PageSize,
			WriteChunkSize: cfg.Ranking.WriteChunkSize,
		},
	})

	topStories := usecase.NewTopStories(usecase.TopStoriesDeps{
		Articles: store,
		Defaults: usecase.TopStoriesOptions{
			Count:             cfg.TopStories.Count,
			MaxPerPublication: cfg.TopStories.MaxPerPublication,
			MaxPerTopic:       cfg.TopStories.MaxPerTopic,
			HoursBack:         cfg.TopStories.HoursBack,
		},
		Logger: baseLogger.With("component", "topstories"),
	})

	feed := usecase.NewFeed(usecase.FeedDeps{
		Articles:    store,
		Preferences: store,
		Engagement:  store,
		Logger:      baseLogger.With("component", "feed"),
	})

	related := usecase.NewRelated(usecase.RelatedDeps{
		Articles:  store,
		Summaries: store,
		Logger:    baseLogger.With("component", "related"),
	})

	ingest := usecase.NewIngest(usecase.IngestDeps{
		Store:  store,
		Logger: baseLogger.With("component", "ingest"),
	})

	driver := scheduler.NewCronScheduler(
		cfg.Scheduler.CronExpression,
		cfg.Scheduler.Location(),
		baseLogger.With("component", "scheduler"),
	)

	return &Application{
		cfg:        cfg,
		logger:     baseLogger,
		store:      store,
		registry:   registry,
		Pipeline:   pipeline,
		TopStories: topStories,
		Feed:       feed,
		Related:    related,
		Ingest:     ingest,
		Scheduler:  usecase.NewScheduler(driver, pipeline),
	}, nil
}

// MetricsHandler exposes the application's Prometheus registry.
func (a *Application) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})
}

// Serve runs scheduled ranking and the metrics endpoint until ctx is done.
func (a *Application) Serve(ctx context.Context) error {
	if err := a.Scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	var server *http.Server
	serverErr := make(chan error, 1)
	if addr := a.cfg.Metrics.ListenAddr; addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", a.MetricsHandler())
		server = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			a.logger.Info("metrics listening", "addr", addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErr <- err
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-serverErr:
		runErr = fmt.Errorf("metrics server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if server != nil {
		if err := server.Shutdown(shutdownCtx); err != nil {
			a.logger.Warn("metrics shutdown failed", "error", err)
		}
	}
	if err := a.Scheduler.Stop(shutdownCtx); err != nil {
		a.logger.Warn("scheduler shutdown failed", "error", err)
	}
	return runErr
}

// Close releases the store.
func (a *Application) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}
