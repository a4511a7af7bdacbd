// Package bootstrap wires configuration, logging, storage, the push hub
// and the two HTTP services into a runnable application.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/shopstream/shopstream/adapters/metrics"
	"github.com/shopstream/shopstream/config"
	"github.com/shopstream/shopstream/core/pipeline"
	"github.com/shopstream/shopstream/core/push"
	"github.com/shopstream/shopstream/core/schema"
	"github.com/shopstream/shopstream/core/storage"
	"github.com/shopstream/shopstream/domain/analytics"
	"github.com/shopstream/shopstream/domain/catalog"
	"github.com/shopstream/shopstream/web"
)

// App is the composed application: two HTTP services sharing one logger,
// one metrics registry, and a long-lived store connection each.
type App struct {
	Config  *config.Config
	Holder  *config.Holder
	Logger  zerolog.Logger
	Metrics *metrics.Collector

	CatalogStore   *storage.SQLiteStore
	AnalyticsStore *storage.SQLiteStore
	Hub            *push.Hub

	CatalogServer   *http.Server
	AnalyticsServer *http.Server
}

// New creates the application from a loaded configuration.
func New(cfg *config.Config) (*App, error) {
	return build(cfg, nil)
}

// NewWithHotReload creates the application with config file watching.
// Only the reloadable subset (logging) takes effect without restart.
func NewWithHotReload(path string) (*App, error) {
	bootLogger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	holder, err := config.NewHolder(path, bootLogger)
	if err != nil {
		return nil, err
	}

	app, err := build(holder.Get(), holder)
	if err != nil {
		return nil, err
	}

	holder.OnChange(func(cfg *config.Config) {
		applyLogLevel(cfg.Logging.Level)
		if app.Metrics != nil {
			app.Metrics.ConfigReloads.Inc()
		}
	})

	if err := holder.WatchFile(); err != nil {
		app.Logger.Warn().Err(err).Msg("config file watch unavailable")
	}
	holder.WatchSignals()

	return app, nil
}

func build(cfg *config.Config, holder *config.Holder) (*App, error) {
	logger := buildLogger(cfg.Logging)

	var collector *metrics.Collector
	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector())
		registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		collector = metrics.NewWithRegistry(registry)
		metricsHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	}

	catalogStore, err := storage.NewSQLiteStore(cfg.Catalog.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open catalog store: %w", err)
	}

	analyticsStore, err := storage.NewSQLiteStore(cfg.Analytics.Database.DSN)
	if err != nil {
		catalogStore.Close()
		return nil, fmt.Errorf("open analytics store: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, collection := range []string{catalog.ProductsCollection, catalog.CategoriesCollection} {
		if err := catalogStore.EnsureCollection(ctx, collection); err != nil {
			catalogStore.Close()
			analyticsStore.Close()
			return nil, fmt.Errorf("ensure collection: %w", err)
		}
	}
	if err := analyticsStore.EnsureCollection(ctx, analytics.Collection); err != nil {
		catalogStore.Close()
		analyticsStore.Close()
		return nil, fmt.Errorf("ensure collection: %w", err)
	}

	hub := push.NewHub(logger.With().Str("component", "push").Logger(), collector)

	app := &App{
		Config:         cfg,
		Holder:         holder,
		Logger:         logger,
		Metrics:        collector,
		CatalogStore:   catalogStore,
		AnalyticsStore: analyticsStore,
		Hub:            hub,
	}

	newPipeline := func(rec pipelineSpec) *pipeline.Pipeline {
		return &pipeline.Pipeline{
			Schema:       rec.schema,
			Store:        rec.store,
			Collection:   rec.collection,
			Notifier:     rec.notifier,
			Event:        rec.event,
			StoreTimeout: cfg.Storage.Timeout,
			Logger:       logger.With().Str("resource", rec.schema.Name).Logger(),
			Metrics:      collector,
		}
	}

	catalogRouter := web.NewCatalogRouter(web.CatalogDeps{
		Products: newPipeline(pipelineSpec{
			schema: catalog.Product(), store: catalogStore,
			collection: catalog.ProductsCollection,
			notifier:   hub, event: catalog.NewProductEvent,
		}),
		Categories: newPipeline(pipelineSpec{
			schema: catalog.Category(), store: catalogStore,
			collection: catalog.CategoriesCollection,
			notifier:   hub, event: catalog.NewCategoryEvent,
		}),
		Hub:            hub,
		Logger:         logger,
		Metrics:        collector,
		MetricsHandler: metricsHandler,
	})

	analyticsRouter := web.NewAnalyticsRouter(web.AnalyticsDeps{
		Views: newPipeline(pipelineSpec{
			schema: analytics.View(), store: analyticsStore,
			collection: analytics.Collection,
		}),
		Actions: newPipeline(pipelineSpec{
			schema: analytics.Action(), store: analyticsStore,
			collection: analytics.Collection,
		}),
		Goals: newPipeline(pipelineSpec{
			schema: analytics.Goal(), store: analyticsStore,
			collection: analytics.Collection,
		}),
		Logger:         logger,
		Metrics:        collector,
		MetricsHandler: metricsHandler,
	})

	app.CatalogServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Catalog.Host, cfg.Catalog.Port),
		Handler:      catalogRouter,
		ReadTimeout:  cfg.Catalog.ReadTimeout,
		WriteTimeout: cfg.Catalog.WriteTimeout,
	}
	app.AnalyticsServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Analytics.Host, cfg.Analytics.Port),
		Handler:      analyticsRouter,
		ReadTimeout:  cfg.Analytics.ReadTimeout,
		WriteTimeout: cfg.Analytics.WriteTimeout,
	}

	logger.Info().
		Str("catalog", app.CatalogServer.Addr).
		Str("analytics", app.AnalyticsServer.Addr).
		Msg("servers configured")

	return app, nil
}

// pipelineSpec bundles the per-resource wiring passed to newPipeline.
type pipelineSpec struct {
	schema     schema.Record
	store      storage.Store
	collection string
	notifier   pipeline.Notifier
	event      string
}

// Run starts both HTTP servers and blocks until shutdown.
func (a *App) Run() error {
	errCh := make(chan error, 2)

	start := func(name string, srv *http.Server) {
		a.Logger.Info().Str("service", name).Str("addr", srv.Addr).Msg("starting http server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("%s server: %w", name, err)
		}
	}
	go start("catalog", a.CatalogServer)
	go start("analytics", a.AnalyticsServer)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		a.Shutdown()
		return err
	case sig := <-quit:
		a.Logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	return a.Shutdown()
}

// Shutdown gracefully stops both servers and releases resources.
func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if a.Holder != nil {
		a.Holder.Stop()
	}

	for name, srv := range map[string]*http.Server{
		"catalog":   a.CatalogServer,
		"analytics": a.AnalyticsServer,
	} {
		if srv == nil {
			continue
		}
		if err := srv.Shutdown(ctx); err != nil {
			a.Logger.Error().Err(err).Str("service", name).Msg("http server shutdown error")
		}
	}

	if a.Hub != nil {
		a.Hub.Close()
	}

	for name, store := range map[string]*storage.SQLiteStore{
		"catalog":   a.CatalogStore,
		"analytics": a.AnalyticsStore,
	} {
		if store == nil {
			continue
		}
		if err := store.Close(); err != nil {
			a.Logger.Error().Err(err).Str("store", name).Msg("store close error")
		}
	}

	a.Logger.Info().Msg("shutdown complete")
	return nil
}

func buildLogger(cfg config.LoggingConfig) zerolog.Logger {
	applyLogLevel(cfg.Level)

	var logger zerolog.Logger
	if cfg.Format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		logger = zerolog.New(os.Stderr)
	}
	return logger.With().Timestamp().Logger()
}

func applyLogLevel(level string) {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
}
