package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/shopstream/shopstream/adapters/metrics"
	"github.com/shopstream/shopstream/core/pipeline"
	"github.com/shopstream/shopstream/core/push"
)

// CatalogDeps contains dependencies for the catalog service router.
type CatalogDeps struct {
	Products   *pipeline.Pipeline
	Categories *pipeline.Pipeline
	Hub        *push.Hub
	Logger     zerolog.Logger
	Metrics    *metrics.Collector

	// MetricsHandler serves the Prometheus exposition; nil disables /metrics.
	MetricsHandler http.Handler
}

// NewCatalogRouter builds the catalog service: product and category CRUD
// plus the websocket push endpoint.
func NewCatalogRouter(deps CatalogDeps) chi.Router {
	r := chi.NewRouter()
	r.Use(requestLogger("catalog", deps.Logger, deps.Metrics))

	r.Post("/products", handleCreate(deps.Products))
	r.Get("/products", handleList(deps.Products))
	r.Post("/categories", handleCreate(deps.Categories))
	r.Get("/categories", handleList(deps.Categories))

	if deps.Hub != nil {
		r.Get("/ws", deps.Hub.ServeWS)
	}

	mountOperational(r, deps.MetricsHandler)
	return r
}

// mountOperational adds the endpoints shared by both services.
func mountOperational(r chi.Router, metricsHandler http.Handler) {
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}
}
