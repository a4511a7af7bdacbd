package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/shopstream/shopstream/adapters/metrics"
	"github.com/shopstream/shopstream/core/pipeline"
)

// AnalyticsDeps contains dependencies for the analytics service router.
type AnalyticsDeps struct {
	Views   *pipeline.Pipeline
	Actions *pipeline.Pipeline
	Goals   *pipeline.Pipeline
	Logger  zerolog.Logger
	Metrics *metrics.Collector

	// MetricsHandler serves the Prometheus exposition; nil disables /metrics.
	MetricsHandler http.Handler
}

// NewAnalyticsRouter builds the analytics service. The three resource
// types share one collection; each POST validates and persists the actual
// request payload.
func NewAnalyticsRouter(deps AnalyticsDeps) chi.Router {
	r := chi.NewRouter()
	r.Use(requestLogger("analytics", deps.Logger, deps.Metrics))

	r.Post("/views", handleCreate(deps.Views))
	r.Post("/actions", handleCreate(deps.Actions))
	r.Post("/goals", handleCreate(deps.Goals))

	mountOperational(r, deps.MetricsHandler)
	return r
}
