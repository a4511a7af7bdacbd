// Package metrics provides Prometheus metrics collection for shopstream.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds all Prometheus metrics for shopstream.
type Collector struct {
	// Request metrics
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge

	// Pipeline metrics
	ValidationFailures *prometheus.CounterVec
	StoreErrors        *prometheus.CounterVec
	RecordsCreated     *prometheus.CounterVec

	// Push metrics
	BroadcastsTotal      *prometheus.CounterVec
	SubscribersConnected prometheus.Gauge

	// Config metrics
	ConfigReloads      prometheus.Counter
	ConfigReloadErrors prometheus.Counter
}

// New creates a new metrics collector registered on the default registry.
func New() *Collector {
	return newCollector(promauto.With(prometheus.DefaultRegisterer))
}

// NewWithRegistry creates a new metrics collector with a custom registry.
// Useful for testing to avoid global state.
func NewWithRegistry(reg prometheus.Registerer) *Collector {
	return newCollector(promauto.With(reg))
}

func newCollector(factory promauto.Factory) *Collector {
	return &Collector{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "shopstream",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests processed",
			},
			[]string{"service", "method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "shopstream",
				Name:      "request_duration_seconds",
				Help:      "Request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"service", "method", "path", "status"},
		),
		RequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "shopstream",
				Name:      "requests_in_flight",
				Help:      "Number of requests currently being processed",
			},
		),
		ValidationFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "shopstream",
				Name:      "validation_failures_total",
				Help:      "Total number of requests rejected by schema validation",
			},
			[]string{"resource"},
		),
		StoreErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "shopstream",
				Name:      "store_errors_total",
				Help:      "Total number of document store failures",
			},
			[]string{"collection", "op"},
		),
		RecordsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "shopstream",
				Name:      "records_created_total",
				Help:      "Total number of records persisted",
			},
			[]string{"collection"},
		),
		BroadcastsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "shopstream",
				Name:      "broadcasts_total",
				Help:      "Total number of events broadcast to subscribers",
			},
			[]string{"event"},
		),
		SubscribersConnected: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "shopstream",
				Name:      "subscribers_connected",
				Help:      "Number of currently connected push subscribers",
			},
		),
		ConfigReloads: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "shopstream",
				Name:      "config_reloads_total",
				Help:      "Total number of successful config reloads",
			},
		),
		ConfigReloadErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "shopstream",
				Name:      "config_reload_errors_total",
				Help:      "Total number of config reload errors",
			},
		),
	}
}
