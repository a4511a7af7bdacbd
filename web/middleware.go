package web

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/shopstream/shopstream/adapters/metrics"
)

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// Hijack forwards to the underlying writer so the websocket upgrade on
// /ws works through this middleware.
func (rec *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := rec.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	return hj.Hijack()
}

// requestLogger logs one line per request and records request metrics.
// The collector may be nil.
func requestLogger(service string, logger zerolog.Logger, collector *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			if collector != nil {
				collector.RequestsInFlight.Inc()
			}
			next.ServeHTTP(rec, r)
			elapsed := time.Since(start)

			if collector != nil {
				collector.RequestsInFlight.Dec()
				path := routePattern(r)
				collector.RequestsTotal.WithLabelValues(service, r.Method, path, statusLabel(rec.status)).Inc()
				collector.RequestDuration.WithLabelValues(service, r.Method, path, statusLabel(rec.status)).Observe(elapsed.Seconds())
			}

			logger.Info().
				Str("service", service).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rec.status).
				Dur("elapsed", elapsed).
				Msg("request")
		})
	}
}

// routePattern returns the matched chi route pattern, falling back to the
// raw path. Patterns keep metric cardinality bounded.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}

func statusLabel(status int) string {
	switch {
	case status < 100:
		return "unknown"
	case status < 200:
		return "1xx"
	case status < 300:
		return "2xx"
	case status < 400:
		return "3xx"
	case status < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
