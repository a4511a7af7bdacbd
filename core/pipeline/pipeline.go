// Package pipeline orchestrates the validate, persist, notify sequence for
// one resource type. A record is only persisted if it passed validation,
// and only broadcast if it was durably persisted; the stages never reorder
// within a request.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/shopstream/shopstream/adapters/metrics"
	"github.com/shopstream/shopstream/core/schema"
	"github.com/shopstream/shopstream/core/storage"
	"github.com/shopstream/shopstream/core/validation"
)

// DefaultStoreTimeout bounds one document store round-trip when the
// pipeline is not configured with an explicit timeout.
const DefaultStoreTimeout = 5 * time.Second

// Notifier broadcasts a created record to current subscribers.
// Implementations are fire-and-forget; a broadcast failure never reaches
// the response path.
type Notifier interface {
	Broadcast(event string, payload map[string]any)
}

// Pipeline wires one resource type's schema, collection and optional
// creation event together.
type Pipeline struct {
	// Schema declares the resource's create shape.
	Schema schema.Record

	// Store is the shared document store connection.
	Store storage.Store

	// Collection is the target collection name.
	Collection string

	// Notifier, when set, receives Event after each successful insert.
	Notifier Notifier

	// Event is the broadcast event name (e.g. "newProduct").
	Event string

	// StoreTimeout bounds each store operation. Zero means DefaultStoreTimeout.
	StoreTimeout time.Duration

	Logger  zerolog.Logger
	Metrics *metrics.Collector
}

// Create validates raw input, persists the clean record, and notifies
// subscribers.
//
// A validation failure returns the violations with a nil record and nil
// error; nothing is persisted. A store failure returns an error wrapping
// storage.ErrStore. On success the returned record is the persisted fields
// plus the assigned identifier.
func (p *Pipeline) Create(ctx context.Context, raw map[string]any) (map[string]any, *schema.ValidationResult, error) {
	clean, result := validation.Validate(p.Schema, raw)
	if !result.Valid {
		if p.Metrics != nil {
			p.Metrics.ValidationFailures.WithLabelValues(p.Schema.Name).Inc()
		}
		p.Logger.Debug().
			Str("resource", p.Schema.Name).
			Int("violations", len(result.Errors)).
			Msg("validation failed")
		return nil, &result, nil
	}

	storage.NormalizeRefs(clean, p.Schema.ReferenceFields())

	ctx, cancel := context.WithTimeout(ctx, p.storeTimeout())
	defer cancel()

	id, err := p.Store.Insert(ctx, p.Collection, clean)
	if err != nil {
		if p.Metrics != nil {
			p.Metrics.StoreErrors.WithLabelValues(p.Collection, "insert").Inc()
		}
		p.Logger.Error().Err(err).Str("collection", p.Collection).Msg("insert failed")
		return nil, nil, fmt.Errorf("insert %s: %w", p.Collection, err)
	}

	persisted := make(map[string]any, len(clean)+1)
	for k, v := range clean {
		persisted[k] = v
	}
	persisted[storage.IDKey] = id

	if p.Metrics != nil {
		p.Metrics.RecordsCreated.WithLabelValues(p.Collection).Inc()
	}

	if p.Notifier != nil && p.Event != "" {
		p.Notifier.Broadcast(p.Event, persisted)
	}

	p.Logger.Info().
		Str("collection", p.Collection).
		Str("id", id).
		Msg("record created")

	return persisted, nil, nil
}

// List returns every record in the pipeline's collection.
func (p *Pipeline) List(ctx context.Context) ([]map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, p.storeTimeout())
	defer cancel()

	records, err := p.Store.ListAll(ctx, p.Collection)
	if err != nil {
		if p.Metrics != nil {
			p.Metrics.StoreErrors.WithLabelValues(p.Collection, "list").Inc()
		}
		p.Logger.Error().Err(err).Str("collection", p.Collection).Msg("list failed")
		return nil, fmt.Errorf("list %s: %w", p.Collection, err)
	}
	return records, nil
}

func (p *Pipeline) storeTimeout() time.Duration {
	if p.StoreTimeout > 0 {
		return p.StoreTimeout
	}
	return DefaultStoreTimeout
}
