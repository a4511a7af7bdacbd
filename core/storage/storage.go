// Package storage provides a document store for validated records.
// Records are persisted as JSON documents in named collections; the store
// assigns each record an opaque identifier on insert.
package storage

import (
	"context"
	"errors"
	"regexp"

	"github.com/google/uuid"
)

// ErrStore is the generic storage failure. Connectivity and write/read
// errors wrap it; callers map it to an opaque server-side failure without
// leaking detail to clients.
var ErrStore = errors.New("storage error")

// IDKey is the key the store uses for the assigned identifier when
// returning persisted records.
const IDKey = "_id"

// Store persists records into named collections.
type Store interface {
	// EnsureCollection creates the collection if it does not exist.
	EnsureCollection(ctx context.Context, collection string) error

	// Insert durably writes one record and returns the assigned identifier.
	// The identifier is unique within the collection and never client-supplied.
	Insert(ctx context.Context, collection string, record map[string]any) (string, error)

	// ListAll returns every record in the collection, each including its
	// identifier under IDKey. Order is unspecified; there is no pagination.
	ListAll(ctx context.Context, collection string) ([]map[string]any, error)

	// Close releases the underlying connection.
	Close() error
}

var collectionName = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ValidCollection reports whether a collection name is usable.
// Collection names come from code, not clients; this is a guard against
// accidental interpolation of unsafe identifiers into SQL.
func ValidCollection(name string) bool {
	return collectionName.MatchString(name)
}

// NormalizeRefs rewrites identifier reference fields into the store's
// canonical identifier representation (lowercase UUID text). Values that do
// not parse as UUIDs are kept as-is: referential integrity is not enforced
// and a dangling reference is accepted silently.
func NormalizeRefs(record map[string]any, refFields []string) {
	for _, name := range refFields {
		ids, ok := record[name].([]string)
		if !ok {
			continue
		}
		for i, id := range ids {
			if parsed, err := uuid.Parse(id); err == nil {
				ids[i] = parsed.String()
			}
		}
	}
}
