package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore implements Store with SQLite. Each collection is one table
// holding the record as a JSON document next to its identifier.
type SQLiteStore struct {
	db *sql.DB

	mu          sync.RWMutex
	collections map[string]bool
}

// NewSQLiteStore opens (or creates) a document store at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Set pragmas for performance
	pragmas := []string{
		"PRAGMA synchronous = NORMAL",
		"PRAGMA cache_size = -64000",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}

	return &SQLiteStore{
		db:          db,
		collections: make(map[string]bool),
	}, nil
}

// EnsureCollection creates the backing table for a collection.
func (s *SQLiteStore) EnsureCollection(ctx context.Context, collection string) error {
	if !ValidCollection(collection) {
		return fmt.Errorf("invalid collection name %q", collection)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.collections[collection] {
		return nil
	}

	createSQL := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (\n"+
			"  id TEXT PRIMARY KEY,\n"+
			"  doc TEXT NOT NULL,\n"+
			"  created_at TEXT DEFAULT CURRENT_TIMESTAMP\n"+
			")", collection)
	if _, err := s.db.ExecContext(ctx, createSQL); err != nil {
		return fmt.Errorf("create collection %s: %w: %v", collection, ErrStore, err)
	}

	s.collections[collection] = true
	return nil
}

// Insert durably writes one record and returns the assigned identifier.
func (s *SQLiteStore) Insert(ctx context.Context, collection string, record map[string]any) (string, error) {
	if err := s.ensureRegistered(ctx, collection); err != nil {
		return "", err
	}

	doc, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("encode record: %w: %v", ErrStore, err)
	}

	id := uuid.New().String()
	insertSQL := fmt.Sprintf("INSERT INTO %s (id, doc) VALUES (?, ?)", collection)
	if _, err := s.db.ExecContext(ctx, insertSQL, id, string(doc)); err != nil {
		return "", fmt.Errorf("insert into %s: %w: %v", collection, ErrStore, err)
	}

	return id, nil
}

// ListAll returns every record in the collection.
func (s *SQLiteStore) ListAll(ctx context.Context, collection string) ([]map[string]any, error) {
	if err := s.ensureRegistered(ctx, collection); err != nil {
		return nil, err
	}

	querySQL := fmt.Sprintf("SELECT id, doc FROM %s", collection)
	rows, err := s.db.QueryContext(ctx, querySQL)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w: %v", collection, ErrStore, err)
	}
	defer rows.Close()

	var records []map[string]any
	for rows.Next() {
		var id, doc string
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, fmt.Errorf("scan %s: %w: %v", collection, ErrStore, err)
		}

		record := make(map[string]any)
		if err := json.Unmarshal([]byte(doc), &record); err != nil {
			return nil, fmt.Errorf("decode record %s: %w: %v", id, ErrStore, err)
		}
		record[IDKey] = id
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w: %v", collection, ErrStore, err)
	}

	return records, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

func (s *SQLiteStore) ensureRegistered(ctx context.Context, collection string) error {
	s.mu.RLock()
	known := s.collections[collection]
	s.mu.RUnlock()

	if known {
		return nil
	}
	return s.EnsureCollection(ctx, collection)
}
