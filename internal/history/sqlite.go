// Package history persists one record per finished build to a local SQLite
// database, giving the dev server and operators a queryable trail of what was
// built, when, and how it went.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Record is one finished build.
type Record struct {
	BuildID     string    `json:"build_id"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Outcome     string    `json:"outcome"`
	Pages       int       `json:"pages"`
	Collections int       `json:"collections"`
	Hash        string    `json:"hash"`
	Error       string    `json:"error,omitempty"`
}

// Store is a SQLite-backed build history.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open opens (or creates) the history database at path. Use ":memory:" for
// an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize history schema: %w", err)
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS builds (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		build_id TEXT NOT NULL,
		start_unix INTEGER NOT NULL,
		end_unix INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		pages INTEGER NOT NULL,
		collections INTEGER NOT NULL,
		hash TEXT NOT NULL,
		error TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_builds_build_id ON builds(build_id);
	CREATE INDEX IF NOT EXISTS idx_builds_start ON builds(start_unix);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append records one finished build.
func (s *Store) Append(ctx context.Context, r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO builds (build_id, start_unix, end_unix, outcome, pages, collections, hash, error) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		r.BuildID, r.Start.Unix(), r.End.Unix(), r.Outcome, r.Pages, r.Collections, r.Hash, r.Error,
	)
	if err != nil {
		return fmt.Errorf("insert build record: %w", err)
	}
	return nil
}

// Recent returns the most recent builds, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT build_id, start_unix, end_unix, outcome, pages, collections, hash, COALESCE(error, '') FROM builds ORDER BY id DESC LIMIT ?",
		n,
	)
	if err != nil {
		return nil, fmt.Errorf("query build records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var startUnix, endUnix int64
		if err := rows.Scan(&r.BuildID, &startUnix, &endUnix, &r.Outcome, &r.Pages, &r.Collections, &r.Hash, &r.Error); err != nil {
			return nil, fmt.Errorf("scan build record: %w", err)
		}
		r.Start = time.Unix(startUnix, 0)
		r.End = time.Unix(endUnix, 0)
		records = append(records, r)
	}
	return records, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
