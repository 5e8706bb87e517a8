// Package sqlite implements store.Store with the pure Go SQLite driver.
// It backs local development and the test suites, where a Postgres
// instance is not available.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sqlite3 "modernc.org/sqlite"

	"freelancer-booking-api/internal/store"
)

var _ store.Store = (*Store)(nil)

type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at dbPath and applies the schema.
// Parent directories are created as needed.
func New(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	// single writer; avoids SQLITE_BUSY under concurrent bookings
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite pragma: %w", err)
	}
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite migrate: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() { s.db.Close() }

// Times are stored as unix nanoseconds so interval comparisons stay plain
// integer comparisons.
func toNanos(t time.Time) int64   { return t.UnixNano() }
func fromNanos(n int64) time.Time { return time.Unix(0, n).UTC() }

func isUniqueViolation(err error) bool {
	var se *sqlite3.Error
	if !errors.As(err, &se) {
		return false
	}
	// 1555 = primary key, 2067 = unique constraint
	return se.Code() == 1555 || se.Code() == 2067
}
