package primary

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// StoreImpl implements the store interfaces over SQLite.
type StoreImpl struct {
	db *sql.DB
}

// NewPrimaryStore opens (or creates) the SQLite database at path and ensures
// the schema exists. Use ":memory:" for an ephemeral database.
func NewPrimaryStore(ctx context.Context, path string) (*StoreImpl, error) {
	if path == "" {
		return nil, errors.New("database path cannot be empty")
	}
	// Busy timeout covers the worker and CLI sharing one file.
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}
	// An in-memory database exists per connection; the pool must not open a
	// second one.
	if strings.Contains(path, ":memory:") {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}
	s := &StoreImpl{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to ensure schema: %w", err)
	}
	return s, nil
}

// Ping checks the database connection.
func (s *StoreImpl) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database handle.
func (s *StoreImpl) Close() error {
	return s.db.Close()
}

func (s *StoreImpl) ensureSchema(ctx context.Context) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS categories (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			name          TEXT NOT NULL UNIQUE,
			seed_keywords TEXT NOT NULL DEFAULT '[]',
			created_at    TIMESTAMP NOT NULL,
			updated_at    TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS content (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			kind            TEXT NOT NULL,
			text            TEXT NOT NULL,
			category_id     INTEGER REFERENCES categories(id) ON DELETE SET NULL,
			auto_classified INTEGER NOT NULL DEFAULT 0,
			created_at      TIMESTAMP NOT NULL,
			updated_at      TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_content_category ON content(category_id)`,
		`CREATE TABLE IF NOT EXISTS tags (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			name       TEXT NOT NULL UNIQUE,
			slug       TEXT NOT NULL UNIQUE,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS classification_logs (
			id                    INTEGER PRIMARY KEY AUTOINCREMENT,
			content_id            INTEGER NOT NULL REFERENCES content(id) ON DELETE CASCADE,
			suggested_category_id INTEGER NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
			confidence            REAL NOT NULL,
			tier                  TEXT NOT NULL,
			accepted              INTEGER,
			created_at            TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_logs_content ON classification_logs(content_id)`,
		`CREATE TABLE IF NOT EXISTS content_keywords (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			content_id INTEGER NOT NULL REFERENCES content(id) ON DELETE CASCADE,
			term       TEXT NOT NULL,
			weight     REAL NOT NULL,
			created_at TIMESTAMP NOT NULL,
			UNIQUE (content_id, term)
		)`,
		`CREATE TABLE IF NOT EXISTS background_jobs (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			job_id     TEXT NOT NULL UNIQUE,
			task_type  TEXT NOT NULL,
			payload    TEXT NOT NULL DEFAULT '{}',
			queue      TEXT NOT NULL,
			status     TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
	}
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec schema statement: %w", err)
		}
	}
	return nil
}
