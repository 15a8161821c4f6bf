package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// SQLiteStore persists the watchlist, search history and preferences to a
// SQLite database. Every mutation is a single transaction serialized by mu,
// so callers never observe partial updates and a crash mid-call leaves the
// previous state intact.
type SQLiteStore struct {
	db   *sql.DB
	mu   sync.Mutex
	path string
	now  func() time.Time

	closed bool
}

// Option customizes a SQLiteStore.
type Option func(*SQLiteStore)

// WithClock overrides the time source used for added_at and last_searched_at.
func WithClock(now func() time.Time) Option {
	return func(s *SQLiteStore) { s.now = now }
}

// Open opens (or creates) the SQLite database and runs migrations.
func Open(dbPath string, opts ...Option) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &StoreError{Op: "open", Err: err}
		}
	}

	// Pragmas apply per connection, so they ride on the DSN.
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(FULL)&_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, &StoreError{Op: "open", Err: err}
	}
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, path: dbPath, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, &StoreError{Op: "migrate", Err: err}
	}

	log.Info().Str("path", dbPath).Msg("state store opened")
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS watchlist (
			ticker   TEXT PRIMARY KEY,
			added_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_watchlist_added ON watchlist(added_at)`,

		`CREATE TABLE IF NOT EXISTS search_history (
			ticker           TEXT PRIMARY KEY,
			last_searched_at INTEGER NOT NULL,
			seq              INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_search_history_seq ON search_history(seq)`,

		`CREATE TABLE IF NOT EXISTS preferences (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string { return s.path }

// Close releases the database. Further calls fail with ErrClosed.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	log.Info().Str("path", s.path).Msg("closing state store")
	return s.db.Close()
}

// withTx runs fn in a transaction under the writer lock, committing only if
// fn succeeds.
func (s *SQLiteStore) withTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return &StoreError{Op: op, Err: ErrClosed}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &StoreError{Op: op, Err: err}
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error().Err(rbErr).Str("op", op).Msg("rollback failed")
		}
		return &StoreError{Op: op, Err: err}
	}
	if err := tx.Commit(); err != nil {
		return &StoreError{Op: op, Err: err}
	}
	return nil
}

// withRead runs fn under the lock so reads never interleave with a write.
func (s *SQLiteStore) withRead(op string, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return &StoreError{Op: op, Err: ErrClosed}
	}
	if err := fn(); err != nil {
		return &StoreError{Op: op, Err: err}
	}
	return nil
}

func toUnix(t time.Time) int64 { return t.UnixNano() }

func fromUnix(n int64) time.Time { return time.Unix(0, n).UTC() }
