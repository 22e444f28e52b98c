// Package modelcache persists per-provider model listings in a local SQLite
// database so onboarding does not hit the provider's models endpoint on
// every run.
package modelcache

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/heycli/hey/internal/config"
)

// DefaultTTL is how long a cached model listing is considered fresh.
const DefaultTTL = 24 * time.Hour

// Store is a persistent model listing cache backed by SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// DefaultPath returns the cache location inside the hey config directory.
func DefaultPath() (string, error) {
	dir, err := config.GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "models.db"), nil
}

// Open opens (creating if needed) the cache database at dbPath.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the database schema
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS models (
		provider TEXT NOT NULL,
		pos INTEGER NOT NULL,
		id TEXT NOT NULL,
		PRIMARY KEY (provider, pos)
	);

	CREATE TABLE IF NOT EXISTS fetches (
		provider TEXT PRIMARY KEY,
		fetched_at INTEGER NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Put replaces the cached listing for a provider and stamps the fetch time.
func (s *Store) Put(ctx context.Context, provider config.Provider, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM models WHERE provider = ?`, string(provider)); err != nil {
		return err
	}
	for pos, id := range ids {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO models (provider, pos, id)
			VALUES (?, ?, ?)
		`, string(provider), pos, id); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO fetches (provider, fetched_at)
		VALUES (?, ?)
	`, string(provider), time.Now().Unix()); err != nil {
		return err
	}

	return tx.Commit()
}

// Get returns the cached listing for a provider in insertion order, along
// with when it was fetched. A cache miss returns no ids, a zero time and a
// nil error.
func (s *Store) Get(ctx context.Context, provider config.Provider) ([]string, time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var fetchedAt int64
	err := s.db.QueryRowContext(ctx, `SELECT fetched_at FROM fetches WHERE provider = ?`, string(provider)).Scan(&fetchedAt)
	if err == sql.ErrNoRows {
		return nil, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id FROM models WHERE provider = ? ORDER BY pos`, string(provider))
	if err != nil {
		return nil, time.Time{}, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, time.Time{}, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, time.Time{}, err
	}

	return ids, time.Unix(fetchedAt, 0), nil
}

// Fresh returns a cached listing only when it was fetched within ttl.
func (s *Store) Fresh(ctx context.Context, provider config.Provider, ttl time.Duration) ([]string, bool) {
	ids, fetchedAt, err := s.Get(ctx, provider)
	if err != nil || len(ids) == 0 {
		return nil, false
	}
	if time.Since(fetchedAt) > ttl {
		return nil, false
	}
	return ids, true
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}
