// Package sqlite provides the embedded feed cache backend for single-binary deployments.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"Storefront/internal/core/feeds"
)

// Open opens the SQLite database at path. The pool is limited to one connection so
// ":memory:" databases are shared by every query.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// FeedCache is a feeds.Cache stored in a SQLite table. Expiry is kept as unix
// milliseconds and compared against the cache's clock.
type FeedCache struct {
	db  *sql.DB
	now func() time.Time
}

var _ feeds.Cache = (*FeedCache)(nil)

// Option configures a FeedCache.
type Option func(*FeedCache)

// WithClock sets the time source used for expiry.
func WithClock(now func() time.Time) Option {
	return func(c *FeedCache) {
		c.now = now
	}
}

// NewFeedCache creates the feed_cache table if needed and returns the cache.
func NewFeedCache(ctx context.Context, db *sql.DB, opts ...Option) (*FeedCache, error) {
	if db == nil {
		return nil, errors.New("sqlite feed cache: db is nil")
	}

	c := &FeedCache{db: db, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS feed_cache (
			cache_key TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			payload BLOB NOT NULL,
			fetched_at INTEGER NOT NULL,
			expires_at INTEGER NOT NULL
		)`,
		"CREATE INDEX IF NOT EXISTS idx_feed_cache_expires ON feed_cache(expires_at)",
	}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("failed to create feed_cache schema: %w", err)
		}
	}
	slog.Debug("[SQLITE] feed cache initialized")

	return c, nil
}

// Get retrieves the payload cached under key.
// Returns feeds.ErrCacheMiss if not found or expired.
func (c *FeedCache) Get(ctx context.Context, key string) ([]byte, error) {
	var payload []byte
	err := c.db.QueryRowContext(ctx,
		`SELECT payload FROM feed_cache WHERE cache_key = ? AND expires_at > ?`,
		key, c.now().UnixMilli(),
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, feeds.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get feed cache entry: %w", err)
	}
	return payload, nil
}

// Set stores value under key for ttl, replacing any existing entry.
func (c *FeedCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("%w: %v", feeds.ErrInvalidTTL, ttl)
	}

	now := c.now()
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO feed_cache (cache_key, source, payload, fetched_at, expires_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(cache_key) DO UPDATE SET
			source = excluded.source,
			payload = excluded.payload,
			fetched_at = excluded.fetched_at,
			expires_at = excluded.expires_at`,
		key, string(feeds.SourceOf(key)), value, now.UnixMilli(), now.Add(ttl).UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert/update feed cache entry: %w", err)
	}
	return nil
}

// PurgeExpired deletes expired entries and returns how many were removed.
func (c *FeedCache) PurgeExpired(ctx context.Context) (int64, error) {
	result, err := c.db.ExecContext(ctx,
		`DELETE FROM feed_cache WHERE expires_at <= ?`, c.now().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired feed cache entries: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count purged feed cache entries: %w", err)
	}
	return n, nil
}
