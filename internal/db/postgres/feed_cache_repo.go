package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"Storefront/internal/core/feeds"
)

// FeedCacheRepository is a feeds.Cache stored in the feed_cache table.
// Expired rows are invisible to Get and are removed by PurgeExpired.
type FeedCacheRepository struct {
	db *sql.DB
}

// NewFeedCacheRepository creates a new PostgreSQL feed cache repository
func NewFeedCacheRepository(db *sql.DB) *FeedCacheRepository {
	return &FeedCacheRepository{db: db}
}

var _ feeds.Cache = (*FeedCacheRepository)(nil)

// Get retrieves the payload cached under key.
// Returns feeds.ErrCacheMiss if not found or expired.
func (r *FeedCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	query := `
		SELECT payload
		FROM feed_cache
		WHERE cache_key = $1 AND expires_at > NOW()
	`

	var payload []byte
	err := r.db.QueryRowContext(ctx, query, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, feeds.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get feed cache entry: %w", err)
	}

	return payload, nil
}

// Set stores value under key until NOW() + ttl. An existing entry is replaced.
func (r *FeedCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("%w: %v", feeds.ErrInvalidTTL, ttl)
	}

	query := `
		INSERT INTO feed_cache (cache_key, source, payload, expires_at)
		VALUES ($1, $2, $3::jsonb, NOW() + ($4 * INTERVAL '1 millisecond'))
		ON CONFLICT (cache_key) DO UPDATE
		SET source = EXCLUDED.source,
		    payload = EXCLUDED.payload,
		    expires_at = EXCLUDED.expires_at,
		    fetched_at = NOW()
	`

	// JSONB takes the payload as text; lib/pq would send []byte as bytea.
	_, err := r.db.ExecContext(ctx, query, key, string(feeds.SourceOf(key)), string(value), ttl.Milliseconds())
	if err != nil {
		return fmt.Errorf("failed to insert/update feed cache entry: %w", err)
	}

	return nil
}

// PurgeExpired deletes expired entries and returns how many were removed.
func (r *FeedCacheRepository) PurgeExpired(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM feed_cache WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired feed cache entries: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count purged feed cache entries: %w", err)
	}
	return n, nil
}
