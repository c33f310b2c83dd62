package feeds

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// DefaultCacheTTL is how long a successful fetch stays cached.
const DefaultCacheTTL = 300 * time.Second

// CacheTTLFromEnv reads API_CACHE_TIMEOUT (seconds). Missing or invalid values yield DefaultCacheTTL.
func CacheTTLFromEnv() time.Duration {
	v := os.Getenv("API_CACHE_TIMEOUT")
	if v == "" {
		return DefaultCacheTTL
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("[FEEDS] invalid API_CACHE_TIMEOUT value, using default",
			"value", v,
			"default_seconds", int(DefaultCacheTTL.Seconds()),
			"error", err,
		)
		return DefaultCacheTTL
	}
	return time.Duration(n) * time.Second
}

// CoalesceMissesFromEnv reads FEED_COALESCE_MISSES ("true"/"1" enables).
func CoalesceMissesFromEnv() bool {
	v := os.Getenv("FEED_COALESCE_MISSES")
	return v == "true" || v == "1"
}
