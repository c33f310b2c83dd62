package marketplace

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"Storefront/internal/core/feeds"
)

// Config validation errors
var (
	// ErrMissingBaseURL is returned when BaseURL is empty
	ErrMissingBaseURL = errors.New("BaseURL is required")
	// ErrMissingStoreUsername is returned when neither a default shop id nor a username to resolve it is set
	ErrMissingStoreUsername = errors.New("StoreUsername is required when DefaultShopID is empty")
	// ErrInvalidCacheTTL is returned when CacheTTL is not positive
	ErrInvalidCacheTTL = errors.New("CacheTTL must be positive")
	// ErrInvalidTimeout is returned when a request timeout is not positive
	ErrInvalidTimeout = errors.New("request timeouts must be positive")
	// ErrInvalidRate is returned when RequestsPerSecond is negative
	ErrInvalidRate = errors.New("RequestsPerSecond cannot be negative")
)

// Config holds the configuration for the marketplace feed fetcher.
type Config struct {
	// DefaultShopID is used when a caller does not pass a shop id.
	// When empty the id is resolved from StoreUsername on every fetch.
	DefaultShopID string

	// StoreUsername is the marketplace handle of the store (e.g. "modelmanis34").
	StoreUsername string

	// StoreURL is the public store page, used for links and placeholder items.
	StoreURL string

	// BaseURL is the marketplace origin hosting the shop-detail and search endpoints.
	BaseURL string

	// WebURL is the public marketplace origin product links point at.
	WebURL string

	// ImageCDNURL is the prefix image ids are appended to.
	ImageCDNURL string

	// ProxyURL optionally replaces the search endpoint with a relay that accepts
	// shopid/limit/offset query parameters and returns the upstream search body.
	ProxyURL string

	// Profile is the browser-identifying header set sent with every request.
	Profile RequestProfile

	// CacheTTL is how long a successfully fetched page stays cached.
	CacheTTL time.Duration

	// SearchTimeout bounds a single search request.
	SearchTimeout time.Duration

	// LookupTimeout bounds a single shop-id resolution request.
	LookupTimeout time.Duration

	// RequestsPerSecond paces outbound requests. 0 disables pacing.
	RequestsPerSecond float64

	// Burst is the number of requests allowed without pacing.
	Burst int

	// CoalesceMisses shares one upstream call between concurrent misses for the same page.
	CoalesceMisses bool
}

// DefaultConfig returns a Config with the production defaults.
func DefaultConfig() Config {
	return Config{
		StoreUsername:     "modelmanis34",
		StoreURL:          "https://shopee.co.id/modelmanis34",
		BaseURL:           "https://shopee.co.id",
		WebURL:            "https://shopee.co.id",
		ImageCDNURL:       "https://cf.shopee.co.id/file",
		Profile:           DefaultRequestProfile(),
		CacheTTL:          feeds.DefaultCacheTTL,
		SearchTimeout:     15 * time.Second,
		LookupTimeout:     10 * time.Second,
		RequestsPerSecond: 2,
		Burst:             4,
	}
}

// Validate checks the configuration for invalid values.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return ErrMissingBaseURL
	}
	if c.DefaultShopID == "" && c.StoreUsername == "" {
		return ErrMissingStoreUsername
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidCacheTTL, c.CacheTTL)
	}
	if c.SearchTimeout <= 0 || c.LookupTimeout <= 0 {
		return fmt.Errorf("%w: search %v, lookup %v", ErrInvalidTimeout, c.SearchTimeout, c.LookupTimeout)
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidRate, c.RequestsPerSecond)
	}
	return nil
}

// ConfigFromEnv creates a Config from environment variables.
// Uses defaults for any missing environment variables.
//
// Environment variables:
//   - SHOPEE_SHOP_ID: default shop id (default: "" = resolve from username)
//   - SHOPEE_STORE_USERNAME: store handle used for shop-id resolution (default: "modelmanis34")
//   - SHOPEE_STORE_URL: public store page (default: "https://shopee.co.id/modelmanis34")
//   - SHOPEE_PROXY: optional search relay URL (default: "")
//   - SHOPEE_USER_AGENT: overrides the profile's User-Agent
//   - SHOPEE_REQUESTS_PER_SECOND: outbound pacing, 0 disables (default: 2)
//   - API_CACHE_TIMEOUT: cache TTL in seconds (default: 300)
//   - FEED_COALESCE_MISSES: "true"/"1" to share concurrent misses (default: false)
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("SHOPEE_SHOP_ID"); v != "" {
		cfg.DefaultShopID = v
	}
	if v := os.Getenv("SHOPEE_STORE_USERNAME"); v != "" {
		cfg.StoreUsername = v
	}
	if v := os.Getenv("SHOPEE_STORE_URL"); v != "" {
		cfg.StoreURL = v
	}
	if v := os.Getenv("SHOPEE_PROXY"); v != "" {
		cfg.ProxyURL = v
	}
	if v := os.Getenv("SHOPEE_USER_AGENT"); v != "" {
		cfg.Profile.UserAgent = v
	}
	if v := os.Getenv("SHOPEE_REQUESTS_PER_SECOND"); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil && n >= 0 {
			cfg.RequestsPerSecond = n
		} else {
			slog.Warn("[MARKETPLACE] invalid SHOPEE_REQUESTS_PER_SECOND value, using default",
				"value", v,
				"default", cfg.RequestsPerSecond,
				"error", err,
			)
		}
	}

	cfg.CacheTTL = feeds.CacheTTLFromEnv()
	cfg.CoalesceMisses = feeds.CoalesceMissesFromEnv()

	return cfg
}
