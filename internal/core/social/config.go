package social

import (
	"errors"
	"fmt"
	"os"
	"time"

	"Storefront/internal/core/feeds"
)

// Config validation errors
var (
	// ErrMissingGraphURL is returned when GraphURL is empty
	ErrMissingGraphURL = errors.New("GraphURL is required")
	// ErrInvalidCacheTTL is returned when CacheTTL is not positive
	ErrInvalidCacheTTL = errors.New("CacheTTL must be positive")
	// ErrInvalidTimeout is returned when Timeout is not positive
	ErrInvalidTimeout = errors.New("Timeout must be positive")
)

// Config holds the configuration for the social media feed fetcher.
type Config struct {
	// AccessToken is the long-lived media API token. An empty token is not a
	// configuration error: fetches report a degraded feed instead.
	AccessToken string

	// ProfileURL is the public profile page; it doubles as the permalink of posts
	// that have none.
	ProfileURL string

	// Username and DisplayName describe the account for the storefront.
	Username    string
	DisplayName string

	// GraphURL is the media API origin.
	GraphURL string

	// CacheTTL is how long a successfully fetched feed stays cached.
	CacheTTL time.Duration

	// Timeout bounds a single media request.
	Timeout time.Duration

	// DefaultLimit is used when a caller passes a non-positive limit.
	DefaultLimit int

	// CoalesceMisses shares one upstream call between concurrent misses for the same limit.
	CoalesceMisses bool
}

// DefaultConfig returns a Config with the production defaults.
func DefaultConfig() Config {
	return Config{
		ProfileURL:   "https://www.instagram.com/modelmanis_rtl/",
		Username:     "modelmanis_rtl",
		DisplayName:  "Model Manis",
		GraphURL:     "https://graph.instagram.com",
		CacheTTL:     feeds.DefaultCacheTTL,
		Timeout:      15 * time.Second,
		DefaultLimit: 12,
	}
}

// Validate checks the configuration for invalid values.
func (c Config) Validate() error {
	if c.GraphURL == "" {
		return ErrMissingGraphURL
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidCacheTTL, c.CacheTTL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidTimeout, c.Timeout)
	}
	return nil
}

// ConfigFromEnv creates a Config from environment variables.
// Uses defaults for any missing environment variables.
//
// Environment variables:
//   - INSTAGRAM_ACCESS_TOKEN: media API token (default: "")
//   - INSTAGRAM_PROFILE_URL: public profile page (default: "https://www.instagram.com/modelmanis_rtl/")
//   - INSTAGRAM_USERNAME: account handle (default: "modelmanis_rtl")
//   - API_CACHE_TIMEOUT: cache TTL in seconds (default: 300)
//   - FEED_COALESCE_MISSES: "true"/"1" to share concurrent misses (default: false)
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	cfg.AccessToken = os.Getenv("INSTAGRAM_ACCESS_TOKEN")
	if v := os.Getenv("INSTAGRAM_PROFILE_URL"); v != "" {
		cfg.ProfileURL = v
	}
	if v := os.Getenv("INSTAGRAM_USERNAME"); v != "" {
		cfg.Username = v
	}

	cfg.CacheTTL = feeds.CacheTTLFromEnv()
	cfg.CoalesceMisses = feeds.CoalesceMissesFromEnv()

	return cfg
}
