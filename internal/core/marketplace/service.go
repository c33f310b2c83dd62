// Package marketplace mirrors a store's marketplace listings. It resolves the shop id,
// queries the marketplace search endpoint, normalizes the listings into Products and
// caches each page. When the marketplace cannot be reached the caller gets a page of
// placeholder products instead of an error.
package marketplace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"Storefront/internal/core/feeds"
)

// MaxLimit is the largest page size the search endpoint accepts.
const MaxLimit = 50

// Service defines the marketplace feed operations.
type Service interface {
	// FetchProducts returns one page of the shop's listings. An empty shopID uses the
	// configured default, then falls back to resolving the store username. The result
	// is never nil; failures produce a placeholder page with Status fallback.
	FetchProducts(ctx context.Context, shopID string, limit, offset int) *ProductPage

	// ResolveShopID looks up the numeric shop id behind a store username.
	ResolveShopID(ctx context.Context, username string) (string, error)

	// StoreURL returns the public store page.
	StoreURL() string
}

type service struct {
	cache      feeds.Cache
	client     *client
	coalescer  *feeds.Coalescer
	httpClient *http.Client
	config     Config
}

// ServiceOption configures the service
type ServiceOption func(*service)

// WithHTTPClient sets the HTTP client used for marketplace requests. The configured
// timeouts are applied to copies of it.
func WithHTTPClient(c *http.Client) ServiceOption {
	return func(s *service) {
		s.httpClient = c
	}
}

// NewService creates a marketplace service backed by cache.
func NewService(cache feeds.Cache, cfg Config, opts ...ServiceOption) (Service, error) {
	if cache == nil {
		return nil, fmt.Errorf("%w: cache", ErrNilDependency)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid marketplace config: %w", err)
	}

	s := &service{
		cache:     cache,
		config:    cfg,
		coalescer: feeds.NewCoalescer(cfg.CoalesceMisses),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.client = newClient(cfg, s.httpClient)

	return s, nil
}

func (s *service) StoreURL() string {
	return s.config.StoreURL
}

func (s *service) ResolveShopID(ctx context.Context, username string) (string, error) {
	if username == "" {
		return "", fmt.Errorf("%w: username", ErrEmptyID)
	}
	return s.client.resolveShopID(ctx, username)
}

// FetchProducts implements Service. The flow is:
//  1. Resolve the shop id (placeholders on failure, nothing cached)
//  2. Return the cached page for (shop, limit, offset) if present
//  3. Fetch and normalize the page from the marketplace
//  4. Cache it for CacheTTL
//  5. Serve placeholders on any fetch failure, nothing cached
func (s *service) FetchProducts(ctx context.Context, shopID string, limit, offset int) *ProductPage {
	limit, offset = normalizeWindow(limit, offset)

	shop, err := s.shopID(ctx, shopID)
	if err != nil {
		slog.Warn("[MARKETPLACE] shop id unresolved, serving placeholders",
			"username", s.config.StoreUsername,
			"error", err,
		)
		return fallbackPage(s.config, "", limit, feeds.KindUnresolvedIdentity)
	}

	key := feeds.CacheKey(feeds.SourceMarketplace, shop, limit, offset)
	if page, ok := s.cached(ctx, key); ok {
		return page
	}

	page, err := feeds.Do(ctx, s.coalescer, key, func(ctx context.Context) (*ProductPage, error) {
		return s.fetchLive(ctx, key, shop, limit, offset)
	})
	if err != nil {
		kind := feeds.Classify(err)
		slog.Error("[MARKETPLACE] fetch failed, serving placeholders",
			"shop_id", shop,
			"limit", limit,
			"offset", offset,
			"kind", kind,
			"error", err,
		)
		return fallbackPage(s.config, shop, limit, kind)
	}

	// Coalesced callers share one page; hand each its own header.
	out := *page
	return &out
}

func (s *service) shopID(ctx context.Context, shopID string) (string, error) {
	if shopID != "" {
		return shopID, nil
	}
	if s.config.DefaultShopID != "" {
		return s.config.DefaultShopID, nil
	}
	return s.ResolveShopID(ctx, s.config.StoreUsername)
}

// cached returns the page stored under key. Read errors count as misses.
func (s *service) cached(ctx context.Context, key string) (*ProductPage, bool) {
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, feeds.ErrCacheMiss) {
			slog.Warn("[MARKETPLACE] cache read failed", "key", key, "error", err)
		}
		return nil, false
	}

	var page ProductPage
	if err := json.Unmarshal(data, &page); err != nil {
		slog.Warn("[MARKETPLACE] discarding undecodable cache entry", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("[MARKETPLACE] cache hit", "key", key)
	return &page, true
}

func (s *service) fetchLive(ctx context.Context, key, shop string, limit, offset int) (*ProductPage, error) {
	resp, err := s.client.searchItems(ctx, shop, limit, offset)
	if err != nil {
		return nil, err
	}

	page := normalizePage(resp, s.config, shop, limit)

	data, err := json.Marshal(page)
	if err != nil {
		return nil, fmt.Errorf("failed to encode page: %w", err)
	}
	if err := s.cache.Set(ctx, key, data, s.config.CacheTTL); err != nil {
		slog.Warn("[MARKETPLACE] failed to cache page", "key", key, "error", err)
	}

	return page, nil
}

// normalizeWindow clamps limit to (0, MaxLimit] and offset to >= 0.
func normalizeWindow(limit, offset int) (int, int) {
	if limit <= 0 || limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
