// Package social mirrors the store's media posts from the media API. Each fetched feed is
// cached; when the token is missing or the API fails the caller gets an empty feed that
// carries the reason.
package social

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"Storefront/internal/core/feeds"
)

// Service defines the social feed operations.
type Service interface {
	// FetchMedia returns the latest limit posts. An empty accessToken uses the configured
	// one. The result is never nil; failures produce a feed with Status degraded.
	FetchMedia(ctx context.Context, accessToken string, limit int) *Feed

	// ProfileInfo returns the static account description.
	ProfileInfo() Profile
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

// WithHTTPClient sets the HTTP client used for media requests. Config.Timeout is
// applied to a copy of it.
func WithHTTPClient(c *http.Client) ServiceOption {
	return func(s *service) {
		s.httpClient = c
	}
}

// NewService creates a social feed service backed by cache.
func NewService(cache feeds.Cache, cfg Config, opts ...ServiceOption) (Service, error) {
	if cache == nil {
		return nil, fmt.Errorf("%w: cache", ErrNilDependency)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid social config: %w", err)
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

func (s *service) ProfileInfo() Profile {
	return Profile{
		Username:    s.config.Username,
		DisplayName: s.config.DisplayName,
		ProfileURL:  s.config.ProfileURL,
	}
}

// FetchMedia implements Service. A missing token is a configuration state: it is
// logged at warn level and never cached, like every other degraded feed.
func (s *service) FetchMedia(ctx context.Context, accessToken string, limit int) *Feed {
	if limit <= 0 {
		limit = s.config.DefaultLimit
	}

	token := accessToken
	if token == "" {
		token = s.config.AccessToken
	}
	if token == "" {
		slog.Warn("[SOCIAL] serving empty feed", "error", ErrMissingToken)
		return s.degraded(false, feeds.KindMissingCredentials, ReasonMissingToken)
	}

	key := feeds.CacheKey(feeds.SourceSocial, limit)
	if feed, ok := s.cached(ctx, key); ok {
		return feed
	}

	feed, err := feeds.Do(ctx, s.coalescer, key, func(ctx context.Context) (*Feed, error) {
		return s.fetchLive(ctx, key, token, limit)
	})
	if err != nil {
		kind := feeds.Classify(err)
		slog.Error("[SOCIAL] fetch failed",
			"limit", limit,
			"kind", kind,
			"error", err,
		)
		return s.degraded(true, kind, reason(kind, err))
	}

	out := *feed
	return &out
}

func (s *service) cached(ctx context.Context, key string) (*Feed, bool) {
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, feeds.ErrCacheMiss) {
			slog.Warn("[SOCIAL] cache read failed", "key", key, "error", err)
		}
		return nil, false
	}

	var feed Feed
	if err := json.Unmarshal(data, &feed); err != nil {
		slog.Warn("[SOCIAL] discarding undecodable cache entry", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("[SOCIAL] cache hit", "key", key)
	return &feed, true
}

func (s *service) fetchLive(ctx context.Context, key, token string, limit int) (*Feed, error) {
	raw, err := s.client.listMedia(ctx, token, limit)
	if err != nil {
		return nil, err
	}

	media := make([]Media, 0, len(raw))
	for _, item := range raw {
		media = append(media, s.normalize(item))
	}
	feed := &Feed{
		Status:     feeds.StatusOK,
		ProfileURL: s.config.ProfileURL,
		Media:      media,
		Count:      len(media),
		HasToken:   true,
	}

	data, err := json.Marshal(feed)
	if err != nil {
		return nil, fmt.Errorf("failed to encode feed: %w", err)
	}
	if err := s.cache.Set(ctx, key, data, s.config.CacheTTL); err != nil {
		slog.Warn("[SOCIAL] failed to cache feed", "key", key, "error", err)
	}

	return feed, nil
}

func (s *service) normalize(item rawMedia) Media {
	kind := parseMediaType(item.MediaType)

	mediaURL := item.MediaURL
	if kind == MediaVideo && item.ThumbnailURL != "" {
		mediaURL = item.ThumbnailURL
	}
	permalink := item.Permalink
	if permalink == "" {
		permalink = s.config.ProfileURL
	}

	return Media{
		ID:        item.ID,
		Caption:   item.Caption,
		MediaType: kind,
		MediaURL:  mediaURL,
		Permalink: permalink,
		Timestamp: item.Timestamp,
	}
}

func (s *service) degraded(hasToken bool, kind feeds.ErrorKind, reason string) *Feed {
	return &Feed{
		Status:     feeds.StatusDegraded,
		ErrorKind:  kind,
		Error:      reason,
		ProfileURL: s.config.ProfileURL,
		Media:      []Media{},
		HasToken:   hasToken,
	}
}

// reason is the user-facing text of a degraded feed.
func reason(kind feeds.ErrorKind, err error) string {
	if kind == feeds.KindTimeout {
		return ReasonTimeout
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
