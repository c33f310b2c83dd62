package marketplace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"Storefront/internal/core/feeds"
)

// maxResponseBytes caps how much of an upstream body is read.
const maxResponseBytes = 5 << 20

// errorCode decodes the "error" field of marketplace responses. The marketplace sends an
// integer (0 on success); the search relay sends a string on failure.
type errorCode struct {
	message string
	code    int
	set     bool
}

func (e *errorCode) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	e.set = true
	if err := json.Unmarshal(b, &e.code); err == nil {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	e.code = -1
	e.message = s
	return nil
}

// ok reports whether the response carried an explicit zero error code.
func (e errorCode) ok() bool {
	return e.set && e.code == 0
}

// client performs the raw marketplace HTTP calls. Every error it returns wraps one of
// the feeds sentinel errors.
type client struct {
	search   *http.Client
	lookup   *http.Client
	limiter  *rate.Limiter
	baseURL  string
	webURL   string
	proxyURL string
	profile  RequestProfile
}

func newClient(cfg Config, httpClient *http.Client) *client {
	search := &http.Client{Timeout: cfg.SearchTimeout}
	lookup := &http.Client{Timeout: cfg.LookupTimeout}
	if httpClient != nil {
		search = withTimeout(httpClient, cfg.SearchTimeout)
		lookup = withTimeout(httpClient, cfg.LookupTimeout)
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &client{
		search:   search,
		lookup:   lookup,
		limiter:  rate.NewLimiter(limit, burst),
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		webURL:   strings.TrimRight(cfg.WebURL, "/"),
		proxyURL: cfg.ProxyURL,
		profile:  cfg.Profile,
	}
}

// withTimeout copies c so both request kinds can share a transport with their own timeout.
func withTimeout(c *http.Client, timeout time.Duration) *http.Client {
	cp := *c
	cp.Timeout = timeout
	return &cp
}

// resolveShopID looks up the numeric shop id for a store username.
func (c *client) resolveShopID(ctx context.Context, username string) (string, error) {
	endpoint := c.baseURL + "/api/v4/shop/get_shop_detail?" + url.Values{"username": {username}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	setIfNotEmpty(req.Header, "User-Agent", c.profile.UserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Referer", c.webURL+"/"+url.PathEscape(username))

	var body shopDetailResponse
	if err := c.getJSON(ctx, c.lookup, req, &body); err != nil {
		return "", err
	}
	if body.Error == nil || *body.Error != 0 {
		return "", fmt.Errorf("%w: shop detail error code %s", feeds.ErrUpstream, formatCode(body.Error))
	}
	if body.Data == nil || body.Data.ShopID == 0 {
		return "", fmt.Errorf("%w: %w: response has no shopid", feeds.ErrMalformedResponse, ErrShopNotResolved)
	}
	return strconv.FormatInt(body.Data.ShopID, 10), nil
}

// searchItems fetches one page of a shop's listings, newest-offset based.
func (c *client) searchItems(ctx context.Context, shopID string, limit, offset int) (*searchResponse, error) {
	var endpoint string
	if c.proxyURL != "" {
		endpoint = c.proxyURL + "?" + url.Values{
			"shopid": {shopID},
			"limit":  {strconv.Itoa(limit)},
			"offset": {strconv.Itoa(offset)},
		}.Encode()
	} else {
		endpoint = c.baseURL + "/api/v4/search/search_items?" + url.Values{
			"by":        {"relevancy"},
			"limit":     {strconv.Itoa(limit)},
			"match_id":  {shopID},
			"newest":    {strconv.Itoa(offset)},
			"order":     {"desc"},
			"page_type": {"shop"},
			"scenario":  {"PAGE_OTHERS"},
			"version":   {"2"},
		}.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.profile.Apply(req.Header, shopID)

	var body searchResponse
	if err := c.getJSON(ctx, c.search, req, &body); err != nil {
		return nil, err
	}
	if !body.Error.ok() {
		msg := body.ErrorMsg
		if msg == "" {
			msg = body.Error.message
		}
		return nil, fmt.Errorf("%w: search error code %d: %s", feeds.ErrUpstream, body.Error.code, msg)
	}
	return &body, nil
}

// getJSON paces, sends req and decodes a 2xx JSON body into out. The wait for a request
// slot counts toward the client timeout.
func (c *client) getJSON(ctx context.Context, hc *http.Client, req *http.Request, out any) error {
	if hc.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, hc.Timeout)
		defer cancel()
		req = req.WithContext(ctx)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: waiting for request slot: %v", feeds.ErrTimeout, err)
	}

	resp, err := hc.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %v", feeds.ErrTimeout, ctx.Err())
		}
		if isTimeoutError(err) {
			return fmt.Errorf("%w: request timed out", feeds.ErrTimeout)
		}
		return fmt.Errorf("%w: %v", feeds.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: unexpected status code %d", feeds.ErrUpstream, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		if isTimeoutError(err) {
			return fmt.Errorf("%w: reading response body", feeds.ErrTimeout)
		}
		return fmt.Errorf("%w: failed to read response body: %v", feeds.ErrNetwork, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %v", feeds.ErrMalformedResponse, err)
	}
	return nil
}

// isTimeoutError checks if the error is a timeout-related error.
func isTimeoutError(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}

func formatCode(code *int) string {
	if code == nil {
		return "<missing>"
	}
	return strconv.Itoa(*code)
}
