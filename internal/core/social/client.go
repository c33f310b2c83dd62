package social

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

	"Storefront/internal/core/feeds"
)

const (
	maxResponseBytes = 5 << 20
	mediaFields      = "id,caption,media_type,media_url,thumbnail_url,permalink,timestamp"
)

// client performs the media listing call. Errors wrap the feeds sentinels or are an *APIError.
type client struct {
	hc       *http.Client
	graphURL string
}

func newClient(cfg Config, httpClient *http.Client) *client {
	hc := &http.Client{Timeout: cfg.Timeout}
	if httpClient != nil {
		cp := *httpClient
		cp.Timeout = cfg.Timeout
		hc = &cp
	}
	return &client{
		hc:       hc,
		graphURL: strings.TrimRight(cfg.GraphURL, "/"),
	}
}

// listMedia returns the most recent limit posts of the token's account.
func (c *client) listMedia(ctx context.Context, token string, limit int) ([]rawMedia, error) {
	endpoint := c.graphURL + "/me/media?" + url.Values{
		"fields":       {mediaFields},
		"access_token": {token},
		"limit":        {strconv.Itoa(limit)},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		// The request URL carries the token; report only the cause.
		var ue *url.Error
		if errors.As(err, &ue) {
			err = ue.Err
		}
		if ctx.Err() != nil || isTimeoutError(err) {
			return nil, fmt.Errorf("%w: %v", feeds.ErrTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", feeds.ErrNetwork, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		if isTimeoutError(err) {
			return nil, fmt.Errorf("%w: reading response body", feeds.ErrTimeout)
		}
		return nil, fmt.Errorf("%w: failed to read response body: %v", feeds.ErrNetwork, err)
	}

	var body mediaResponse
	decodeErr := json.Unmarshal(data, &body)

	// An error object wins regardless of status.
	if decodeErr == nil && body.Error != nil && body.Error.Message != "" {
		return nil, &APIError{
			Message:    body.Error.Message,
			Type:       body.Error.Type,
			Code:       body.Error.Code,
			StatusCode: resp.StatusCode,
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status code %d", feeds.ErrUpstream, resp.StatusCode)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%w: %v", feeds.ErrMalformedResponse, decodeErr)
	}
	if body.Data == nil {
		return nil, &APIError{Message: ReasonAPIError, StatusCode: resp.StatusCode}
	}
	return *body.Data, nil
}

// isTimeoutError checks if the error is a timeout-related error.
func isTimeoutError(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}
