package social

import (
	"errors"
	"fmt"

	"Storefront/internal/core/feeds"
)

var (
	// ErrNilDependency is returned when a required dependency is nil.
	ErrNilDependency = errors.New("required dependency is nil")

	// ErrMissingToken is returned when no access token is available.
	ErrMissingToken = errors.New("access token not configured")
)

// APIError is an error object reported by the media API, whatever the HTTP status.
type APIError struct {
	Message    string
	Type       string
	Code       int
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("media API error (status %d, code %d): %s", e.StatusCode, e.Code, e.Message)
}

// Unwrap lets feeds.Classify report API errors as upstream errors.
func (e *APIError) Unwrap() error {
	return feeds.ErrUpstream
}
