package feeds

import (
	"context"
	"errors"
)

// Sentinel errors shared by the feed fetchers. Upstream client code wraps one of these
// so Classify can map a failure to an ErrorKind.
var (
	// ErrCacheMiss is returned by a Cache when the key is absent or its entry has expired.
	ErrCacheMiss = errors.New("feed cache miss")

	// ErrInvalidTTL is returned when an entry is stored with a non-positive TTL.
	ErrInvalidTTL = errors.New("invalid TTL: must be positive")

	// ErrTimeout is returned when an upstream request exceeds its deadline.
	ErrTimeout = errors.New("upstream request timed out")

	// ErrNetwork is returned when an upstream request fails at the transport level.
	ErrNetwork = errors.New("upstream network error")

	// ErrUpstream is returned when the upstream answers with an error status or error payload.
	ErrUpstream = errors.New("upstream returned an error")

	// ErrMalformedResponse is returned when the upstream body cannot be decoded.
	ErrMalformedResponse = errors.New("malformed upstream response")
)

// ErrorKind names the failure category a fetch result carries.
type ErrorKind string

const (
	KindNone               ErrorKind = ""
	KindUnresolvedIdentity ErrorKind = "unresolved_identity"
	KindMissingCredentials ErrorKind = "missing_credentials"
	KindTimeout            ErrorKind = "timeout"
	KindNetwork            ErrorKind = "network"
	KindUpstreamError      ErrorKind = "upstream_error"
	KindMalformedResponse  ErrorKind = "malformed_response"
	KindUnexpected         ErrorKind = "unexpected"
)

// IsConfigurationState reports whether the kind describes missing configuration rather
// than a transient upstream failure. Such results are never cached or logged as errors.
func (k ErrorKind) IsConfigurationState() bool {
	return k == KindUnresolvedIdentity || k == KindMissingCredentials
}

// Classify maps an error returned by an upstream client to an ErrorKind.
func Classify(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded), isTimeoutError(err):
		return KindTimeout
	case errors.Is(err, ErrNetwork):
		return KindNetwork
	case errors.Is(err, ErrUpstream):
		return KindUpstreamError
	case errors.Is(err, ErrMalformedResponse):
		return KindMalformedResponse
	default:
		return KindUnexpected
	}
}

// isTimeoutError checks for errors exposing a Timeout() method, such as net.Error.
func isTimeoutError(err error) bool {
	var te interface{ Timeout() bool }
	if errors.As(err, &te) {
		return te.Timeout()
	}
	return false
}
