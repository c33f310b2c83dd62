// Package feeds holds what the marketplace and social fetchers share: the cache contract
// and its in-memory implementation, cache-key composition, the error-kind taxonomy and
// the display helpers the storefront renders fetched items with.
package feeds

import (
	"fmt"
	"strings"
)

// Status tags which variant of a fetch result a caller received.
type Status string

const (
	// StatusOK is a live or cached successful fetch.
	StatusOK Status = "ok"
	// StatusDegraded is an empty result carrying an error reason.
	StatusDegraded Status = "degraded"
	// StatusFallback is a static substitute result.
	StatusFallback Status = "fallback"
)

// Source identifies the upstream a cache entry belongs to. It prefixes every cache key
// so both fetchers can share one cache namespace.
type Source string

const (
	SourceMarketplace Source = "marketplace:products"
	SourceSocial      Source = "social:media"
)

// CacheKey composes a cache key from the feed source and its query parameters,
// e.g. "marketplace:products:12345:12:0".
func CacheKey(source Source, params ...any) string {
	var b strings.Builder
	b.WriteString(string(source))
	for _, p := range params {
		b.WriteByte(':')
		fmt.Fprint(&b, p)
	}
	return b.String()
}

// SourceOf returns the source prefix of a key built by CacheKey, or "" if the key has none.
func SourceOf(key string) Source {
	for _, s := range []Source{SourceMarketplace, SourceSocial} {
		if strings.HasPrefix(key, string(s)+":") || key == string(s) {
			return s
		}
	}
	return ""
}
