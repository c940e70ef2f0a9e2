package repositories

import (
	"errors"
	"strings"
)

// ErrCacheMiss is returned when no cached entry exists for a key.
var ErrCacheMiss = errors.New("cache miss")

// Cache modes, one per catalog endpoint.
const (
	ModeSearch   = "search"
	ModeTrending = "trending"
)

// NormalizeQuery folds a query into its cache key: trimmed, lowercased, single-spaced.
func NormalizeQuery(q string) string {
	return strings.ToLower(strings.Join(strings.Fields(q), " "))
}
