// Package cache provides comment translation caches.
//
// Keys are built by srctl.CacheKey and end with the direction token, so a
// single store can hold translations for every direction.
package cache

import (
	"context"
	"strings"
)

// TranslationCache is the interface for translation caching.
type TranslationCache interface {
	// Get retrieves a cached translation. Returns empty string and false if not found or expired.
	Get(key string) (string, bool)

	// Set stores a translation in the cache.
	Set(key string, value string) error
}

// Enumerable is a cache whose live entries can be listed, e.g. for export.
type Enumerable interface {
	TranslationCache
	ListEntries(ctx context.Context) (map[string]string, error)
}

// KeyDirection returns the direction suffix of a key built by srctl.CacheKey.
func KeyDirection(key string) string {
	i := strings.LastIndexByte(key, ':')
	if i < 0 {
		return ""
	}
	return key[i+1:]
}
