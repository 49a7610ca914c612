package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// TextLRU is a bounded, thread-safe string memoization cache. It backs the
// normalizer, which is called on the same names repeatedly across the
// O(N x M) candidate loop.
type TextLRU struct {
	inner *lru.Cache[string, string]
}

// NewTextLRU creates a cache holding at most size entries. Size must be
// positive; 10000 is used for zero or negative values, matching the bound the
// matching run actually needs (one entry per distinct catalog name).
func NewTextLRU(size int) *TextLRU {
	if size <= 0 {
		size = 10000
	}
	// lru.New only errors on non-positive size, which is guarded above.
	inner, _ := lru.New[string, string](size)
	return &TextLRU{inner: inner}
}

// Get returns the cached value for key.
func (c *TextLRU) Get(key string) (string, bool) {
	return c.inner.Get(key)
}

// Add stores a value, evicting the least recently used entry when full.
func (c *TextLRU) Add(key, value string) {
	c.inner.Add(key, value)
}

// Len returns the current number of cached entries.
func (c *TextLRU) Len() int {
	return c.inner.Len()
}
