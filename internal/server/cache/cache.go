// Package cache holds candidate listings served by the HTTP API.
//
// Keys embed the index generation, so a refresh makes every older entry
// unreachable without an explicit flush; expiry reclaims the memory.
package cache

import (
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache wraps go-cache with hit and miss counters.
type Cache struct {
	store  *gocache.Cache
	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a cache. defaultTTL is the expiry of each entry and
// cleanupInterval how often expired entries are purged.
func New(defaultTTL, cleanupInterval time.Duration) *Cache {
	return &Cache{
		store: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Key builds a cache key for generation and path parts. Parts are
// normalized values, so "Honda" and "honda" share an entry.
func Key(generation uint64, parts ...string) string {
	var b strings.Builder
	b.WriteString(strconv.FormatUint(generation, 10))
	for _, p := range parts {
		b.WriteByte('|')
		b.WriteString(p)
	}
	return b.String()
}

// Get retrieves a value.
func (c *Cache) Get(key string) (any, bool) {
	v, ok := c.store.Get(key)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return v, ok
}

// Set stores a value with the default TTL.
func (c *Cache) Set(key string, value any) {
	c.store.Set(key, value, gocache.DefaultExpiration)
}

// GetOrLoad returns the cached value for key, calling load and caching its
// result on a miss.
func (c *Cache) GetOrLoad(key string, load func() any) any {
	if v, ok := c.Get(key); ok {
		return v
	}
	v := load()
	c.Set(key, v)
	return v
}

// Clear removes all items.
func (c *Cache) Clear() {
	c.store.Flush()
}

// ItemCount returns the number of items, including expired ones not yet
// purged.
func (c *Cache) ItemCount() int {
	return c.store.ItemCount()
}

// Stats reports cache counters.
type Stats struct {
	Items  int   `json:"items"`
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

// Stats returns the current counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Items:  c.store.ItemCount(),
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
	}
}
