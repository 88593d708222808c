package network

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// DefaultMaxAge is the freshness lifetime of responses without explicit
// caching headers.
const DefaultMaxAge = 5 * time.Minute

// CacheEntry represents a cached HTTP response.
type CacheEntry struct {
	Response  *Response
	MaxAge    time.Duration
	HasMaxAge bool // max-age was present, including max-age=0
	Expires   time.Time
	CachedAt  time.Time
}

// IsExpired returns true if the cache entry is no longer fresh.
func (e *CacheEntry) IsExpired() bool {
	if e.HasMaxAge {
		return time.Since(e.CachedAt) > e.MaxAge
	}
	if !e.Expires.IsZero() {
		return time.Now().After(e.Expires)
	}
	return time.Since(e.CachedAt) > DefaultMaxAge
}

// Cache is a bounded in-memory response cache keyed by URL.
type Cache struct {
	entries map[string]*CacheEntry
	maxSize int
	mu      sync.RWMutex
}

// NewCache creates a cache holding at most maxSize entries.
func NewCache(maxSize int) *Cache {
	if maxSize <= 0 {
		maxSize = 1000
	}
	return &Cache{
		entries: make(map[string]*CacheEntry),
		maxSize: maxSize,
	}
}

// Get returns the entry for url, fresh or not.
func (c *Cache) Get(url string) (*CacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[url]
	return entry, ok
}

// Set stores a response unless its Cache-Control forbids it. The oldest
// entry is evicted when the cache is full.
func (c *Cache) Set(url string, resp *Response, headers http.Header) {
	directives := parseCacheControl(headers.Get("Cache-Control"))
	if _, ok := directives["no-store"]; ok {
		return
	}

	entry := &CacheEntry{
		Response: resp,
		CachedAt: time.Now(),
	}
	if v, ok := directives["max-age"]; ok {
		if seconds, err := strconv.Atoi(v); err == nil && seconds >= 0 {
			entry.MaxAge = time.Duration(seconds) * time.Second
			entry.HasMaxAge = true
		}
	}
	if _, ok := directives["no-cache"]; ok {
		entry.HasMaxAge = true
		entry.MaxAge = 0
	}
	if !entry.HasMaxAge {
		if t, err := http.ParseTime(headers.Get("Expires")); err == nil {
			entry.Expires = t
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[url]; !exists && len(c.entries) >= c.maxSize {
		c.evictOldest()
	}
	c.entries[url] = entry
}

// Delete removes an entry from the cache.
func (c *Cache) Delete(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, url)
}

// Clear removes all entries from the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*CacheEntry)
}

// Size returns the number of entries in the cache.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// evictOldest removes the entry cached first. Must be called with c.mu held.
func (c *Cache) evictOldest() {
	var oldestURL string
	var oldestTime time.Time
	for url, entry := range c.entries {
		if oldestURL == "" || entry.CachedAt.Before(oldestTime) {
			oldestURL = url
			oldestTime = entry.CachedAt
		}
	}
	if oldestURL != "" {
		delete(c.entries, oldestURL)
	}
}

// parseCacheControl splits a Cache-Control header into lowercased
// directives mapped to their (unquoted) values.
func parseCacheControl(value string) map[string]string {
	directives := make(map[string]string)
	for _, d := range strings.Split(value, ",") {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		k, v, _ := strings.Cut(d, "=")
		directives[strings.ToLower(strings.TrimSpace(k))] = strings.Trim(strings.TrimSpace(v), `"`)
	}
	return directives
}
