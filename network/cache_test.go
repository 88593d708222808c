package network

import (
	"net/http"
	"testing"
	"time"
)

func TestCacheBasic(t *testing.T) {
	cache := NewCache(100)
	resp := &Response{StatusCode: 200, Body: []byte("test content")}
	headers := http.Header{}
	headers.Set("Cache-Control", "max-age=3600")

	cache.Set("http://example.com/test", resp, headers)

	entry, ok := cache.Get("http://example.com/test")
	if !ok {
		t.Fatal("expected to find cached entry")
	}
	if string(entry.Response.Body) != "test content" {
		t.Errorf("Body = %q, want %q", string(entry.Response.Body), "test content")
	}
	if entry.IsExpired() {
		t.Error("expected entry to be fresh")
	}
	if entry.MaxAge != time.Hour {
		t.Errorf("MaxAge = %v, want %v", entry.MaxAge, time.Hour)
	}
}

func TestCacheExpiration(t *testing.T) {
	cache := NewCache(100)
	headers := http.Header{}
	headers.Set("Cache-Control", "max-age=0")
	cache.Set("http://example.com/test", &Response{StatusCode: 200}, headers)

	entry, ok := cache.Get("http://example.com/test")
	if !ok {
		t.Fatal("expected to find cached entry")
	}
	time.Sleep(time.Millisecond)
	if !entry.IsExpired() {
		t.Error("expected entry to be expired")
	}
}

func TestCacheExpiresHeader(t *testing.T) {
	cache := NewCache(100)
	headers := http.Header{}
	headers.Set("Expires", time.Now().Add(-time.Hour).UTC().Format(http.TimeFormat))
	cache.Set("http://example.com/old", &Response{StatusCode: 200}, headers)

	entry, _ := cache.Get("http://example.com/old")
	if !entry.IsExpired() {
		t.Error("expected entry past its Expires date to be expired")
	}
}

func TestCacheNoStore(t *testing.T) {
	cache := NewCache(100)
	headers := http.Header{}
	headers.Set("Cache-Control", "private, no-store")
	cache.Set("http://example.com/test", &Response{StatusCode: 200}, headers)

	if _, ok := cache.Get("http://example.com/test"); ok {
		t.Error("expected no-store response not to be cached")
	}
}

func TestCacheEviction(t *testing.T) {
	cache := NewCache(2)
	headers := http.Header{}
	cache.Set("http://example.com/1", &Response{}, headers)
	time.Sleep(time.Millisecond)
	cache.Set("http://example.com/2", &Response{}, headers)
	time.Sleep(time.Millisecond)
	cache.Set("http://example.com/3", &Response{}, headers)

	if cache.Size() != 2 {
		t.Errorf("Size() = %d, want 2", cache.Size())
	}
	if _, ok := cache.Get("http://example.com/1"); ok {
		t.Error("expected the oldest entry to be evicted")
	}

	cache.Set("http://example.com/3", &Response{}, headers)
	if _, ok := cache.Get("http://example.com/2"); !ok {
		t.Error("replacing an existing entry should not evict")
	}
}

func TestCacheDeleteAndClear(t *testing.T) {
	cache := NewCache(10)
	cache.Set("a", &Response{}, http.Header{})
	cache.Set("b", &Response{}, http.Header{})

	cache.Delete("a")
	if _, ok := cache.Get("a"); ok {
		t.Error("expected entry to be deleted")
	}
	cache.Clear()
	if cache.Size() != 0 {
		t.Errorf("Size() = %d, want 0", cache.Size())
	}
}

func TestParseCacheControl(t *testing.T) {
	d := parseCacheControl(`public, Max-Age="60", must-revalidate`)
	if d["max-age"] != "60" {
		t.Errorf("max-age = %q, want 60", d["max-age"])
	}
	if _, ok := d["must-revalidate"]; !ok {
		t.Error("expected must-revalidate directive")
	}
	if _, ok := d["public"]; !ok {
		t.Error("expected public directive")
	}
	if len(parseCacheControl("")) != 0 {
		t.Error("expected no directives for an empty header")
	}
}
