package cms

import (
	"testing"
	"time"
)

func TestCacheSetGetInvalidate(t *testing.T) {
	cache := NewCache(func() time.Duration { return time.Minute })

	cache.Set("page:home", "render")
	value, ok := cache.Get("page:home")
	if !ok || value != "render" {
		t.Fatalf("expected hit, got %v %v", value, ok)
	}

	cache.Invalidate("page:home")
	if _, ok := cache.Get("page:home"); ok {
		t.Fatalf("expected miss after invalidate")
	}
}

func TestCacheExpiry(t *testing.T) {
	cache := NewCache(func() time.Duration { return 60 * time.Second })
	current := time.Unix(1700000000, 0)
	cache.now = func() time.Time { return current }

	cache.Set("content:home_hero", "v")
	if _, ok := cache.Get("content:home_hero"); !ok {
		t.Fatalf("expected hit within ttl")
	}

	current = current.Add(61 * time.Second)
	if _, ok := cache.Get("content:home_hero"); ok {
		t.Fatalf("expected miss after ttl")
	}
}

func TestCacheTTLReadPerSet(t *testing.T) {
	ttl := time.Minute
	cache := NewCache(func() time.Duration { return ttl })
	current := time.Unix(1700000000, 0)
	cache.now = func() time.Time { return current }

	ttl = time.Second
	cache.Set("k", "v")
	current = current.Add(2 * time.Second)
	if _, ok := cache.Get("k"); ok {
		t.Fatalf("expected shortened ttl to apply to new entries")
	}
}

func TestCacheInvalidateAll(t *testing.T) {
	cache := NewCache(nil)
	cache.Set("a", 1)
	cache.Set("b", 2)
	if cache.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", cache.Len())
	}
	cache.InvalidateAll()
	if cache.Len() != 0 {
		t.Fatalf("expected empty cache, got %d", cache.Len())
	}
}
