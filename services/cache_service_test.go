package services

import (
	"fmt"
	"testing"
	"time"
)

func TestCacheGetReturnsStoredValueUntilExpiry(t *testing.T) {
	now := time.Now()
	cache := NewCacheService(time.Hour, 10)
	cache.SetClock(func() time.Time { return now })

	cache.Set("whois:example.co.ke", "raw response")

	value, found := cache.Get("whois:example.co.ke")
	if !found {
		t.Fatal("expected cache hit")
	}
	if value.(string) != "raw response" {
		t.Errorf("value = %v", value)
	}

	// One minute before expiry: still served.
	now = now.Add(59 * time.Minute)
	if _, found := cache.Get("whois:example.co.ke"); !found {
		t.Error("entry expired early")
	}

	// Past the TTL: gone.
	now = now.Add(2 * time.Minute)
	if _, found := cache.Get("whois:example.co.ke"); found {
		t.Error("expired entry still served")
	}
}

func TestCacheSetWithTTLOverridesDefault(t *testing.T) {
	now := time.Now()
	cache := NewCacheService(time.Hour, 10)
	cache.SetClock(func() time.Time { return now })

	cache.SetWithTTL("short", "value", time.Minute)

	now = now.Add(2 * time.Minute)
	if _, found := cache.Get("short"); found {
		t.Error("custom TTL ignored")
	}
}

func TestCacheEvictsOldestAtCapacity(t *testing.T) {
	now := time.Now()
	cache := NewCacheService(time.Hour, 3)
	cache.SetClock(func() time.Time { return now })

	for i := 0; i < 3; i++ {
		cache.Set(fmt.Sprintf("key%d", i), i)
		now = now.Add(time.Second)
	}
	cache.Set("key3", 3)

	if cache.Size() != 3 {
		t.Errorf("Size = %d, want 3", cache.Size())
	}
	if _, found := cache.Get("key0"); found {
		t.Error("oldest entry should have been evicted")
	}
	for i := 1; i <= 3; i++ {
		if _, found := cache.Get(fmt.Sprintf("key%d", i)); !found {
			t.Errorf("key%d should survive eviction", i)
		}
	}
}

func TestCacheRemoveExpiredSweepsOnlyExpiredEntries(t *testing.T) {
	now := time.Now()
	cache := NewCacheService(time.Hour, 10)
	cache.SetClock(func() time.Time { return now })

	cache.SetWithTTL("stale1", "v", time.Minute)
	cache.SetWithTTL("stale2", "v", time.Minute)
	cache.SetWithTTL("fresh", "v", time.Hour)

	now = now.Add(5 * time.Minute)

	if removed := cache.RemoveExpired(); removed != 2 {
		t.Errorf("RemoveExpired = %d, want 2", removed)
	}
	if cache.Size() != 1 {
		t.Errorf("Size = %d, want 1", cache.Size())
	}
	if _, found := cache.Get("fresh"); !found {
		t.Error("fresh entry swept")
	}
}

func TestCacheClearAndDelete(t *testing.T) {
	cache := NewCacheService(time.Hour, 10)
	cache.Set("a", 1)
	cache.Set("b", 2)

	cache.Delete("a")
	if _, found := cache.Get("a"); found {
		t.Error("deleted entry still present")
	}

	cache.Clear()
	if cache.Size() != 0 {
		t.Errorf("Size after Clear = %d", cache.Size())
	}
}

func TestCacheStats(t *testing.T) {
	cache := NewCacheService(30*time.Minute, 500)
	cache.Set("a", 1)

	stats := cache.Stats()
	if stats["size"] != 1 {
		t.Errorf("size = %v", stats["size"])
	}
	if stats["max_size"] != 500 {
		t.Errorf("max_size = %v", stats["max_size"])
	}
	if stats["default_ttl"] != "30m0s" {
		t.Errorf("default_ttl = %v", stats["default_ttl"])
	}
}
