package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryCacheSetGet(t *testing.T) {
	mc := NewMemoryCache(WithMemoryMaxSize(8))
	defer mc.Close()
	ctx := context.Background()

	type row struct {
		Name  string  `json:"name"`
		Score float64 `json:"score"`
	}
	if err := mc.Set(ctx, "k1", row{Name: "a", Score: 0.5}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got row
	if err := mc.Get(ctx, "k1", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "a" || got.Score != 0.5 {
		t.Fatalf("unexpected value: %+v", got)
	}

	if err := mc.Get(ctx, "absent", &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected miss, got %v", err)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	mc := NewMemoryCache(WithMemoryMaxSize(8))
	defer mc.Close()
	ctx := context.Background()

	if err := mc.Set(ctx, "k1", "v", time.Nanosecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	var got string
	if err := mc.Get(ctx, "k1", &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected expired miss, got %v", err)
	}
}

func TestMemoryCacheDeleteByPattern(t *testing.T) {
	mc := NewMemoryCache(WithMemoryMaxSize(8))
	defer mc.Close()
	ctx := context.Background()

	_ = mc.Set(ctx, GenerateKey("signals", "2025-08-03"), "a", time.Minute)
	_ = mc.Set(ctx, GenerateKey("signals", "2025-08-04"), "b", time.Minute)
	_ = mc.Set(ctx, "other", "c", time.Minute)

	if err := mc.DeleteByPattern(ctx, BuildPattern("signals")); err != nil {
		t.Fatalf("delete by pattern: %v", err)
	}

	var got string
	if err := mc.Get(ctx, GenerateKey("signals", "2025-08-03"), &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected pattern-deleted key gone, got %v", err)
	}
	if err := mc.Get(ctx, "other", &got); err != nil || got != "c" {
		t.Fatalf("unrelated key must survive: %q %v", got, err)
	}
}

func TestMemoryCacheLRUEviction(t *testing.T) {
	mc := NewMemoryCache(WithMemoryMaxSize(2))
	defer mc.Close()
	ctx := context.Background()

	_ = mc.Set(ctx, "a", "1", time.Minute)
	time.Sleep(time.Millisecond)
	_ = mc.Set(ctx, "b", "2", time.Minute)
	time.Sleep(time.Millisecond)
	_ = mc.Set(ctx, "c", "3", time.Minute)

	var got string
	if err := mc.Get(ctx, "a", &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("oldest key should have been evicted, got %v", err)
	}
	if err := mc.Get(ctx, "c", &got); err != nil || got != "3" {
		t.Fatalf("newest key must be present: %q %v", got, err)
	}
}
