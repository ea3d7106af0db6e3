package cache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/phishing-detector/internal/core"
)

func newTestCache(t *testing.T) *MemoryCache {
	t.Helper()
	c := NewMemoryCache(zap.NewNop(), time.Hour)
	t.Cleanup(c.Stop)
	return c
}

func TestMemoryCache_SetGet(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	entry := &core.CacheEntry{
		Digest:     "abc123",
		IsPhishing: true,
		Confidence: 0.92,
		LastSeen:   time.Now(),
		ExpiresAt:  time.Now().Add(time.Hour),
	}
	if err := c.Set(ctx, entry); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := c.Get(ctx, "abc123")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !got.IsPhishing || got.Confidence != 0.92 {
		t.Errorf("got %+v", got)
	}
}

func TestMemoryCache_GetMissing(t *testing.T) {
	c := newTestCache(t)

	if _, err := c.Get(context.Background(), "nope"); err != ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestMemoryCache_GetExpired(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	entry := &core.CacheEntry{
		Digest:    "stale",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	if err := c.Set(ctx, entry); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if _, err := c.Get(ctx, "stale"); err != ErrExpired {
		t.Errorf("err = %v, want ErrExpired", err)
	}
}

func TestMemoryCache_Delete(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	entry := &core.CacheEntry{Digest: "gone", ExpiresAt: time.Now().Add(time.Hour)}
	if err := c.Set(ctx, entry); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := c.Delete(ctx, "gone"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := c.Get(ctx, "gone"); err != ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound after delete", err)
	}
}

func TestMemoryCache_Cleanup(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	fresh := &core.CacheEntry{Digest: "fresh", ExpiresAt: time.Now().Add(time.Hour)}
	stale := &core.CacheEntry{Digest: "stale", ExpiresAt: time.Now().Add(-time.Hour)}
	if err := c.Set(ctx, fresh); err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, stale); err != nil {
		t.Fatal(err)
	}

	if err := c.Cleanup(ctx); err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}

	if _, err := c.Get(ctx, "fresh"); err != nil {
		t.Errorf("fresh entry should survive cleanup: %v", err)
	}
	if _, err := c.Get(ctx, "stale"); err != ErrNotFound {
		t.Errorf("stale entry should be removed, got %v", err)
	}
}
