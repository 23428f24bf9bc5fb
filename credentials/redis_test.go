package credentials

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisStore(t *testing.T, opts ...RedisOption) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs: []string{mr.Addr()},
	})
	t.Cleanup(func() { _ = client.Close() })

	s, err := NewRedisStore(client, opts...)
	if err != nil {
		t.Fatalf("new redis store: %v", err)
	}
	return s, mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t)

	token, err := s.Get(ctx)
	if err != nil || token != "" {
		t.Fatalf("missing key: token=%q err=%v", token, err)
	}

	if err := s.Set(ctx, "tok-1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got, _ := mr.Get(defaultRedisKey); got != "tok-1" {
		t.Fatalf("stored value = %q", got)
	}

	token, err = s.Get(ctx)
	if err != nil || token != "tok-1" {
		t.Fatalf("get: token=%q err=%v", token, err)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if mr.Exists(defaultRedisKey) {
		t.Fatal("key still present after clear")
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear empty slot: %v", err)
	}
}

func TestRedisStoreOptions(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t, WithKey("console:alt"), WithTTL(time.Minute))

	if err := s.Set(ctx, "tok-1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !mr.Exists("console:alt") {
		t.Fatal("custom key not used")
	}
	if ttl := mr.TTL("console:alt"); ttl != time.Minute {
		t.Fatalf("ttl = %v, want 1m", ttl)
	}

	mr.FastForward(2 * time.Minute)
	token, err := s.Get(ctx)
	if err != nil || token != "" {
		t.Fatalf("expired key: token=%q err=%v", token, err)
	}
}

func TestRedisStoreRequiresClient(t *testing.T) {
	if _, err := NewRedisStore(nil); err == nil {
		t.Fatal("expected error for nil client")
	}
}
