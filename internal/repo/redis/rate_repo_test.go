package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func newMiniRedisClient(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})
	return mr, client
}

func TestRateRepoCountsWithinWindow(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	repo := NewRateRepo(client)
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0)

	count, start, err := repo.Hit(ctx, "1.2.3.4", "login", time.Minute, now)
	if err != nil {
		t.Fatalf("first hit: %v", err)
	}
	if count != 1 || !start.Equal(now) {
		t.Fatalf("unexpected first window: count=%d start=%s", count, start)
	}

	mr.FastForward(10 * time.Second)
	count, start, err = repo.Hit(ctx, "1.2.3.4", "login", time.Minute, now.Add(10*time.Second))
	if err != nil {
		t.Fatalf("second hit: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected count 2, got %d", count)
	}
	if !start.Equal(now) {
		t.Fatalf("window start should stay at first hit, got %s", start)
	}

	if ttl := mr.TTL("rate:login:1.2.3.4"); ttl <= 0 || ttl > time.Minute {
		t.Fatalf("unexpected key ttl: %s", ttl)
	}
}

func TestRateRepoWindowExpires(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	repo := NewRateRepo(client)
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0)

	for i := 0; i < 3; i++ {
		if _, _, err := repo.Hit(ctx, "ip", "register", time.Minute, now); err != nil {
			t.Fatalf("hit #%d: %v", i+1, err)
		}
	}

	mr.FastForward(61 * time.Second)
	count, start, err := repo.Hit(ctx, "ip", "register", time.Minute, now.Add(61*time.Second))
	if err != nil {
		t.Fatalf("hit after expiry: %v", err)
	}
	if count != 1 || !start.Equal(now.Add(61*time.Second)) {
		t.Fatalf("expected new window, got count=%d start=%s", count, start)
	}
}

func TestRateRepoScopesUseSeparateKeys(t *testing.T) {
	_, client := newMiniRedisClient(t)
	repo := NewRateRepo(client)
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0)

	_, _, _ = repo.Hit(ctx, "ip", "login", time.Minute, now)
	_, _, _ = repo.Hit(ctx, "ip", "login", time.Minute, now)

	count, _, err := repo.Hit(ctx, "ip", "default", time.Minute, now)
	if err != nil {
		t.Fatalf("hit default: %v", err)
	}
	if count != 1 {
		t.Fatalf("default scope should start its own window, got %d", count)
	}
}

func TestPing(t *testing.T) {
	_, client := newMiniRedisClient(t)
	if err := Ping(context.Background(), client); err != nil {
		t.Fatalf("ping: %v", err)
	}

	unreachable := NewClient("127.0.0.1:1", "", 0)
	defer func() { _ = unreachable.Close() }()
	if err := Ping(context.Background(), unreachable); err == nil {
		t.Fatalf("expected ping error for unreachable server")
	}
}
