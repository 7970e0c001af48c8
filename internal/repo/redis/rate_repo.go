package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const ratePrefix = "rate:"

// RateRepo keeps fixed windows in redis so every API instance shares the
// same counters. A window is a counter key whose TTL ends with the window.
type RateRepo struct {
	client *goredis.Client
}

func NewRateRepo(client *goredis.Client) *RateRepo {
	return &RateRepo{client: client}
}

func (r *RateRepo) Hit(ctx context.Context, identifier, scope string, window time.Duration, now time.Time) (int64, time.Time, error) {
	if r.client == nil {
		return 0, time.Time{}, fmt.Errorf("redis client is nil")
	}
	if window <= 0 {
		return 0, time.Time{}, fmt.Errorf("invalid rate window")
	}

	key := rateKey(identifier, scope)
	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("increment rate key: %w", err)
	}
	if count == 1 {
		if err := r.client.PExpire(ctx, key, window).Err(); err != nil {
			return 0, time.Time{}, fmt.Errorf("set rate key ttl: %w", err)
		}
		return count, now, nil
	}

	ttl, err := r.client.PTTL(ctx, key).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("read rate key ttl: %w", err)
	}
	if ttl < 0 {
		// the key lost its expiry, restart the window from here
		if err := r.client.PExpire(ctx, key, window).Err(); err != nil {
			return 0, time.Time{}, fmt.Errorf("set rate key ttl: %w", err)
		}
		ttl = window
	}

	return count, now.Add(ttl - window), nil
}

func rateKey(identifier, scope string) string {
	return ratePrefix + scope + ":" + identifier
}
