// Package rate implements fixed-window request limiting keyed by client
// identifier and scope.
//
// A window opens on the first hit for a key and lasts for the configured
// duration. Every hit is counted, including rejected ones, so a client that
// keeps calling while blocked stays blocked until the window rolls over.
// Because windows are fixed, a client can land up to twice the limit across
// a window boundary.
package rate

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const DefaultScope = "default"

var DefaultConfig = Config{Limit: 100, Window: 15 * time.Minute}

type Config struct {
	Limit  int
	Window time.Duration
}

type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// ResetUnix is the window end in Unix seconds, as sent in X-RateLimit-Reset.
func (r Result) ResetUnix() int64 {
	return r.ResetAt.Unix()
}

// WindowStore records one hit and reports the count inside the current
// window together with the time that window started.
type WindowStore interface {
	Hit(ctx context.Context, identifier, scope string, window time.Duration, now time.Time) (int64, time.Time, error)
}

type Limiter struct {
	store    WindowStore
	defaults Config
	scopes   map[string]Config
	logger   *zap.Logger
	now      func() time.Time
}

func NewLimiter(store WindowStore, defaults Config, scopes map[string]Config, logger *zap.Logger) *Limiter {
	if defaults.Limit <= 0 {
		defaults.Limit = DefaultConfig.Limit
	}
	if defaults.Window <= 0 {
		defaults.Window = DefaultConfig.Window
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	copied := make(map[string]Config, len(scopes))
	for name, cfg := range scopes {
		copied[name] = cfg
	}

	return &Limiter{
		store:    store,
		defaults: defaults,
		scopes:   copied,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	l.now = now
	return l
}

// Check counts a request and decides whether it may proceed. Store failures
// are logged and the request is let through.
func (l *Limiter) Check(ctx context.Context, identifier, scope string, override *Config) Result {
	if scope == "" {
		scope = DefaultScope
	}
	cfg := l.resolve(scope, override)
	now := l.now()

	count, windowStart, err := l.store.Hit(ctx, identifier, scope, cfg.Window, now)
	if err != nil {
		l.logger.Warn("rate limit store failed, allowing request",
			zap.String("scope", scope),
			zap.Error(err),
		)
		return Result{Allowed: true, Limit: cfg.Limit, Remaining: cfg.Limit, ResetAt: now.Add(cfg.Window)}
	}

	allowed := count <= int64(cfg.Limit)
	remaining := 0
	if allowed {
		remaining = cfg.Limit - int(count)
	}

	return Result{
		Allowed:   allowed,
		Limit:     cfg.Limit,
		Remaining: remaining,
		ResetAt:   windowStart.Add(cfg.Window),
	}
}

func (l *Limiter) resolve(scope string, override *Config) Config {
	cfg := l.defaults
	if scoped, ok := l.scopes[scope]; ok {
		if scoped.Limit > 0 {
			cfg.Limit = scoped.Limit
		}
		if scoped.Window > 0 {
			cfg.Window = scoped.Window
		}
	}
	if override != nil {
		if override.Limit > 0 {
			cfg.Limit = override.Limit
		}
		if override.Window > 0 {
			cfg.Window = override.Window
		}
	}
	return cfg
}
