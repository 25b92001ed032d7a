package cache

import (
	"context"
	"errors"
	"log/slog"

	"veritas/internal/verification"
	"veritas/pkg/platform/circuit"
	"veritas/pkg/platform/sentinel"
)

// Backend is the cache contract shared by the in-memory and Redis caches.
type Backend interface {
	Get(ctx context.Context, key Key) (verification.View, error)
	Set(ctx context.Context, key Key, view verification.View) error
}

// GuardedCache wraps a remote cache with a circuit breaker. While the circuit
// is open, lookups report a miss and writes are dropped so requests go
// straight to the stores instead of waiting on an unhealthy backend.
type GuardedCache struct {
	inner   Backend
	breaker *circuit.Breaker
	logger  *slog.Logger
}

// NewGuardedCache wraps inner. A nil logger uses slog.Default.
func NewGuardedCache(inner Backend, breaker *circuit.Breaker, logger *slog.Logger) *GuardedCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &GuardedCache{inner: inner, breaker: breaker, logger: logger}
}

func (g *GuardedCache) Get(ctx context.Context, key Key) (verification.View, error) {
	if !g.breaker.Allow() {
		return verification.View{}, sentinel.ErrNotFound
	}
	view, err := g.inner.Get(ctx, key)
	g.record(ctx, err)
	return view, err
}

func (g *GuardedCache) Set(ctx context.Context, key Key, view verification.View) error {
	if !g.breaker.Allow() {
		return nil
	}
	err := g.inner.Set(ctx, key, view)
	g.record(ctx, err)
	return err
}

func (g *GuardedCache) record(ctx context.Context, err error) {
	if err == nil || errors.Is(err, sentinel.ErrNotFound) || errors.Is(err, sentinel.ErrInvalidState) {
		if _, change := g.breaker.RecordSuccess(); change.Closed {
			g.logger.InfoContext(ctx, "cache circuit closed", "breaker", g.breaker.Name())
		}
		return
	}
	if _, change := g.breaker.RecordFailure(); change.Opened {
		g.logger.WarnContext(ctx, "cache circuit opened", "breaker", g.breaker.Name(), "error", err)
	}
}
