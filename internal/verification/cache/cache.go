// Package cache memoizes computed verification views. Entries are keyed by
// subject, viewer and the viewer's preferences version; a short TTL bounds
// staleness after profile changes.
package cache

import (
	"context"
	"strconv"
	"sync"
	"time"

	"veritas/internal/verification"
	id "veritas/pkg/domain"
	"veritas/pkg/platform/sentinel"
)

const keyPrefix = "vstate:"

// anonymous stands in for an empty viewer in keys.
const anonymous = "-"

// Key identifies one memoized view.
type Key struct {
	Subject      id.DID
	Viewer       id.DID
	PrefsVersion int64
}

// String renders the key used by every backend.
func (k Key) String() string {
	viewer := k.Viewer.String()
	if k.Viewer.IsNil() {
		viewer = anonymous
	}
	return keyPrefix + k.Subject.String() + "|" + viewer + "|" + strconv.FormatInt(k.PrefsVersion, 10)
}

type entry struct {
	view      verification.View
	expiresAt time.Time
}

// InMemoryCache is a bounded, TTL-based cache for single-instance deployments and tests.
type InMemoryCache struct {
	mu         sync.Mutex
	entries    map[string]entry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// InMemoryOption configures an InMemoryCache.
type InMemoryOption func(*InMemoryCache)

// WithClock overrides the time source.
func WithClock(now func() time.Time) InMemoryOption {
	return func(c *InMemoryCache) {
		c.now = now
	}
}

// WithMaxEntries bounds the number of cached views.
func WithMaxEntries(n int) InMemoryOption {
	return func(c *InMemoryCache) {
		if n > 0 {
			c.maxEntries = n
		}
	}
}

func NewInMemoryCache(ttl time.Duration, opts ...InMemoryOption) *InMemoryCache {
	c := &InMemoryCache{
		entries:    make(map[string]entry),
		ttl:        ttl,
		maxEntries: 10_000,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *InMemoryCache) Get(_ context.Context, key Key) (verification.View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := key.String()
	e, ok := c.entries[k]
	if !ok {
		return verification.View{}, sentinel.ErrNotFound
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, k)
		return verification.View{}, sentinel.ErrNotFound
	}
	return cloneView(e.view), nil
}

func (c *InMemoryCache) Set(_ context.Context, key Key, view verification.View) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if len(c.entries) >= c.maxEntries {
		c.evictLocked(now)
	}
	c.entries[key.String()] = entry{view: cloneView(view), expiresAt: now.Add(c.ttl)}
	return nil
}

// evictLocked drops expired entries, then arbitrary ones until there is room.
func (c *InMemoryCache) evictLocked(now time.Time) {
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
		}
	}
	for k := range c.entries {
		if len(c.entries) < c.maxEntries {
			return
		}
		delete(c.entries, k)
	}
}

// Len returns the number of entries, including expired ones not yet evicted.
func (c *InMemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// cloneView copies the only pointer field so callers cannot mutate cached data.
func cloneView(v verification.View) verification.View {
	if v.Viewer.HasIssuedVerification != nil {
		issued := *v.Viewer.HasIssuedVerification
		v.Viewer.HasIssuedVerification = &issued
	}
	return v
}
