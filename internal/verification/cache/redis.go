package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"veritas/internal/verification"
	"veritas/pkg/platform/sentinel"
)

// RedisCache shares memoized views across instances.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key Key) (verification.View, error) {
	raw, err := c.client.Get(ctx, key.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return verification.View{}, sentinel.ErrNotFound
	}
	if err != nil {
		return verification.View{}, fmt.Errorf("get cached view: %w", err)
	}

	var view verification.View
	if err := json.Unmarshal(raw, &view); err != nil {
		return verification.View{}, fmt.Errorf("decode cached view: %w: %w", sentinel.ErrInvalidState, err)
	}
	return view, nil
}

func (c *RedisCache) Set(ctx context.Context, key Key, view verification.View) error {
	raw, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("encode cached view: %w", err)
	}
	if err := c.client.Set(ctx, key.String(), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set cached view: %w", err)
	}
	return nil
}
