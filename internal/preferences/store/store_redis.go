package store

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"veritas/internal/verification"
	id "veritas/pkg/domain"
	"veritas/pkg/platform/sentinel"
)

const (
	// Redis key prefix for preference hashes
	prefsKeyPrefix = "prefs:verification:"

	fieldHideBadges = "hide_badges"
	fieldVersion    = "version"
)

// RedisStore keeps preferences in one hash per account so updates and
// version bumps happen atomically in a MULTI block.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func prefsKey(did id.DID) string {
	return prefsKeyPrefix + did.String()
}

// SetHideBadges stores the flag and bumps the version.
func (s *RedisStore) SetHideBadges(ctx context.Context, did id.DID, hide bool) (*verification.Preferences, error) {
	key := prefsKey(did)
	var version *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, fieldHideBadges, strconv.FormatBool(hide))
		version = pipe.HIncrBy(ctx, key, fieldVersion, 1)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("set preferences: %w", err)
	}
	return &verification.Preferences{HideBadges: hide, Version: version.Val()}, nil
}

func (s *RedisStore) FindByDID(ctx context.Context, did id.DID) (*verification.Preferences, error) {
	fields, err := s.client.HGetAll(ctx, prefsKey(did)).Result()
	if err != nil {
		return nil, fmt.Errorf("get preferences: %w", err)
	}
	if len(fields) == 0 {
		return nil, sentinel.ErrNotFound
	}

	prefs := &verification.Preferences{}
	if raw, ok := fields[fieldHideBadges]; ok {
		hide, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("decode hide_badges: %w: %w", sentinel.ErrInvalidState, err)
		}
		prefs.HideBadges = hide
	}
	if raw, ok := fields[fieldVersion]; ok {
		version, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("decode version: %w: %w", sentinel.ErrInvalidState, err)
		}
		prefs.Version = version
	}
	return prefs, nil
}
