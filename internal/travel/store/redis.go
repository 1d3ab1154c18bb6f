package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"travelgate/internal/platform/redis"
	"travelgate/internal/travel/models"
)

const profileKeyPrefix = "travelgate:profile:"

// RedisCache is a Cache backed by Redis so multiple instances share the same
// view of cached profiles.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, loginID string) (*models.TravelProfile, bool, error) {
	data, err := c.client.Get(ctx, profileKeyPrefix+loginID).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get profile: %w", err)
	}

	var profile models.TravelProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		// A malformed entry is treated as a miss; the next Set replaces it.
		return nil, false, nil
	}
	return &profile, true, nil
}

func (c *RedisCache) Set(ctx context.Context, loginID string, profile *models.TravelProfile, ttl time.Duration) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile for cache: %w", err)
	}
	if err := c.client.Set(ctx, profileKeyPrefix+loginID, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set profile: %w", err)
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, loginID string) error {
	if err := c.client.Del(ctx, profileKeyPrefix+loginID).Err(); err != nil {
		return fmt.Errorf("redis delete profile: %w", err)
	}
	return nil
}
