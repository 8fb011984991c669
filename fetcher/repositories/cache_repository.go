package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"hoopstats/pkg/profile"
	"hoopstats/pkg/redis"
)

// CacheRepository writes the built profiles to the shared cache.
type CacheRepository interface {
	SetProfile(ctx context.Context, p *profile.Profile) error
}

type cacheRepository struct {
	redis *redis.RedisClient
	ttl   time.Duration
}

// NewCacheRepository creates the cache repository.
func NewCacheRepository(client *redis.RedisClient, ttl time.Duration) CacheRepository {
	return &cacheRepository{redis: client, ttl: ttl}
}

// SetProfile stores the profile under its cache key.
func (cr *cacheRepository) SetProfile(ctx context.Context, p *profile.Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("couldn't marshal the profile of %d: %w", p.PlayerID, err)
	}

	key := profile.CacheKey(p.PlayerID, p.Season, p.SeasonType)
	if err := cr.redis.Set(ctx, key, data, cr.ttl).Err(); err != nil {
		return fmt.Errorf("couldn't cache %s: %w", key, err)
	}

	return nil
}
