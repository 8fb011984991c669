package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hoopstats/pkg/profile"
	"hoopstats/pkg/redis"

	goredis "github.com/redis/go-redis/v9"
)

const fetchLockPrefix = "force_fetch:"

// ProfileCache is the public interface for the cached profiles.
type ProfileCache interface {
	GetProfile(ctx context.Context, key string) (*profile.Profile, error)
	SetProfile(ctx context.Context, p *profile.Profile) error
	AcquireFetchLock(ctx context.Context, key string, ttl time.Duration) (bool, time.Duration, error)
	ReleaseFetchLock(ctx context.Context, key string) error
}

// Create a redis cache client.
type profileCache struct {
	redis *redis.RedisClient
	ttl   time.Duration
}

// NewProfileCache creates a new instance of the profile redis cache.
func NewProfileCache(client *redis.RedisClient, ttl time.Duration) ProfileCache {
	return &profileCache{
		redis: client,
		ttl:   ttl,
	}
}

// GetProfile returns the cached profile, nil if the key doesn't exist.
func (pc *profileCache) GetProfile(ctx context.Context, key string) (*profile.Profile, error) {
	raw, err := pc.redis.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("couldn't get %s: %w", key, err)
	}

	var p profile.Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		// A broken entry is a miss, it gets replaced on the next store.
		return nil, nil
	}

	return &p, nil
}

// SetProfile saves a given profile in cache.
func (pc *profileCache) SetProfile(ctx context.Context, p *profile.Profile) error {
	j, err := json.Marshal(p)
	if err != nil {
		return err
	}

	key := profile.CacheKey(p.PlayerID, p.Season, p.SeasonType)
	return pc.redis.Set(ctx, key, j, pc.ttl).Err()
}

// AcquireFetchLock tries to take the force fetch lock of a key.
// When the lock is held by someone else, the remaining TTL is returned.
func (pc *profileCache) AcquireFetchLock(ctx context.Context, key string, ttl time.Duration) (bool, time.Duration, error) {
	lockKey := fetchLockPrefix + key

	acquired, err := pc.redis.SetNX(ctx, lockKey, "processing", ttl).Result()
	if err != nil {
		return false, 0, fmt.Errorf("couldn't check the fetch lock on redis: %w", err)
	}
	if acquired {
		return true, 0, nil
	}

	remaining, err := pc.redis.TTL(ctx, lockKey).Result()
	if err != nil || remaining < 0 {
		return false, 0, nil
	}

	return false, remaining, nil
}

// ReleaseFetchLock removes the force fetch lock of a key.
func (pc *profileCache) ReleaseFetchLock(ctx context.Context, key string) error {
	return pc.redis.Del(ctx, fetchLockPrefix+key).Err()
}
