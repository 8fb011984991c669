package cache

import (
	"context"
	"sync"
	"time"
)

// In-memory cache with small TTL to minimize Redis calls.
type MemCache[V any] struct {
	memoryCache   sync.Map
	cleanupTicker *time.Ticker
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
}

// Simple cache item.
type memCacheItem[V any] struct {
	value V
	ttl   time.Time
}

// NewMemCache creates a new memory cache, expired keys are swept every cleanup interval.
func NewMemCache[V any](cleanupInterval time.Duration) *MemCache[V] {
	ctx, cancel := context.WithCancel(context.Background())
	mc := &MemCache[V]{
		cancel:        cancel,
		cleanupTicker: time.NewTicker(cleanupInterval),
		ctx:           ctx,
	}
	mc.startCleanupWorker()

	return mc
}

// startCleanupWorker starts the background worker for memory cleaning.
func (mc *MemCache[V]) startCleanupWorker() {
	mc.wg.Add(1)
	go func() {
		defer mc.wg.Done()
		for {
			select {
			case <-mc.cleanupTicker.C:
				mc.cleanup()
			case <-mc.ctx.Done():
				return
			}
		}
	}()
}

// cleanup goes through each key and cleans any expired key.
func (mc *MemCache[V]) cleanup() {
	now := time.Now()
	mc.memoryCache.Range(func(key, value any) bool {
		item := value.(*memCacheItem[V])
		if now.After(item.ttl) {
			mc.memoryCache.Delete(key)
		}
		return true
	})
}

// Close shutdown the memory cache worker.
func (mc *MemCache[V]) Close() {
	mc.cancel()
	mc.cleanupTicker.Stop()
	mc.wg.Wait()
}

// Get returns the value of a key.
func (mc *MemCache[V]) Get(key string) (V, bool) {
	var zero V

	value, exists := mc.memoryCache.Load(key)
	if !exists {
		return zero, false
	}

	item := value.(*memCacheItem[V])

	// If the reset time was reached, remove the cache.
	if time.Now().After(item.ttl) {
		mc.memoryCache.Delete(key)
		return zero, false
	}

	return item.value, true
}

// Set a given key on the cache.
func (mc *MemCache[V]) Set(key string, value V, ttl time.Duration) {
	mc.memoryCache.Store(key, &memCacheItem[V]{
		value: value,
		ttl:   time.Now().Add(ttl),
	})
}

// Delete removes a key.
func (mc *MemCache[V]) Delete(key string) {
	mc.memoryCache.Delete(key)
}
