package common

import (
	"context"
	"encoding/json"
	"time"

	"github.com/patrickmn/go-cache"

	"trainingorg/quizdesk/internal/logging"
)

// CacheService is the in-process cache used when Redis is not configured.
type CacheService struct {
	cache *cache.Cache
}

// Ensure CacheService implements CacheInterface
var _ CacheInterface = (*CacheService)(nil)

func NewCacheService(defaultExpiration, cleanUpInterval time.Duration) *CacheService {
	return &CacheService{cache: cache.New(defaultExpiration, cleanUpInterval)}
}

func (cs *CacheService) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	cs.cache.Set(key, data, ttl)
	return nil
}

func (cs *CacheService) Get(_ context.Context, key string, dest any) bool {
	val, found := cs.cache.Get(key)
	if !found {
		return false
	}
	data, ok := val.([]byte)
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		logging.Warn("Memory cache: failed to decode value", "key", key, "error", err)
		return false
	}
	return true
}

func (cs *CacheService) Delete(_ context.Context, key string) {
	cs.cache.Delete(key)
}

// Close closes the cache (no-op for in-memory cache)
func (cs *CacheService) Close() error {
	return nil
}
