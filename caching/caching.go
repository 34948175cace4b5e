// Package caching holds short-lived, process-local values such as dashboard
// counters that are cheap to recompute but read on every page view.
package caching

import (
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	DefaultTTL      = 30 * time.Second
	cleanupInterval = 5 * time.Minute
)

type Cache struct {
	memoryCache *cache.Cache
}

func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{memoryCache: cache.New(ttl, cleanupInterval)}
}

// GetOrLoad returns the cached value under key, calling load and caching its
// result on a miss. Errors from load are returned and nothing is cached.
func (s *Cache) GetOrLoad(key string, load func() (any, error)) (any, error) {
	if v, ok := s.memoryCache.Get(key); ok {
		return v, nil
	}
	v, err := load()
	if err != nil {
		return nil, err
	}
	s.memoryCache.SetDefault(key, v)
	return v, nil
}

func (s *Cache) Invalidate(keys ...string) {
	for _, k := range keys {
		s.memoryCache.Delete(k)
	}
}

func (s *Cache) Memory() *cache.Cache {
	return s.memoryCache
}
