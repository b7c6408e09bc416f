// Package cache puts an in-process freecache in front of a KVStore.
package cache

import (
	"context"

	"github.com/coocood/freecache"

	"github.com/aliskhannn/calearner-bot/internal/repository"
)

// Stats reports cache effectiveness.
type Stats interface {
	IncCacheHits()
	IncCacheMisses()
}

// KVStore is a read-through cache. Writes go to the backing store first and
// then invalidate the cached entry.
type KVStore struct {
	next  repository.KVStore
	cache *freecache.Cache
	ttl   int
	stats Stats
}

// NewKVStore wraps next with a cache of sizeMB megabytes. Entries expire after
// ttlSeconds.
func NewKVStore(next repository.KVStore, sizeMB, ttlSeconds int, stats Stats) *KVStore {
	return &KVStore{
		next:  next,
		cache: freecache.NewCache(sizeMB * 1024 * 1024),
		ttl:   max(ttlSeconds, 1),
		stats: stats,
	}
}

func (s *KVStore) Get(ctx context.Context, key string) (string, error) {
	if v, err := s.cache.Get([]byte(key)); err == nil {
		s.stats.IncCacheHits()
		return string(v), nil
	}
	s.stats.IncCacheMisses()

	v, err := s.next.Get(ctx, key)
	if err != nil {
		return "", err
	}

	_ = s.cache.Set([]byte(key), []byte(v), s.ttl)
	return v, nil
}

func (s *KVStore) Set(ctx context.Context, key, value string) error {
	if err := s.next.Set(ctx, key, value); err != nil {
		s.cache.Del([]byte(key))
		return err
	}
	_ = s.cache.Set([]byte(key), []byte(value), s.ttl)
	return nil
}

func (s *KVStore) Remove(ctx context.Context, key string) error {
	s.cache.Del([]byte(key))
	return s.next.Remove(ctx, key)
}

func (s *KVStore) Batch(ctx context.Context, sets map[string]string, removes []string) error {
	for k := range sets {
		s.cache.Del([]byte(k))
	}
	for _, k := range removes {
		s.cache.Del([]byte(k))
	}
	return s.next.Batch(ctx, sets, removes)
}
