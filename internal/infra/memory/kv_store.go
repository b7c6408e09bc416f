// Package memory provides an in-process KVStore for local runs and tests.
package memory

import (
	"context"
	"sync"

	"github.com/aliskhannn/calearner-bot/internal/repository"
)

type KVStore struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewKVStore() *KVStore {
	return &KVStore{data: make(map[string]string)}
}

func (s *KVStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return "", repository.ErrNotFound
	}
	return v, nil
}

func (s *KVStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = value
	return nil
}

func (s *KVStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}

func (s *KVStore) Batch(_ context.Context, sets map[string]string, removes []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, v := range sets {
		s.data[k] = v
	}
	for _, k := range removes {
		delete(s.data, k)
	}
	return nil
}

// Len returns the number of stored keys.
func (s *KVStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
