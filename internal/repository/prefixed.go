package repository

import "context"

// Prefixed scopes every key of a store with a fixed prefix. One chat gets one
// prefix, the way one browser gets its own local storage.
type Prefixed struct {
	store  KVStore
	prefix string
}

// NewPrefixed wraps store.
func NewPrefixed(store KVStore, prefix string) *Prefixed {
	return &Prefixed{store: store, prefix: prefix}
}

func (p *Prefixed) Get(ctx context.Context, key string) (string, error) {
	return p.store.Get(ctx, p.prefix+key)
}

func (p *Prefixed) Set(ctx context.Context, key, value string) error {
	return p.store.Set(ctx, p.prefix+key, value)
}

func (p *Prefixed) Remove(ctx context.Context, key string) error {
	return p.store.Remove(ctx, p.prefix+key)
}

func (p *Prefixed) Batch(ctx context.Context, sets map[string]string, removes []string) error {
	scopedSets := make(map[string]string, len(sets))
	for k, v := range sets {
		scopedSets[p.prefix+k] = v
	}

	scopedRemoves := make([]string, len(removes))
	for i, k := range removes {
		scopedRemoves[i] = p.prefix + k
	}

	return p.store.Batch(ctx, scopedSets, scopedRemoves)
}
