package objects

import (
	"bytes"
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of objects kept by NewCachedStore when size <= 0.
const DefaultCacheSize = 256

// CachedStore is a read-through LRU cache in front of another Store.
// Objects are immutable, so cached entries never go stale.
type CachedStore struct {
	next  Store
	cache *lru.Cache[string, []byte]
}

// NewCachedStore wraps next with an LRU cache holding up to size objects.
func NewCachedStore(next Store, size int) (*CachedStore, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, fmt.Errorf("create object cache: %w", err)
	}
	return &CachedStore{next: next, cache: cache}, nil
}

func (c *CachedStore) Put(ctx context.Context, data []byte) (string, error) {
	id, err := c.next.Put(ctx, data)
	if err != nil {
		return "", err
	}
	c.cache.Add(id, bytes.Clone(data))
	return id, nil
}

// Get returns a copy of the cached bytes so callers cannot corrupt the cache.
func (c *CachedStore) Get(ctx context.Context, id string) ([]byte, error) {
	if data, ok := c.cache.Get(id); ok {
		return bytes.Clone(data), nil
	}
	data, err := c.next.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.cache.Add(id, bytes.Clone(data))
	return data, nil
}

func (c *CachedStore) Has(ctx context.Context, id string) (bool, error) {
	if c.cache.Contains(id) {
		return true, nil
	}
	return c.next.Has(ctx, id)
}

// Len returns the number of cached objects.
func (c *CachedStore) Len() int { return c.cache.Len() }
