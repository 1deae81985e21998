package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// memoryStore is an in-process Store implementation backed by go-cache. It
// serves redis-less deployments and is the substitute store used in tests; it
// honors the same contract as the Redis store, including the BatchPut
// overwrite caveat.
type memoryStore struct {
	c *gocache.Cache
}

// NewMemoryStore creates an in-memory Store with background eviction.
func NewMemoryStore() Store {
	return &memoryStore{c: gocache.New(gocache.NoExpiration, 10*time.Minute)}
}

func (s *memoryStore) Get(_ context.Context, key string) (*Item, error) {
	val, found := s.c.Get(key)
	if !found {
		return nil, nil
	}
	return &Item{Key: key, Value: val.([]byte)}, nil
}

func (s *memoryStore) Put(_ context.Context, item Item, ttl time.Duration) error {
	s.c.Set(item.Key, item.Value, ttl)
	return nil
}

func (s *memoryStore) PutIfAbsent(_ context.Context, item Item, ttl time.Duration) (bool, error) {
	// Add fails when the key exists; that is the conditional-write no-op, not an error.
	if err := s.c.Add(item.Key, item.Value, ttl); err != nil {
		return false, nil
	}
	return true, nil
}

func (s *memoryStore) BatchGet(_ context.Context, keys []string) ([]Item, error) {
	items := make([]Item, 0, len(keys))
	for _, key := range keys {
		val, found := s.c.Get(key)
		if !found {
			continue
		}
		items = append(items, Item{Key: key, Value: val.([]byte)})
	}
	return items, nil
}

func (s *memoryStore) BatchPut(_ context.Context, items []Item, ttl time.Duration) error {
	for _, item := range items {
		s.c.Set(item.Key, item.Value, ttl)
	}
	return nil
}

func (s *memoryStore) Exists(_ context.Context, key string) (bool, error) {
	_, found := s.c.Get(key)
	return found, nil
}
