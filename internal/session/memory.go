package session

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"llm-pages/internal/index"
)

// MemoryStore keeps indexes in process memory. Entries expire after ttl
// without access; suitable for a single replica.
type MemoryStore struct {
	items *cache.Cache
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	cleanup := ttl / 2
	if ttl == cache.NoExpiration || cleanup <= 0 {
		cleanup = 10 * time.Minute
	}
	return &MemoryStore{items: cache.New(ttl, cleanup)}
}

func (s *MemoryStore) Get(_ context.Context, id string) (*index.Index, error) {
	if id == "" {
		return nil, ErrNoSession
	}
	v, ok := s.items.Get(id)
	if !ok {
		return nil, nil
	}
	idx := v.(*index.Index)
	// Sliding expiry: touching the session keeps it alive.
	s.items.SetDefault(id, idx)
	return idx, nil
}

func (s *MemoryStore) Set(_ context.Context, id string, idx *index.Index) error {
	if id == "" {
		return ErrNoSession
	}
	s.items.SetDefault(id, idx)
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, id string) error {
	if id == "" {
		return ErrNoSession
	}
	s.items.Delete(id)
	return nil
}

func (s *MemoryStore) Close() error {
	s.items.Flush()
	return nil
}
