package cart

import (
	"context"
	"sync"
)

// Store is the key-value home of authoritative cart snapshots.
type Store interface {
	Save(ctx context.Context, c *Cart) error
	// FindByID returns (nil, nil) when the cart does not exist; the caller
	// turns that into a not-found error.
	FindByID(ctx context.Context, id string) (*Cart, error)
	Remove(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}

// MemoryStore is an in-memory implementation of Store, safe for concurrent
// use. Carts are deep-copied on the way in and out so callers never alias the
// stored snapshot.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string]*Cart
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string]*Cart)}
}

func (s *MemoryStore) Save(_ context.Context, c *Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[c.ID] = c.Clone()
	return nil
}

func (s *MemoryStore) FindByID(_ context.Context, id string) (*Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.carts[id]
	if !ok {
		return nil, nil
	}
	return c.Clone(), nil
}

func (s *MemoryStore) Remove(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, id)
	return nil
}

func (s *MemoryStore) Exists(_ context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.carts[id]
	return ok, nil
}
