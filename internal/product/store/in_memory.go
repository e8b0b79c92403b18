package store

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/abgdnv/product-management/internal/product/errors"
	"github.com/abgdnv/product-management/internal/product/store/db"
)

// InMemoryStore implements ProductStore using an in-memory map.
// Transactions are serialized and roll back by restoring a snapshot.
type InMemoryStore struct {
	mu       sync.RWMutex
	txMu     sync.Mutex
	products map[int64]db.Product
	nextID   int64
}

// NewInMemoryStore creates a new, empty InMemoryStore.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		products: make(map[int64]db.Product),
		nextID:   1,
	}
}

// ListAll retrieves all products ordered by ID.
func (s *InMemoryStore) ListAll(ctx context.Context) ([]db.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := slices.Sorted(maps.Keys(s.products))
	list := make([]db.Product, 0, len(ids))
	for _, id := range ids {
		list = append(list, s.products[id])
	}
	return list, nil
}

// FindByID retrieves a product by its ID.
func (s *InMemoryStore) FindByID(ctx context.Context, id int64) (*db.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, errors.ErrProductNotFound
	}
	return &p, nil
}

// Save assigns the next ID to p and stores it.
func (s *InMemoryStore) Save(ctx context.Context, p *db.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = s.nextID
	s.nextID++
	s.products[p.ID] = *p
	return nil
}

// Persist replaces the stored copy of p.
func (s *InMemoryStore) Persist(ctx context.Context, p *db.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[p.ID]; !ok {
		return errors.ErrProductNotFound
	}
	s.products[p.ID] = *p
	return nil
}

// DeleteByID deletes a product by its ID.
func (s *InMemoryStore) DeleteByID(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[id]; !exists {
		return false, nil
	}
	delete(s.products, id)
	return true, nil
}

// InTx runs fn exclusively against the store and restores the previous state if fn fails.
func (s *InMemoryStore) InTx(ctx context.Context, fn func(tx ProductStore) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := maps.Clone(s.products)
	nextID := s.nextID
	s.mu.RUnlock()

	if err := fn(&inMemoryTx{s}); err != nil {
		s.mu.Lock()
		s.products = snapshot
		s.nextID = nextID
		s.mu.Unlock()
		return err
	}
	return nil
}

// Ping always succeeds.
func (s *InMemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// inMemoryTx is the store handed to InTx callbacks; nested transactions join the outer one.
type inMemoryTx struct {
	*InMemoryStore
}

func (t *inMemoryTx) InTx(_ context.Context, fn func(tx ProductStore) error) error {
	return fn(t)
}
