package catalog

import (
	"context"
	"sort"
	"sync"
)

type MemStore struct {
	mu     sync.RWMutex
	m      map[int64]Product
	nextID int64
}

func NewMemStore() *MemStore {
	return &MemStore{m: map[int64]Product{}, nextID: 1}
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) Find(ctx context.Context, id int64) (Product, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.m[id]
	return p, ok, nil
}

func (s *MemStore) All(ctx context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, 0, len(s.m))
	for _, p := range s.m {
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemStore) Upsert(ctx context.Context, p Product) (Product, error) {
	if err := validate(p); err != nil {
		return Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == 0 {
		p.ID = s.nextID
	}
	s.m[p.ID] = p
	if p.ID >= s.nextID {
		s.nextID = p.ID + 1
	}
	return p, nil
}
