package sale

import (
	"context"
	"sort"
	"sync"
)

type MemJournal struct {
	mu sync.RWMutex
	m  map[string]Receipt
}

func NewMemJournal() *MemJournal {
	return &MemJournal{m: map[string]Receipt{}}
}

func (s *MemJournal) Ping(ctx context.Context) error { return nil }

func (s *MemJournal) Append(ctx context.Context, r Receipt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[r.ID] = r
	return nil
}

func (s *MemJournal) Get(ctx context.Context, id string) (Receipt, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.m[id]
	return r, ok, nil
}

func (s *MemJournal) ListSortedByTime(ctx context.Context) ([]Receipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Receipt, 0, len(s.m))
	for _, r := range s.m {
		out = append(out, r)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}
