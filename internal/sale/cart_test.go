package sale

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/aspectxlol/uprak-pos/internal/catalog"
)

// fakeStore allows tests to drop products out from under the cart, which the
// real stores never do.
type fakeStore struct {
	mu sync.Mutex
	m  map[int64]catalog.Product
}

func newFakeStore(products ...catalog.Product) *fakeStore {
	s := &fakeStore{m: map[int64]catalog.Product{}}
	for _, p := range products {
		s.m[p.ID] = p
	}
	return s
}

func (s *fakeStore) Find(ctx context.Context, id int64) (catalog.Product, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.m[id]
	return p, ok, nil
}

func (s *fakeStore) All(ctx context.Context) ([]catalog.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]catalog.Product, 0, len(s.m))
	for _, p := range s.m {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeStore) Upsert(ctx context.Context, p catalog.Product) (catalog.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[p.ID] = p
	return p, nil
}

func (s *fakeStore) Ping(ctx context.Context) error { return nil }

func (s *fakeStore) remove(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, id)
}

func penAndBook() *fakeStore {
	return newFakeStore(
		catalog.Product{ID: 1, Name: "Pen", PriceIDR: 2000},
		catalog.Product{ID: 2, Name: "Book", PriceIDR: 15000},
	)
}

func TestCart_AddAndTotal(t *testing.T) {
	ctx := context.Background()
	c := NewCart(penAndBook())

	if err := c.Add(ctx, 1, 3); err != nil {
		t.Fatalf("add: %v", err)
	}

	total, err := c.Total(ctx)
	if err != nil {
		t.Fatalf("total: %v", err)
	}
	if total != 6000 {
		t.Fatalf("total=%d want 6000", total)
	}
}

func TestCart_AddAccumulatesQuantity(t *testing.T) {
	ctx := context.Background()
	c := NewCart(penAndBook())

	if err := c.Add(ctx, 1, 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := c.Add(ctx, 1, 3); err != nil {
		t.Fatalf("add: %v", err)
	}

	lines := c.Lines()
	if len(lines) != 1 {
		t.Fatalf("lines=%d want 1", len(lines))
	}
	if lines[0].Qty != 5 {
		t.Fatalf("qty=%d want 5", lines[0].Qty)
	}
}

func TestCart_AddRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	c := NewCart(penAndBook())

	if err := c.Add(ctx, 1, 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("err=%v want ErrInvalidQuantity", err)
	}
	if err := c.Add(ctx, 99, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err=%v want ErrNotFound", err)
	}
	if !c.IsEmpty() {
		t.Fatalf("cart mutated on failed add")
	}
}

func TestCart_RemoveMissingLineLeavesCartUnchanged(t *testing.T) {
	ctx := context.Background()
	c := NewCart(penAndBook())

	if err := c.Add(ctx, 1, 1); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := c.Remove(2); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err=%v want ErrNotFound", err)
	}
	if c.Len() != 1 {
		t.Fatalf("len=%d want 1", c.Len())
	}

	if err := c.Remove(1); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if !c.IsEmpty() {
		t.Fatalf("cart not empty after remove")
	}
}

func TestCart_TotalSurfacesVanishedProduct(t *testing.T) {
	ctx := context.Background()
	store := penAndBook()
	c := NewCart(store)

	if err := c.Add(ctx, 1, 2); err != nil {
		t.Fatalf("add: %v", err)
	}

	store.remove(1)

	if _, err := c.Total(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err=%v want ErrNotFound", err)
	}
}

func TestCart_TotalReflectsLivePrices(t *testing.T) {
	ctx := context.Background()
	store := penAndBook()
	c := NewCart(store)

	if err := c.Add(ctx, 1, 2); err != nil {
		t.Fatalf("add: %v", err)
	}

	if _, err := store.Upsert(ctx, catalog.Product{ID: 1, Name: "Pen", PriceIDR: 3000}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	total, err := c.Total(ctx)
	if err != nil {
		t.Fatalf("total: %v", err)
	}
	if total != 6000 {
		t.Fatalf("total=%d want 6000 after price edit", total)
	}
}

func TestCart_ClearIsIdempotent(t *testing.T) {
	ctx := context.Background()
	c := NewCart(penAndBook())

	if err := c.Add(ctx, 2, 1); err != nil {
		t.Fatalf("add: %v", err)
	}

	c.Clear()
	c.Clear()
	if !c.IsEmpty() {
		t.Fatalf("cart not empty")
	}

	total, err := c.Total(ctx)
	if err != nil {
		t.Fatalf("total: %v", err)
	}
	if total != 0 {
		t.Fatalf("total=%d want 0", total)
	}
}
