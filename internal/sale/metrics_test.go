package sale

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestEngine_MetricsCountOutcomes(t *testing.T) {
	ctx := context.Background()
	store := penAndBook()
	m := NewMetrics(prometheus.NewRegistry())
	e := &Engine{Catalog: store, Metrics: m}

	// empty cart is a rejection
	if _, err := e.Checkout(ctx, NewCart(store), 10000); err == nil {
		t.Fatalf("want error for empty cart")
	}
	if got := testutil.ToFloat64(m.Checkouts.WithLabelValues("rejected")); got != 1 {
		t.Fatalf("rejected=%v want 1", got)
	}

	// insufficient cash is a rejection too
	c := NewCart(store)
	if err := c.Add(ctx, 1, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := e.Checkout(ctx, c, 100); err == nil {
		t.Fatalf("want error for insufficient cash")
	}
	if got := testutil.ToFloat64(m.Checkouts.WithLabelValues("rejected")); got != 2 {
		t.Fatalf("rejected=%v want 2", got)
	}
	if got := testutil.ToFloat64(m.Checkouts.WithLabelValues("committed")); got != 0 {
		t.Fatalf("committed=%v want 0", got)
	}

	// a committed sale counts once and adds its total to revenue
	if _, err := e.Checkout(ctx, c, 2000); err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if got := testutil.ToFloat64(m.Checkouts.WithLabelValues("committed")); got != 1 {
		t.Fatalf("committed=%v want 1", got)
	}
	if got := testutil.ToFloat64(m.RevenueIDR); got != 2000 {
		t.Fatalf("revenue=%v want 2000", got)
	}
}
