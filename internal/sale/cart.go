package sale

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/aspectxlol/uprak-pos/internal/catalog"
)

var (
	ErrNotFound            = errors.New("product not found")
	ErrInvalidQuantity     = errors.New("quantity must be at least 1")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrInsufficientPayment = errors.New("cash received is below the total")
	ErrTotalOverflow       = errors.New("total overflow")
)

type Line struct {
	ProductID int64 `json:"product_id"`
	Qty       int   `json:"qty"`
}

// Cart is the operator's uncommitted selection. It stores product ids, not
// prices: every total resolves prices from the catalog at call time, so
// catalog edits are reflected live.
type Cart struct {
	catalog catalog.Store
	lines   map[int64]Line
}

func NewCart(cs catalog.Store) *Cart {
	return &Cart{catalog: cs, lines: map[int64]Line{}}
}

// Add puts qty units of a product in the cart. Adding an id that is already
// present increments the existing line instead of duplicating it.
func (c *Cart) Add(ctx context.Context, productID int64, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}

	_, ok, err := c.catalog.Find(ctx, productID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: id %d", ErrNotFound, productID)
	}

	l := c.lines[productID]
	l.ProductID = productID
	l.Qty += qty
	c.lines[productID] = l
	return nil
}

// Remove deletes the whole line for a product, not a decrement.
func (c *Cart) Remove(productID int64) error {
	if _, ok := c.lines[productID]; !ok {
		return fmt.Errorf("%w: id %d not in cart", ErrNotFound, productID)
	}
	delete(c.lines, productID)
	return nil
}

func (c *Cart) Total(ctx context.Context) (int64, error) {
	var total int64
	for _, l := range c.Lines() {
		p, ok, err := c.catalog.Find(ctx, l.ProductID)
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, fmt.Errorf("%w: id %d", ErrNotFound, l.ProductID)
		}

		sub := p.PriceIDR * int64(l.Qty)
		if sub < 0 || total > math.MaxInt64-sub {
			return 0, ErrTotalOverflow
		}
		total += sub
	}
	return total, nil
}

func (c *Cart) IsEmpty() bool { return len(c.lines) == 0 }

func (c *Cart) Len() int { return len(c.lines) }

func (c *Cart) Clear() { c.lines = map[int64]Line{} }

// Lines returns the cart contents sorted by product id for stable display.
func (c *Cart) Lines() []Line {
	out := make([]Line, 0, len(c.lines))
	for _, l := range c.lines {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}
