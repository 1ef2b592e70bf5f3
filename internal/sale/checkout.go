package sale

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aspectxlol/uprak-pos/internal/catalog"
)

type ReceiptLine struct {
	ProductID   int64  `json:"product_id"`
	Name        string `json:"name"`
	Qty         int    `json:"qty"`
	PriceIDR    int64  `json:"price_idr"`
	SubtotalIDR int64  `json:"subtotal_idr"`
}

// Receipt is the immutable record of a committed sale. Names and prices are
// the catalog values at the instant of checkout.
type Receipt struct {
	ID        string        `json:"id"`
	Timestamp time.Time     `json:"timestamp"`
	Lines     []ReceiptLine `json:"lines"`
	TotalIDR  int64         `json:"total_idr"`
	CashIDR   int64         `json:"cash_idr"`
	ChangeIDR int64         `json:"change_idr"`
}

// Engine settles carts into receipts. Journal, Log and Metrics are optional.
type Engine struct {
	Catalog catalog.Store
	Journal Journal
	Log     *zap.Logger
	Metrics *Metrics
}

// Checkout validates payment, snapshots the cart into a Receipt and clears
// the cart. Every failure path leaves the cart untouched; the catalog is
// never mutated.
func (e *Engine) Checkout(ctx context.Context, c *Cart, cashIDR int64) (Receipt, error) {
	if c.IsEmpty() {
		e.reject("empty_cart")
		return Receipt{}, ErrEmptyCart
	}

	lines, total, err := e.snapshot(ctx, c)
	if err != nil {
		e.reject("unresolved_line")
		return Receipt{}, err
	}

	if cashIDR < total {
		e.reject("insufficient_cash")
		return Receipt{}, fmt.Errorf("%w: total %d, cash %d", ErrInsufficientPayment, total, cashIDR)
	}

	r := Receipt{
		ID:        "s_" + uuid.NewString(),
		Timestamp: time.Now(),
		Lines:     lines,
		TotalIDR:  total,
		CashIDR:   cashIDR,
		ChangeIDR: cashIDR - total,
	}

	if e.Journal != nil {
		if err := e.Journal.Append(ctx, r); err != nil {
			e.reject("journal_error")
			return Receipt{}, fmt.Errorf("journal append: %w", err)
		}
	}

	c.Clear()

	if e.Metrics != nil {
		e.Metrics.Checkouts.WithLabelValues("committed").Inc()
		e.Metrics.RevenueIDR.Add(float64(total))
	}
	if e.Log != nil {
		e.Log.Info("sale committed",
			zap.String("receipt_id", r.ID),
			zap.Int("lines", len(r.Lines)),
			zap.Int64("total_idr", r.TotalIDR),
			zap.Int64("change_idr", r.ChangeIDR),
		)
	}
	return r, nil
}

func (e *Engine) snapshot(ctx context.Context, c *Cart) ([]ReceiptLine, int64, error) {
	cartLines := c.Lines()
	out := make([]ReceiptLine, 0, len(cartLines))

	var total int64
	for _, l := range cartLines {
		p, ok, err := e.Catalog.Find(ctx, l.ProductID)
		if err != nil {
			return nil, 0, err
		}
		if !ok {
			return nil, 0, fmt.Errorf("%w: id %d", ErrNotFound, l.ProductID)
		}

		sub := p.PriceIDR * int64(l.Qty)
		if sub < 0 || total > math.MaxInt64-sub {
			return nil, 0, ErrTotalOverflow
		}
		total += sub

		out = append(out, ReceiptLine{
			ProductID:   p.ID,
			Name:        p.Name,
			Qty:         l.Qty,
			PriceIDR:    p.PriceIDR,
			SubtotalIDR: sub,
		})
	}
	return out, total, nil
}

func (e *Engine) reject(reason string) {
	if e.Metrics != nil {
		e.Metrics.Checkouts.WithLabelValues("rejected").Inc()
	}
	if e.Log != nil {
		e.Log.Warn("checkout rejected", zap.String("reason", reason))
	}
}
