package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

type Product struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	PriceIDR int64  `json:"price_idr"`
}

var (
	ErrEmptyName       = errors.New("product name required")
	ErrNegativePrice   = errors.New("product price must not be negative")
	ErrMalformedRecord = errors.New("malformed catalog record")
)

// MalformedRecordError reports a row of the catalog file that could not be
// parsed, with its 1-based line number.
type MalformedRecordError struct {
	Line  int
	Cause error
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed catalog record at line %d: %v", e.Line, e.Cause)
}

func (e *MalformedRecordError) Unwrap() error { return ErrMalformedRecord }

// Store is the catalog contract the transaction engine depends on. Products
// are edit-only; there is no delete.
type Store interface {
	Find(ctx context.Context, id int64) (Product, bool, error)
	All(ctx context.Context) ([]Product, error)
	Upsert(ctx context.Context, p Product) (Product, error)
	Ping(ctx context.Context) error
}

func validate(p Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if p.PriceIDR < 0 {
		return ErrNegativePrice
	}
	return nil
}
