package sale

import "context"

// Journal is the append-only record of committed receipts, read back by the
// back-office API.
type Journal interface {
	Append(ctx context.Context, r Receipt) error
	Get(ctx context.Context, id string) (Receipt, bool, error)
	ListSortedByTime(ctx context.Context) ([]Receipt, error)
	Ping(ctx context.Context) error
}
