package sale

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
)

type PostgresJournal struct {
	db *sql.DB
}

func NewPostgresJournal(db *sql.DB) *PostgresJournal {
	return &PostgresJournal{db: db}
}

func (s *PostgresJournal) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *PostgresJournal) Append(ctx context.Context, r Receipt) error {
	lines, err := json.Marshal(r.Lines)
	if err != nil {
		return err
	}

	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO sales (id, created_at, total_idr, cash_idr, change_idr, lines)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, r.ID, r.Timestamp, r.TotalIDR, r.CashIDR, r.ChangeIDR, lines)
		return err
	})
}

func (s *PostgresJournal) Get(ctx context.Context, id string) (Receipt, bool, error) {
	var (
		r     Receipt
		lines []byte
		err   error
	)

	err = withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx, `
			SELECT id, created_at, total_idr, cash_idr, change_idr, lines
			FROM sales
			WHERE id = $1
		`, id).Scan(&r.ID, &r.Timestamp, &r.TotalIDR, &r.CashIDR, &r.ChangeIDR, &lines)
	})

	if err == sql.ErrNoRows {
		return Receipt{}, false, nil
	}
	if err != nil {
		return Receipt{}, false, err
	}
	if err := json.Unmarshal(lines, &r.Lines); err != nil {
		return Receipt{}, false, err
	}
	return r, true, nil
}

func (s *PostgresJournal) ListSortedByTime(ctx context.Context) ([]Receipt, error) {
	var out []Receipt

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT id, created_at, total_idr, cash_idr, change_idr, lines
			FROM sales
			ORDER BY created_at ASC
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]Receipt, 0, 16)
		for rows.Next() {
			var (
				r     Receipt
				lines []byte
			)
			if err := rows.Scan(&r.ID, &r.Timestamp, &r.TotalIDR, &r.CashIDR, &r.ChangeIDR, &lines); err != nil {
				return err
			}
			if err := json.Unmarshal(lines, &r.Lines); err != nil {
				return err
			}
			out = append(out, r)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
