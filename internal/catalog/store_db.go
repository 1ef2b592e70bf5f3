package catalog

import (
	"context"
	"database/sql"
	"time"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *PostgresStore) All(ctx context.Context) ([]Product, error) {
	var out []Product

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT id, name, price_idr
			FROM products
			ORDER BY id ASC
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]Product, 0, 16)
		for rows.Next() {
			var p Product
			if err := rows.Scan(&p.ID, &p.Name, &p.PriceIDR); err != nil {
				return err
			}
			out = append(out, p)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) Find(ctx context.Context, id int64) (Product, bool, error) {
	var (
		p   Product
		err error
	)

	err = withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx, `
			SELECT id, name, price_idr
			FROM products
			WHERE id = $1
		`, id).Scan(&p.ID, &p.Name, &p.PriceIDR)
	})

	if err == sql.ErrNoRows {
		return Product{}, false, nil
	}
	if err != nil {
		return Product{}, false, err
	}
	return p, true, nil
}

func (s *PostgresStore) Upsert(ctx context.Context, p Product) (Product, error) {
	if err := validate(p); err != nil {
		return Product{}, err
	}

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		if p.ID == 0 {
			return s.db.QueryRowContext(ctx, `
				INSERT INTO products (name, price_idr)
				VALUES ($1, $2)
				RETURNING id
			`, p.Name, p.PriceIDR).Scan(&p.ID)
		}

		_, err := s.db.ExecContext(ctx, `
			INSERT INTO products (id, name, price_idr)
			VALUES ($1, $2, $3)
			ON CONFLICT (id) DO UPDATE SET name = $2, price_idr = $3
		`, p.ID, p.Name, p.PriceIDR)
		return err
	})

	if err != nil {
		return Product{}, err
	}
	return p, nil
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
