package repository

import (
	"context"
	"errors"

	"github.com/classicalvivekch/building-shop-manager-sub000/internal/db"
	"github.com/classicalvivekch/building-shop-manager-sub000/internal/domain"
	"github.com/jackc/pgx/v5"
)

type CustomerRepository struct {
	DB *db.Postgres
}

func (r CustomerRepository) List(ctx context.Context, limit int) ([]domain.Customer, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, name, mobile, address, created_at, updated_at
		FROM customers
		WHERE deleted_at IS NULL
		ORDER BY name ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []domain.Customer
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Mobile, &c.Address, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// UpsertByMobile deduplicates customers on mobile number; checkout calls
// this inside its transaction.
func (r CustomerRepository) UpsertByMobile(ctx context.Context, q Querier, c domain.Customer) (*domain.Customer, error) {
	var out domain.Customer
	err := q.QueryRow(ctx, `
		INSERT INTO customers (name, mobile, address, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
		ON CONFLICT (mobile) DO UPDATE SET name=EXCLUDED.name, address=EXCLUDED.address, updated_at=now(), deleted_at=NULL
		RETURNING id, name, mobile, address, created_at, updated_at
	`, c.Name, c.Mobile, c.Address).Scan(&out.ID, &out.Name, &out.Mobile, &out.Address, &out.CreatedAt, &out.UpdatedAt)
	return &out, err
}

func (r CustomerRepository) Get(ctx context.Context, id int64) (*domain.Customer, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT id, name, mobile, address, created_at, updated_at
		FROM customers
		WHERE id=$1 AND deleted_at IS NULL
	`, id)
	var c domain.Customer
	if err := row.Scan(&c.ID, &c.Name, &c.Mobile, &c.Address, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}
