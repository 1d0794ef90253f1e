package repository

import (
	"context"
	"errors"

	"github.com/classicalvivekch/building-shop-manager-sub000/internal/db"
	"github.com/classicalvivekch/building-shop-manager-sub000/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type SalaryRepository struct {
	DB *db.Postgres
}

type UpsertSalaryInput struct {
	UserID int64
	Amount int64
	Month  int
	Year   int
	Notes  string
}

// Upsert keeps one payment row per (user, month, year).
func (r SalaryRepository) Upsert(ctx context.Context, in UpsertSalaryInput) (*domain.SalaryPayment, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO salary_payments (user_id, amount, month, year, status, notes, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6, now(), now())
		ON CONFLICT (user_id, month, year) DO UPDATE SET
			amount=EXCLUDED.amount,
			notes=EXCLUDED.notes,
			updated_at=now()
		RETURNING id, user_id, amount, month, year, status, notes, paid_at, created_at, updated_at
	`, in.UserID, in.Amount, in.Month, in.Year, domain.SalaryPending, in.Notes)
	return scanSalary(row)
}

func (r SalaryRepository) ListForMonth(ctx context.Context, month, year int) ([]domain.SalaryPayment, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT sp.id, sp.user_id, sp.amount, sp.month, sp.year, sp.status, sp.notes, sp.paid_at, sp.created_at, sp.updated_at,
			COALESCE(u.name,'')
		FROM salary_payments sp
		LEFT JOIN users u ON u.id = sp.user_id
		WHERE sp.month=$1 AND sp.year=$2
		ORDER BY u.name ASC, sp.id ASC
	`, month, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.SalaryPayment
	for rows.Next() {
		var sp domain.SalaryPayment
		var status string
		var paidAt pgtype.Timestamptz
		if err := rows.Scan(&sp.ID, &sp.UserID, &sp.Amount, &sp.Month, &sp.Year, &status, &sp.Notes, &paidAt, &sp.CreatedAt, &sp.UpdatedAt, &sp.UserName); err != nil {
			return nil, err
		}
		sp.Status = domain.SalaryStatus(status)
		if paidAt.Valid {
			t := paidAt.Time
			sp.PaidAt = &t
		}
		items = append(items, sp)
	}
	return items, rows.Err()
}

// MarkPaid transitions a payment to PAID and stamps paid_at.
func (r SalaryRepository) MarkPaid(ctx context.Context, id int64) (*domain.SalaryPayment, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		UPDATE salary_payments
		SET status=$2, paid_at=now(), updated_at=now()
		WHERE id=$1
		RETURNING id, user_id, amount, month, year, status, notes, paid_at, created_at, updated_at
	`, id, domain.SalaryPaid)
	sp, err := scanSalary(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sp, nil
}

func scanSalary(row pgx.Row) (*domain.SalaryPayment, error) {
	var sp domain.SalaryPayment
	var status string
	var paidAt pgtype.Timestamptz
	if err := row.Scan(&sp.ID, &sp.UserID, &sp.Amount, &sp.Month, &sp.Year, &status, &sp.Notes, &paidAt, &sp.CreatedAt, &sp.UpdatedAt); err != nil {
		return nil, err
	}
	sp.Status = domain.SalaryStatus(status)
	if paidAt.Valid {
		t := paidAt.Time
		sp.PaidAt = &t
	}
	return &sp, nil
}
