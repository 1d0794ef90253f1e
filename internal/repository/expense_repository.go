package repository

import (
	"context"
	"time"

	"github.com/classicalvivekch/building-shop-manager-sub000/internal/db"
	"github.com/classicalvivekch/building-shop-manager-sub000/internal/domain"
)

type ExpenseRepository struct {
	DB *db.Postgres
}

type CreateExpenseInput struct {
	Description  string
	Amount       int64
	Category     string
	ExpenseDate  time.Time
	ReceiptPhoto string
	CreatedBy    int64
}

// Create is the only write path; expenses have no update or delete.
func (r ExpenseRepository) Create(ctx context.Context, in CreateExpenseInput) (*domain.Expense, error) {
	var e domain.Expense
	err := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO expenses (description, amount, category, expense_date, receipt_photo, created_by, created_at)
		VALUES ($1,$2,$3,$4,$5,$6, now())
		RETURNING id, description, amount, category, expense_date, receipt_photo, created_by, created_at
	`, in.Description, in.Amount, in.Category, in.ExpenseDate, in.ReceiptPhoto, in.CreatedBy).Scan(
		&e.ID, &e.Description, &e.Amount, &e.Category, &e.ExpenseDate, &e.ReceiptPhoto, &e.CreatedBy, &e.CreatedAt,
	)
	return &e, err
}

func (r ExpenseRepository) List(ctx context.Context, limit int) ([]domain.Expense, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, description, amount, category, expense_date, receipt_photo, created_by, created_at
		FROM expenses
		ORDER BY expense_date DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectExpenses(rows)
}

func (r ExpenseRepository) ListBetween(ctx context.Context, start, end time.Time) ([]domain.Expense, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, description, amount, category, expense_date, receipt_photo, created_by, created_at
		FROM expenses
		WHERE expense_date >= $1 AND expense_date < $2
		ORDER BY expense_date DESC, id DESC
	`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectExpenses(rows)
}

func collectExpenses(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]domain.Expense, error) {
	var items []domain.Expense
	for rows.Next() {
		var e domain.Expense
		if err := rows.Scan(&e.ID, &e.Description, &e.Amount, &e.Category, &e.ExpenseDate, &e.ReceiptPhoto, &e.CreatedBy, &e.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}
