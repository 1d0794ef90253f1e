package repository

import (
	"context"
	"errors"
	"time"

	"github.com/classicalvivekch/building-shop-manager-sub000/internal/db"
	"github.com/classicalvivekch/building-shop-manager-sub000/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type BorrowRepository struct {
	DB *db.Postgres
}

// BorrowRow is a borrow record joined with its sale and customer for the
// borrowers report.
type BorrowRow struct {
	Record         domain.BorrowRecord
	OrderNumber    string
	SaleAmount     int64
	CustomerName   string
	CustomerMobile string
}

const borrowColumns = `
	b.id, b.sale_id, b.borrow_date, b.due_date, b.outstanding_amount,
	b.is_returned, b.reminder_dismissed, b.dismissed_by, b.dismissed_at, b.returned_at, b.created_at`

// ListActive returns unreturned borrows, oldest debt first.
func (r BorrowRepository) ListActive(ctx context.Context) ([]BorrowRow, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT `+borrowColumns+`,
			s.order_number, s.total_amount, COALESCE(c.name,''), COALESCE(c.mobile,'')
		FROM borrow_records b
		JOIN sales s ON s.id = b.sale_id
		LEFT JOIN customers c ON c.id = s.customer_id
		WHERE b.is_returned = false AND s.deleted_at IS NULL
		ORDER BY b.borrow_date ASC, b.id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []BorrowRow
	for rows.Next() {
		var row BorrowRow
		if err := scanBorrowRow(rows, &row); err != nil {
			return nil, err
		}
		items = append(items, row)
	}
	return items, rows.Err()
}

func (r BorrowRepository) Get(ctx context.Context, id int64) (*domain.BorrowRecord, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT `+borrowColumns+`
		FROM borrow_records b
		WHERE b.id=$1
	`, id)
	var b domain.BorrowRecord
	if err := scanBorrow(row, &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// Return settles a borrow: zeroes the outstanding amount, stamps
// returned_at, and flips the parent sale to PAID. Calling it twice just
// re-writes the same fields.
func (r BorrowRepository) Return(ctx context.Context, id int64) (*domain.BorrowRecord, error) {
	tx, err := r.DB.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var b domain.BorrowRecord
	row := tx.QueryRow(ctx, `
		UPDATE borrow_records b
		SET is_returned = true, returned_at = now(), outstanding_amount = 0
		WHERE id=$1
		RETURNING `+borrowColumns+`
	`, id)
	if err := scanBorrow(row, &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE sales SET payment_status=$2 WHERE id=$1
	`, b.SaleID, domain.PaymentPaid); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &b, nil
}

// DismissReminder hides the borrow from overdue alerts without settling it.
func (r BorrowRepository) DismissReminder(ctx context.Context, id, dismissedBy int64) (*domain.BorrowRecord, error) {
	var b domain.BorrowRecord
	row := r.DB.Pool.QueryRow(ctx, `
		UPDATE borrow_records b
		SET reminder_dismissed = true, dismissed_by = $2, dismissed_at = now()
		WHERE id=$1
		RETURNING `+borrowColumns+`
	`, id, dismissedBy)
	if err := scanBorrow(row, &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r BorrowRepository) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM borrow_records WHERE is_returned = false
	`).Scan(&n)
	return n, err
}

// CountCreatedBetween feeds the week-over-week comparison: borrows created
// in the prior window, returned or not.
func (r BorrowRepository) CountCreatedBetween(ctx context.Context, start, end time.Time) (int64, error) {
	var n int64
	err := r.DB.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM borrow_records WHERE borrow_date >= $1 AND borrow_date < $2
	`, start, end).Scan(&n)
	return n, err
}

func (r BorrowRepository) OutstandingTotal(ctx context.Context) (int64, error) {
	var total int64
	err := r.DB.Pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(outstanding_amount),0) FROM borrow_records WHERE is_returned = false
	`).Scan(&total)
	return total, err
}

func scanBorrow(row pgx.Row, b *domain.BorrowRecord) error {
	var dismissedBy pgtype.Int8
	var dismissedAt, returnedAt pgtype.Timestamptz
	if err := row.Scan(
		&b.ID, &b.SaleID, &b.BorrowDate, &b.DueDate, &b.OutstandingAmount,
		&b.IsReturned, &b.ReminderDismissed, &dismissedBy, &dismissedAt, &returnedAt, &b.CreatedAt,
	); err != nil {
		return err
	}
	if dismissedBy.Valid {
		b.DismissedBy = &dismissedBy.Int64
	}
	if dismissedAt.Valid {
		t := dismissedAt.Time
		b.DismissedAt = &t
	}
	if returnedAt.Valid {
		t := returnedAt.Time
		b.ReturnedAt = &t
	}
	return nil
}

func scanBorrowRow(rows pgx.Rows, out *BorrowRow) error {
	var dismissedBy pgtype.Int8
	var dismissedAt, returnedAt pgtype.Timestamptz
	if err := rows.Scan(
		&out.Record.ID, &out.Record.SaleID, &out.Record.BorrowDate, &out.Record.DueDate, &out.Record.OutstandingAmount,
		&out.Record.IsReturned, &out.Record.ReminderDismissed, &dismissedBy, &dismissedAt, &returnedAt, &out.Record.CreatedAt,
		&out.OrderNumber, &out.SaleAmount, &out.CustomerName, &out.CustomerMobile,
	); err != nil {
		return err
	}
	if dismissedBy.Valid {
		out.Record.DismissedBy = &dismissedBy.Int64
	}
	if dismissedAt.Valid {
		t := dismissedAt.Time
		out.Record.DismissedAt = &t
	}
	if returnedAt.Valid {
		t := returnedAt.Time
		out.Record.ReturnedAt = &t
	}
	return nil
}
