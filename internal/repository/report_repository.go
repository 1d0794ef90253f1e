package repository

import (
	"context"
	"time"

	"github.com/classicalvivekch/building-shop-manager-sub000/internal/db"
	"github.com/classicalvivekch/building-shop-manager-sub000/internal/domain"
)

type ReportRepository struct {
	DB *db.Postgres
}

type SalesTotals struct {
	Total int64
	Count int64
}

type CategoryTotal struct {
	Category string
	Total    int64
	Count    int64
}

type ItemTotal struct {
	Name     string
	Quantity int64
	Revenue  int64
}

type CustomerTotal struct {
	CustomerID int64
	Name       string
	Mobile     string
	Total      int64
	Paid       int64
	Pending    int64
	OrderCount int64
}

type EmployeeTotal struct {
	UserID int64
	Name   string
	Total  int64
	Count  int64
}

type SaleExportRow struct {
	OrderNumber   string
	Date          time.Time
	CustomerName  string
	EmployeeName  string
	TotalAmount   int64
	PaymentStatus string
	IsBorrow      bool
}

func (r ReportRepository) SalesTotals(ctx context.Context, start, end time.Time) (SalesTotals, error) {
	var t SalesTotals
	err := r.DB.Pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_amount),0), COUNT(*)
		FROM sales
		WHERE deleted_at IS NULL AND created_at >= $1 AND created_at < $2
	`, start, end).Scan(&t.Total, &t.Count)
	return t, err
}

func (r ReportRepository) ExpenseTotal(ctx context.Context, start, end time.Time) (int64, error) {
	var total int64
	err := r.DB.Pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount),0)
		FROM expenses
		WHERE expense_date >= $1 AND expense_date < $2
	`, start, end).Scan(&total)
	return total, err
}

func (r ReportRepository) SalesByCategory(ctx context.Context, start, end time.Time) ([]CategoryTotal, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT COALESCE(it.category, 'uncategorized'), COALESCE(SUM(si.subtotal),0), COUNT(DISTINCT si.sale_id)
		FROM sale_items si
		JOIN sales s ON s.id = si.sale_id
		LEFT JOIN inventory_items it ON it.id = si.item_id
		WHERE s.deleted_at IS NULL AND s.created_at >= $1 AND s.created_at < $2
		GROUP BY 1
		ORDER BY 2 DESC
	`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CategoryTotal
	for rows.Next() {
		var c CategoryTotal
		if err := rows.Scan(&c.Category, &c.Total, &c.Count); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

func (r ReportRepository) TopItems(ctx context.Context, start, end time.Time, limit int) ([]ItemTotal, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT COALESCE(si.item_name, it.name, 'deleted item'), COALESCE(SUM(si.quantity),0), COALESCE(SUM(si.subtotal),0) AS revenue
		FROM sale_items si
		JOIN sales s ON s.id = si.sale_id
		LEFT JOIN inventory_items it ON it.id = si.item_id
		WHERE s.deleted_at IS NULL AND s.created_at >= $1 AND s.created_at < $2
		GROUP BY 1
		ORDER BY revenue DESC
		LIMIT $3
	`, start, end, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ItemTotal
	for rows.Next() {
		var it ItemTotal
		if err := rows.Scan(&it.Name, &it.Quantity, &it.Revenue); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r ReportRepository) CustomerTotals(ctx context.Context, start, end time.Time) ([]CustomerTotal, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT c.id, c.name, c.mobile,
			COALESCE(SUM(s.total_amount),0),
			COALESCE(SUM(s.total_amount) FILTER (WHERE s.payment_status = 'PAID'),0),
			COALESCE(SUM(s.total_amount) FILTER (WHERE s.payment_status <> 'PAID'),0),
			COUNT(*)
		FROM sales s
		JOIN customers c ON c.id = s.customer_id
		WHERE s.deleted_at IS NULL AND s.created_at >= $1 AND s.created_at < $2
		GROUP BY c.id, c.name, c.mobile
		ORDER BY 4 DESC
	`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CustomerTotal
	for rows.Next() {
		var c CustomerTotal
		if err := rows.Scan(&c.CustomerID, &c.Name, &c.Mobile, &c.Total, &c.Paid, &c.Pending, &c.OrderCount); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

func (r ReportRepository) EmployeeTotals(ctx context.Context, start, end time.Time) ([]EmployeeTotal, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT u.id, u.name, COALESCE(SUM(s.total_amount),0), COUNT(*)
		FROM sales s
		JOIN users u ON u.id = s.created_by
		WHERE s.deleted_at IS NULL AND s.created_at >= $1 AND s.created_at < $2
		GROUP BY u.id, u.name
		ORDER BY 3 DESC
	`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []EmployeeTotal
	for rows.Next() {
		var e EmployeeTotal
		if err := rows.Scan(&e.UserID, &e.Name, &e.Total, &e.Count); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

// MonthlyInvoiceCount counts sales in the current calendar month.
func (r ReportRepository) MonthlyInvoiceCount(ctx context.Context, monthStart, monthEnd time.Time) (int64, error) {
	var n int64
	err := r.DB.Pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM sales
		WHERE deleted_at IS NULL AND created_at >= $1 AND created_at < $2
	`, monthStart, monthEnd).Scan(&n)
	return n, err
}

// InventoryLoss is defined narrowly as the sum of expenses tagged
// INVENTORY within the month.
func (r ReportRepository) InventoryLoss(ctx context.Context, monthStart, monthEnd time.Time) (int64, error) {
	var total int64
	err := r.DB.Pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount),0)
		FROM expenses
		WHERE category = $3 AND expense_date >= $1 AND expense_date < $2
	`, monthStart, monthEnd, domain.ExpenseCategoryInventory).Scan(&total)
	return total, err
}

func (r ReportRepository) SaleRows(ctx context.Context, start, end time.Time) ([]SaleExportRow, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT s.order_number, s.created_at, COALESCE(c.name,''), COALESCE(u.name,''), s.total_amount, s.payment_status, s.is_borrow
		FROM sales s
		LEFT JOIN customers c ON c.id = s.customer_id
		LEFT JOIN users u ON u.id = s.created_by
		WHERE s.deleted_at IS NULL AND s.created_at >= $1 AND s.created_at < $2
		ORDER BY s.created_at ASC, s.id ASC
	`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []SaleExportRow
	for rows.Next() {
		var row SaleExportRow
		if err := rows.Scan(&row.OrderNumber, &row.Date, &row.CustomerName, &row.EmployeeName, &row.TotalAmount, &row.PaymentStatus, &row.IsBorrow); err != nil {
			return nil, err
		}
		items = append(items, row)
	}
	return items, rows.Err()
}
