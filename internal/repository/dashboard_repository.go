package repository

import (
	"context"

	"github.com/classicalvivekch/building-shop-manager-sub000/internal/db"
)

type DashboardRepository struct {
	DB *db.Postgres
}

type DashboardStats struct {
	TodayRevenue      int64
	TodaySalesCount   int64
	TodayExpenses     int64
	TotalRevenue      int64
	TotalSales        int64
	ActiveBorrows     int64
	BorrowOutstanding int64
	LowStockItems     int64
}

func (r DashboardRepository) Stats(ctx context.Context) (DashboardStats, error) {
	var s DashboardStats
	err := r.DB.Pool.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(total_amount) FILTER (WHERE created_at::date = CURRENT_DATE),0),
			COUNT(*) FILTER (WHERE created_at::date = CURRENT_DATE),
			COALESCE(SUM(total_amount),0),
			COUNT(*)
		FROM sales
		WHERE deleted_at IS NULL
	`).Scan(&s.TodayRevenue, &s.TodaySalesCount, &s.TotalRevenue, &s.TotalSales)
	if err != nil {
		return s, err
	}

	err = r.DB.Pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount),0)
		FROM expenses
		WHERE expense_date::date = CURRENT_DATE
	`).Scan(&s.TodayExpenses)
	if err != nil {
		return s, err
	}

	err = r.DB.Pool.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(outstanding_amount),0)
		FROM borrow_records
		WHERE is_returned = false
	`).Scan(&s.ActiveBorrows, &s.BorrowOutstanding)
	if err != nil {
		return s, err
	}

	err = r.DB.Pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM inventory_items
		WHERE deleted_at IS NULL AND quantity <= low_stock_threshold
	`).Scan(&s.LowStockItems)
	return s, err
}
