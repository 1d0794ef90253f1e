package handler

import (
	"net/http"

	"github.com/classicalvivekch/building-shop-manager-sub000/internal/repository"
	"github.com/go-chi/chi/v5"
)

type DashboardHandler struct {
	Repo     repository.DashboardRepository
	Sales    repository.SaleRepository
	Currency string
}

func (h DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard/stats", h.stats)
}

func (h DashboardHandler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Repo.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	recent, err := h.Sales.List(r.Context(), 5)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	recentViews := make([]map[string]any, 0, len(recent))
	for _, s := range recent {
		recentViews = append(recentViews, saleView(s))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"currency": h.Currency,
		"today": map[string]any{
			"revenue":    stats.TodayRevenue,
			"salesCount": stats.TodaySalesCount,
			"expenses":   stats.TodayExpenses,
			"profit":     stats.TodayRevenue - stats.TodayExpenses,
		},
		"totals": map[string]any{
			"revenue": stats.TotalRevenue,
			"sales":   stats.TotalSales,
		},
		"borrows": map[string]any{
			"active":      stats.ActiveBorrows,
			"outstanding": stats.BorrowOutstanding,
		},
		"lowStockItems": stats.LowStockItems,
		"recentSales":   recentViews,
	})
}
