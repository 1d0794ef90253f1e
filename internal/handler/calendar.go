package handler

import (
	"net/http"
	"time"

	"github.com/classicalvivekch/building-shop-manager-sub000/internal/repository"
	"github.com/go-chi/chi/v5"
)

type CalendarHandler struct {
	Sales    repository.SaleRepository
	Expenses repository.ExpenseRepository
}

func (h CalendarHandler) RegisterRoutes(r chi.Router) {
	r.Get("/calendar/{date}", h.day)
}

// day returns everything that happened on one calendar date: sales and
// expenses, with their day totals.
func (h CalendarHandler) day(w http.ResponseWriter, r *http.Request) {
	date, err := time.Parse(dateLayout, chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date (use YYYY-MM-DD)")
		return
	}
	next := date.AddDate(0, 0, 1)

	sales, err := h.Sales.ListBetween(r.Context(), date, next)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	expenses, err := h.Expenses.ListBetween(r.Context(), date, next)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var salesTotal, expensesTotal int64
	saleViews := make([]map[string]any, 0, len(sales))
	for _, s := range sales {
		salesTotal += s.TotalAmount
		saleViews = append(saleViews, saleView(s))
	}
	expenseViews := make([]map[string]any, 0, len(expenses))
	for _, e := range expenses {
		expensesTotal += e.Amount
		expenseViews = append(expenseViews, expenseView(e))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"date":          date.Format(dateLayout),
		"sales":         saleViews,
		"expenses":      expenseViews,
		"salesTotal":    salesTotal,
		"expensesTotal": expensesTotal,
	})
}
