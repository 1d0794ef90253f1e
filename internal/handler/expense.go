package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/classicalvivekch/building-shop-manager-sub000/internal/domain"
	"github.com/classicalvivekch/building-shop-manager-sub000/internal/repository"
	"github.com/classicalvivekch/building-shop-manager-sub000/internal/server/authctx"
	"github.com/go-chi/chi/v5"
)

type ExpenseHandler struct {
	Repo repository.ExpenseRepository
}

func (h ExpenseHandler) RegisterRoutes(r chi.Router) {
	r.Get("/expenses", h.list)
	r.Post("/expenses", h.create)
}

func (h ExpenseHandler) list(w http.ResponseWriter, r *http.Request) {
	startDate, err := parseDateQuery(r, "startDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid startDate")
		return
	}
	endDate, err := parseDateQuery(r, "endDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid endDate")
		return
	}
	if startDate != nil && endDate != nil && startDate.After(*endDate) {
		writeError(w, http.StatusBadRequest, "startDate must be before endDate")
		return
	}

	var items []domain.Expense
	if startDate != nil && endDate != nil {
		items, err = h.Repo.ListBetween(r.Context(), *startDate, endDate.AddDate(0, 0, 1))
	} else {
		items, err = h.Repo.List(r.Context(), 200)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := make([]map[string]any, 0, len(items))
	for _, e := range items {
		resp = append(resp, expenseView(e))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h ExpenseHandler) create(w http.ResponseWriter, r *http.Request) {
	cu := authctx.FromContext(r.Context())
	if cu == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req struct {
		Description  string `json:"description"`
		Amount       int64  `json:"amount"`
		Category     string `json:"category"`
		ExpenseDate  string `json:"expenseDate"`
		ReceiptPhoto string `json:"receiptPhoto"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Description == "" || req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "description and a positive amount are required")
		return
	}

	expenseDate := time.Now()
	if req.ExpenseDate != "" {
		parsed, err := time.Parse(dateLayout, req.ExpenseDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid expenseDate")
			return
		}
		expenseDate = parsed
	}

	expense, err := h.Repo.Create(r.Context(), repository.CreateExpenseInput{
		Description:  req.Description,
		Amount:       req.Amount,
		Category:     req.Category,
		ExpenseDate:  expenseDate,
		ReceiptPhoto: req.ReceiptPhoto,
		CreatedBy:    cu.ID,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, expenseView(*expense))
}

func expenseView(e domain.Expense) map[string]any {
	return map[string]any{
		"id":           strconv.FormatInt(e.ID, 10),
		"description":  e.Description,
		"amount":       e.Amount,
		"category":     e.Category,
		"expenseDate":  e.ExpenseDate.Format(dateLayout),
		"receiptPhoto": e.ReceiptPhoto,
		"createdAt":    e.CreatedAt,
	}
}
