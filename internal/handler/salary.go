package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/classicalvivekch/building-shop-manager-sub000/internal/domain"
	"github.com/classicalvivekch/building-shop-manager-sub000/internal/repository"
	"github.com/go-chi/chi/v5"
)

type SalaryHandler struct {
	Repo repository.SalaryRepository
}

func (h SalaryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/salaries", h.list)
	r.Post("/salaries", h.upsert)
	r.Post("/salaries/{id}/pay", h.pay)
}

func (h SalaryHandler) list(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	month := int(now.Month())
	year := now.Year()

	if v := r.URL.Query().Get("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			writeError(w, http.StatusBadRequest, "invalid month")
			return
		}
		month = m
	}
	if v := r.URL.Query().Get("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid year")
			return
		}
		year = y
	}

	payments, err := h.Repo.ListForMonth(r.Context(), month, year)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := make([]map[string]any, 0, len(payments))
	for _, sp := range payments {
		resp = append(resp, salaryView(sp))
	}
	writeJSON(w, http.StatusOK, resp)
}

// upsert keeps a single payment per (userId, month, year); posting again
// overwrites the amount and notes.
func (h SalaryHandler) upsert(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID int64  `json:"userId"`
		Amount int64  `json:"amount"`
		Month  int    `json:"month"`
		Year   int    `json:"year"`
		Notes  string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.UserID == 0 || req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "userId and a positive amount are required")
		return
	}
	if req.Month < 1 || req.Month > 12 {
		writeError(w, http.StatusBadRequest, "invalid month")
		return
	}

	sp, err := h.Repo.Upsert(r.Context(), repository.UpsertSalaryInput{
		UserID: req.UserID,
		Amount: req.Amount,
		Month:  req.Month,
		Year:   req.Year,
		Notes:  req.Notes,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, salaryView(*sp))
}

func (h SalaryHandler) pay(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	sp, err := h.Repo.MarkPaid(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "salary payment not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, salaryView(*sp))
}

func salaryView(sp domain.SalaryPayment) map[string]any {
	return map[string]any{
		"id":       strconv.FormatInt(sp.ID, 10),
		"userId":   strconv.FormatInt(sp.UserID, 10),
		"userName": sp.UserName,
		"amount":   sp.Amount,
		"month":    sp.Month,
		"year":     sp.Year,
		"status":   string(sp.Status),
		"notes":    sp.Notes,
		"paidAt":   sp.PaidAt,
	}
}
