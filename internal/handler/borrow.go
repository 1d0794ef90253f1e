package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/classicalvivekch/building-shop-manager-sub000/internal/domain"
	"github.com/classicalvivekch/building-shop-manager-sub000/internal/repository"
	"github.com/classicalvivekch/building-shop-manager-sub000/internal/server/authctx"
	"github.com/classicalvivekch/building-shop-manager-sub000/internal/service"
	"github.com/go-chi/chi/v5"
)

type BorrowHandler struct {
	Repo repository.BorrowRepository
}

func (h BorrowHandler) RegisterRoutes(r chi.Router) {
	r.Get("/borrowers", h.report)
	r.Post("/borrowers", h.dispatch)
}

func (h BorrowHandler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/borrows/{id}/return", h.returnByID)
	r.Post("/borrows/{id}/dismiss", h.dismissByID)
}

// report lists active borrows with aging and a week-over-week change of
// the active count against borrows created in the preceding 7-day window.
func (h BorrowHandler) report(w http.ResponseWriter, r *http.Request) {
	now := time.Now()

	rows, err := h.Repo.ListActive(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	prevCount, err := h.Repo.CountCreatedBetween(r.Context(), now.AddDate(0, 0, -2*domain.GraceDays), now.AddDate(0, 0, -domain.GraceDays))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var outstandingTotal int64
	var overdueCount int64
	borrowers := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		b := row.Record
		outstandingTotal += b.OutstandingAmount
		if b.IsOverdue(now) {
			overdueCount++
		}
		borrowers = append(borrowers, map[string]any{
			"id":                strconv.FormatInt(b.ID, 10),
			"saleId":            strconv.FormatInt(b.SaleID, 10),
			"orderNumber":       row.OrderNumber,
			"customerName":      row.CustomerName,
			"customerMobile":    row.CustomerMobile,
			"saleAmount":        row.SaleAmount,
			"outstandingAmount": b.OutstandingAmount,
			"borrowDate":        b.BorrowDate.Format(dateLayout),
			"dueDate":           b.DueDate.Format(dateLayout),
			"daysSinceBorrow":   b.DaysSince(now),
			"isOverdue":         b.IsOverdue(now),
			"daysOverdue":       b.DaysOverdue(now),
			"dueSoon":           b.DueSoon(now),
			"reminderDismissed": b.ReminderDismissed,
			// dismissed borrows drop out of alerts but stay in the totals
			"showReminder": b.IsOverdue(now) && !b.ReminderDismissed,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"borrowers":        borrowers,
		"activeCount":      len(rows),
		"overdueCount":     overdueCount,
		"outstandingTotal": outstandingTotal,
		"borrowsChange":    service.PercentChange(int64(len(rows)), prevCount),
	})
}

// dispatch handles the action-style payload the borrowers screen posts.
func (h BorrowHandler) dispatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Action   string `json:"action"`
		BorrowID int64  `json:"borrowId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.BorrowID == 0 {
		writeError(w, http.StatusBadRequest, "borrowId is required")
		return
	}

	switch req.Action {
	case "returned":
		h.doReturn(w, r, req.BorrowID)
	case "remind_later":
		h.doDismiss(w, r, req.BorrowID)
	default:
		writeError(w, http.StatusBadRequest, "invalid action (use returned or remind_later)")
	}
}

func (h BorrowHandler) returnByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	h.doReturn(w, r, id)
}

func (h BorrowHandler) dismissByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	h.doDismiss(w, r, id)
}

func (h BorrowHandler) doReturn(w http.ResponseWriter, r *http.Request, id int64) {
	b, err := h.Repo.Return(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "borrow not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, borrowView(*b))
}

func (h BorrowHandler) doDismiss(w http.ResponseWriter, r *http.Request, id int64) {
	cu := authctx.FromContext(r.Context())
	if cu == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	// only admins may silence reminders
	if cu.Role != domain.RoleAdmin {
		writeError(w, http.StatusForbidden, "only admins can dismiss reminders")
		return
	}

	b, err := h.Repo.DismissReminder(r.Context(), id, cu.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "borrow not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, borrowView(*b))
}

func borrowView(b domain.BorrowRecord) map[string]any {
	now := time.Now()
	return map[string]any{
		"id":                strconv.FormatInt(b.ID, 10),
		"saleId":            strconv.FormatInt(b.SaleID, 10),
		"borrowDate":        b.BorrowDate.Format(dateLayout),
		"dueDate":           b.DueDate.Format(dateLayout),
		"outstandingAmount": b.OutstandingAmount,
		"isReturned":        b.IsReturned,
		"returnedAt":        b.ReturnedAt,
		"reminderDismissed": b.ReminderDismissed,
		"dismissedAt":       b.DismissedAt,
		"isOverdue":         b.IsOverdue(now),
		"daysOverdue":       b.DaysOverdue(now),
	}
}
