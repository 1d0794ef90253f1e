package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/classicalvivekch/building-shop-manager-sub000/internal/domain"
	"github.com/classicalvivekch/building-shop-manager-sub000/internal/server/authctx"
	"github.com/go-chi/chi/v5"
)

func TestBorrowDispatchValidation(t *testing.T) {
	h := BorrowHandler{}
	r := chi.NewRouter()
	h.RegisterRoutes(r)

	cases := []struct {
		name string
		body string
		want int
	}{
		{"unknown action", `{"action":"snooze","borrowId":7}`, http.StatusBadRequest},
		{"missing borrowId", `{"action":"returned"}`, http.StatusBadRequest},
		{"garbage body", `not json`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, staffRequest(http.MethodPost, "/borrowers", tc.body))
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestDismissReminderRequiresAdmin(t *testing.T) {
	h := BorrowHandler{}
	r := chi.NewRouter()
	h.RegisterRoutes(r)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/borrowers", strings.NewReader(`{"action":"remind_later","borrowId":7}`))
	ctx := authctx.WithCurrentUser(req.Context(), authctx.CurrentUser{
		ID:   2,
		Role: domain.RoleEmployee,
	})
	r.ServeHTTP(rec, req.WithContext(ctx))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}
