package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/classicalvivekch/building-shop-manager-sub000/internal/domain"
	"github.com/classicalvivekch/building-shop-manager-sub000/internal/server/authctx"
	"github.com/go-chi/chi/v5"
)

func staffRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	ctx := authctx.WithCurrentUser(req.Context(), authctx.CurrentUser{
		ID:   1,
		Name: "Test Clerk",
		Role: domain.RoleEmployee,
	})
	return req.WithContext(ctx)
}

func TestCreateSaleRejectsEmptyCart(t *testing.T) {
	h := SaleHandler{}
	r := chi.NewRouter()
	h.RegisterRoutes(r)

	cases := []struct {
		name string
		body string
	}{
		{"no items field", `{"customerMobile":"0123"}`},
		{"empty items", `{"customerMobile":"0123","items":[]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, staffRequest(http.MethodPost, "/sales", tc.body))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			var resp apiResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if resp.Status != "error" {
				t.Errorf("status field = %q, want error", resp.Status)
			}
		})
	}
}

func TestCreateSaleRejectsBadLines(t *testing.T) {
	h := SaleHandler{}
	r := chi.NewRouter()
	h.RegisterRoutes(r)

	rec := httptest.NewRecorder()
	body := `{"items":[{"itemId":3,"quantity":0,"rate":100}]}`
	r.ServeHTTP(rec, staffRequest(http.MethodPost, "/sales", body))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCreateSaleBorrowNeedsMobile(t *testing.T) {
	h := SaleHandler{}
	r := chi.NewRouter()
	h.RegisterRoutes(r)

	rec := httptest.NewRecorder()
	body := `{"isBorrow":true,"items":[{"itemId":3,"quantity":1,"rate":100}]}`
	r.ServeHTTP(rec, staffRequest(http.MethodPost, "/sales", body))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSalePayloadCarriesPaymentStatus(t *testing.T) {
	body := `{"paymentStatus":"PENDING","isBorrow":false,"items":[{"itemId":3,"quantity":1,"rate":100}]}`
	var req salePayload
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if req.PaymentStatus != string(domain.PaymentPending) {
		t.Fatalf("paymentStatus = %q, want %q", req.PaymentStatus, domain.PaymentPending)
	}
}

func TestCreateSaleRejectsUnknownPaymentStatus(t *testing.T) {
	h := SaleHandler{}
	r := chi.NewRouter()
	h.RegisterRoutes(r)

	rec := httptest.NewRecorder()
	body := `{"paymentStatus":"REFUNDED","items":[{"itemId":3,"quantity":1,"rate":100}]}`
	r.ServeHTTP(rec, staffRequest(http.MethodPost, "/sales", body))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCreateSaleRequiresUser(t *testing.T) {
	h := SaleHandler{}
	r := chi.NewRouter()
	h.RegisterRoutes(r)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader(`{}`))
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
