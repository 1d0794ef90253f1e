package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/classicalvivekch/building-shop-manager-sub000/internal/domain"
	"github.com/classicalvivekch/building-shop-manager-sub000/internal/server/authctx"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func accessClaims(exp time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"sub":        "42",
		"name":       "Test Admin",
		"email":      "admin@example.com",
		"role":       "admin",
		"token_type": "access",
		"exp":        exp.Unix(),
		"iat":        time.Now().Unix(),
	}
}

func TestAuthMiddlewareSetsCurrentUser(t *testing.T) {
	var got *authctx.CurrentUser
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = authctx.FromContext(r.Context())
	})

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, accessClaims(time.Now().Add(time.Hour))))
	rec := httptest.NewRecorder()
	AuthMiddleware(testSecret)(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got == nil {
		t.Fatal("current user not set in context")
	}
	if got.ID != 42 || got.Role != domain.RoleAdmin || got.Email != "admin@example.com" {
		t.Fatalf("unexpected current user: %+v", got)
	}
}

func TestAuthMiddlewareRejects(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not run")
	})
	mw := AuthMiddleware(testSecret)(next)

	refreshClaims := accessClaims(time.Now().Add(time.Hour))
	refreshClaims["token_type"] = "refresh"

	cases := []struct {
		name  string
		token string
	}{
		{"no header", ""},
		{"malformed token", "not-a-jwt"},
		{"expired", signToken(t, accessClaims(time.Now().Add(-time.Hour)))},
		{"refresh token used as access", signToken(t, refreshClaims)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			rec := httptest.NewRecorder()
			mw.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	mw := RequireRole(domain.RoleAdmin)(next)

	req := httptest.NewRequest("GET", "/employees", nil)
	ctx := authctx.WithCurrentUser(req.Context(), authctx.CurrentUser{ID: 7, Role: domain.RoleEmployee})
	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, req.WithContext(ctx))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("employee hitting admin route: status = %d, want 403", rec.Code)
	}

	req = httptest.NewRequest("GET", "/employees", nil)
	ctx = authctx.WithCurrentUser(req.Context(), authctx.CurrentUser{ID: 1, Role: domain.RoleAdmin})
	rec = httptest.NewRecorder()
	mw.ServeHTTP(rec, req.WithContext(ctx))
	if rec.Code != http.StatusOK {
		t.Fatalf("admin hitting admin route: status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	mw.ServeHTTP(rec, httptest.NewRequest("GET", "/employees", nil))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("anonymous request: status = %d, want 403", rec.Code)
	}
}
