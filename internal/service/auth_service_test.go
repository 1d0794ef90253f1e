package service

import (
	"testing"
	"time"

	"github.com/classicalvivekch/building-shop-manager-sub000/internal/config"
	"github.com/classicalvivekch/building-shop-manager-sub000/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

func testAuthService() AuthService {
	return AuthService{
		Config: config.Config{
			JWTSecret:       "unit-test-secret",
			AccessTokenTTL:  time.Hour,
			RefreshTokenTTL: 24 * time.Hour,
		},
	}
}

func parseClaims(t *testing.T, svc AuthService, token string) jwt.MapClaims {
	t.Helper()
	parsed, err := jwt.Parse(token, func(tok *jwt.Token) (interface{}, error) {
		return []byte(svc.Config.JWTSecret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("parse token: %v", err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("claims are not a map")
	}
	return claims
}

func TestIssueTokens(t *testing.T) {
	svc := testAuthService()
	user := &domain.User{
		ID:    9,
		Name:  "Shop Owner",
		Email: "owner@example.com",
		Role:  domain.RoleAdmin,
	}

	res, err := svc.IssueTokens(user)
	if err != nil {
		t.Fatalf("IssueTokens: %v", err)
	}

	access := parseClaims(t, svc, res.AccessToken)
	if access["sub"] != "9" || access["token_type"] != "access" {
		t.Errorf("unexpected access claims: %v", access)
	}
	if access["role"] != "admin" || access["email"] != "owner@example.com" {
		t.Errorf("unexpected identity claims: %v", access)
	}

	refresh := parseClaims(t, svc, res.RefreshToken)
	if refresh["sub"] != "9" || refresh["token_type"] != "refresh" {
		t.Errorf("unexpected refresh claims: %v", refresh)
	}
	// refresh tokens carry no identity beyond the subject
	if _, ok := refresh["email"]; ok {
		t.Error("refresh token should not embed email")
	}

	if !res.ExpiresAt.After(time.Now()) {
		t.Error("access expiry should be in the future")
	}
}

func TestResetCodeIsStableWithinADay(t *testing.T) {
	svc := testAuthService()
	a := svc.resetCode("owner@example.com")
	b := svc.resetCode("owner@example.com")
	if a != b {
		t.Fatalf("reset code changed between calls: %s vs %s", a, b)
	}
	if len(a) != 6 {
		t.Fatalf("reset code length = %d, want 6", len(a))
	}
}
