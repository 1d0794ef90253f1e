package handler

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestParseDateQuery(t *testing.T) {
	r := httptest.NewRequest("GET", "/expenses?startDate=2026-08-01", nil)

	got, err := parseDateQuery(r, "startDate")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	if got == nil || !got.Equal(want) {
		t.Fatalf("parsed = %v, want %v", got, want)
	}

	if missing, err := parseDateQuery(r, "endDate"); err != nil || missing != nil {
		t.Fatalf("absent key should return nil, nil; got %v, %v", missing, err)
	}
}

func TestParseDateQueryInvalid(t *testing.T) {
	r := httptest.NewRequest("GET", "/expenses?startDate=01-08-2026", nil)
	if _, err := parseDateQuery(r, "startDate"); err == nil {
		t.Fatal("expected error for malformed date")
	}
}
