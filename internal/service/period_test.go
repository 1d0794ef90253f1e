package service

import (
	"errors"
	"testing"
	"time"
)

var testNow = time.Date(2026, 8, 19, 15, 45, 0, 0, time.UTC) // a Wednesday

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolvePeriod(t *testing.T) {
	cases := []struct {
		name      string
		period    string
		start     time.Time
		end       time.Time
		prevStart time.Time
	}{
		{"empty defaults to today", "", date(2026, 8, 19), date(2026, 8, 20), date(2026, 8, 18)},
		{"today", "today", date(2026, 8, 19), date(2026, 8, 20), date(2026, 8, 18)},
		{"yesterday", "yesterday", date(2026, 8, 18), date(2026, 8, 19), date(2026, 8, 17)},
		{"week covers seven days", "week", date(2026, 8, 13), date(2026, 8, 20), date(2026, 8, 6)},
		{"month starts on the first", "month", date(2026, 8, 1), date(2026, 9, 1), date(2026, 7, 1)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := ResolvePeriod(tc.period, testNow, nil, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !p.Start.Equal(tc.start) || !p.End.Equal(tc.end) {
				t.Errorf("window = [%v, %v), want [%v, %v)", p.Start, p.End, tc.start, tc.end)
			}
			if !p.PrevStart.Equal(tc.prevStart) || !p.PrevEnd.Equal(tc.start) {
				t.Errorf("prev window = [%v, %v), want [%v, %v)", p.PrevStart, p.PrevEnd, tc.prevStart, tc.start)
			}
			if p.End.Sub(p.Start) != p.PrevEnd.Sub(p.PrevStart) {
				t.Error("previous window length differs from the current window")
			}
		})
	}
}

func TestResolvePeriodCustom(t *testing.T) {
	start := date(2026, 8, 1)
	end := date(2026, 8, 10)
	p, err := ResolvePeriod("custom", testNow, &start, &end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// custom dates are inclusive so the half-open end is the next midnight
	if !p.End.Equal(date(2026, 8, 11)) {
		t.Errorf("end = %v, want %v", p.End, date(2026, 8, 11))
	}
	if !p.PrevStart.Equal(date(2026, 7, 22)) {
		t.Errorf("prevStart = %v, want %v", p.PrevStart, date(2026, 7, 22))
	}
}

func TestResolvePeriodInvalid(t *testing.T) {
	start := date(2026, 8, 10)
	end := date(2026, 8, 1)

	cases := []struct {
		name       string
		period     string
		start, end *time.Time
	}{
		{"unknown selector", "quarter", nil, nil},
		{"custom without dates", "custom", nil, nil},
		{"custom end before start", "custom", &start, &end},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ResolvePeriod(tc.period, testNow, tc.start, tc.end); !errors.Is(err, ErrInvalidPeriod) {
				t.Fatalf("err = %v, want ErrInvalidPeriod", err)
			}
		})
	}
}

func TestPercentChange(t *testing.T) {
	cases := []struct {
		name     string
		current  int64
		previous int64
		want     float64
	}{
		{"growth", 150, 100, 50},
		{"decline", 50, 100, -50},
		{"flat", 100, 100, 0},
		{"zero previous with activity", 42, 0, 100},
		{"zero previous no activity", 0, 0, 0},
		{"drop to zero", 0, 80, -100},
		{"rounded", 100, 3, 3233.33},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := PercentChange(tc.current, tc.previous); got != tc.want {
				t.Errorf("PercentChange(%d, %d) = %v, want %v", tc.current, tc.previous, got, tc.want)
			}
		})
	}
}

func TestProfitMargin(t *testing.T) {
	if got := ProfitMargin(25, 100); got != 25 {
		t.Errorf("ProfitMargin = %v, want 25", got)
	}
	if got := ProfitMargin(10, 0); got != 0 {
		t.Errorf("ProfitMargin with zero sales = %v, want 0", got)
	}
	if got := ProfitMargin(1, 3); got != 33.33 {
		t.Errorf("ProfitMargin(1,3) = %v, want 33.33", got)
	}
}

func TestShare(t *testing.T) {
	if got := Share(30, 120); got != 25 {
		t.Errorf("Share = %v, want 25", got)
	}
	if got := Share(5, 0); got != 0 {
		t.Errorf("Share with zero total = %v, want 0", got)
	}
}
