package domain

import (
	"testing"
	"time"
)

func TestBorrowDueDate(t *testing.T) {
	borrowed := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)
	due := BorrowDueDate(borrowed)
	want := time.Date(2026, 3, 17, 14, 30, 0, 0, time.UTC)
	if !due.Equal(want) {
		t.Fatalf("due date = %v, want %v", due, want)
	}
}

func TestBorrowAging(t *testing.T) {
	borrowed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	b := BorrowRecord{BorrowDate: borrowed, DueDate: BorrowDueDate(borrowed)}

	cases := []struct {
		name        string
		now         time.Time
		daysSince   int
		overdue     bool
		daysOverdue int
		dueSoon     bool
	}{
		{
			name:      "same day",
			now:       borrowed.Add(2 * time.Hour),
			daysSince: 0,
		},
		{
			name:      "day five",
			now:       borrowed.AddDate(0, 0, 5),
			daysSince: 5,
		},
		{
			name:      "day six is due soon",
			now:       borrowed.AddDate(0, 0, 6),
			daysSince: 6,
			dueSoon:   true,
		},
		{
			name:      "day seven still inside grace",
			now:       borrowed.AddDate(0, 0, 7),
			daysSince: 7,
			dueSoon:   true,
		},
		{
			name:        "day eight is overdue",
			now:         borrowed.AddDate(0, 0, 8),
			daysSince:   8,
			overdue:     true,
			daysOverdue: 1,
		},
		{
			name:        "a month later",
			now:         borrowed.AddDate(0, 0, 30),
			daysSince:   30,
			overdue:     true,
			daysOverdue: 23,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := b.DaysSince(tc.now); got != tc.daysSince {
				t.Errorf("DaysSince = %d, want %d", got, tc.daysSince)
			}
			if got := b.IsOverdue(tc.now); got != tc.overdue {
				t.Errorf("IsOverdue = %v, want %v", got, tc.overdue)
			}
			if got := b.DaysOverdue(tc.now); got != tc.daysOverdue {
				t.Errorf("DaysOverdue = %d, want %d", got, tc.daysOverdue)
			}
			if got := b.DueSoon(tc.now); got != tc.dueSoon {
				t.Errorf("DueSoon = %v, want %v", got, tc.dueSoon)
			}
		})
	}
}

func TestBorrowDismissalDoesNotAffectOverdue(t *testing.T) {
	borrowed := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	now := borrowed.AddDate(0, 0, 10)
	b := BorrowRecord{BorrowDate: borrowed, ReminderDismissed: true}
	if !b.IsOverdue(now) {
		t.Fatal("dismissed borrow should still compute as overdue")
	}
}

func TestBorrowBeforeBorrowDate(t *testing.T) {
	borrowed := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	b := BorrowRecord{BorrowDate: borrowed}
	if got := b.DaysSince(borrowed.Add(-time.Hour)); got != 0 {
		t.Fatalf("DaysSince before borrow date = %d, want 0", got)
	}
}
