package domain

import "time"

// GraceDays is the single authoritative overdue threshold: a borrow is due
// GraceDays after it was taken and overdue once its age exceeds that.
const GraceDays = 7

// BorrowDueDate returns the settlement deadline for a borrow taken at
// borrowDate.
func BorrowDueDate(borrowDate time.Time) time.Time {
	return borrowDate.AddDate(0, 0, GraceDays)
}

// DaysSince returns the whole days elapsed since the borrow was taken.
func (b BorrowRecord) DaysSince(now time.Time) int {
	if now.Before(b.BorrowDate) {
		return 0
	}
	return int(now.Sub(b.BorrowDate).Hours() / 24)
}

// IsOverdue reports whether the borrow's age exceeds the grace window.
// Reminder dismissal does not affect this.
func (b BorrowRecord) IsOverdue(now time.Time) bool {
	return b.DaysSince(now) > GraceDays
}

// DaysOverdue returns how many days past the grace window the borrow is,
// zero while still inside it.
func (b BorrowRecord) DaysOverdue(now time.Time) int {
	d := b.DaysSince(now) - GraceDays
	if d < 0 {
		return 0
	}
	return d
}

// DueSoon flags borrows in the last stretch of the grace window (day 6-7).
// Presentation hint only; overdue state is decided by IsOverdue alone.
func (b BorrowRecord) DueSoon(now time.Time) bool {
	days := b.DaysSince(now)
	return days >= GraceDays-1 && days <= GraceDays
}
