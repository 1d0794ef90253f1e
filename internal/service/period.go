package service

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrInvalidPeriod = errors.New("invalid period")

// Period is a half-open reporting window [Start, End) together with the
// immediately preceding window of equal length [PrevStart, PrevEnd).
type Period struct {
	Name      string
	Start     time.Time
	End       time.Time
	PrevStart time.Time
	PrevEnd   time.Time
}

// ResolvePeriod maps a period selector to concrete window bounds.
// Custom periods take inclusive calendar dates and extend end to the
// following midnight.
func ResolvePeriod(name string, now time.Time, customStart, customEnd *time.Time) (Period, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var start, end time.Time
	switch name {
	case "", "today":
		name = "today"
		start = today
		end = today.AddDate(0, 0, 1)
	case "yesterday":
		start = today.AddDate(0, 0, -1)
		end = today
	case "week":
		start = today.AddDate(0, 0, -6)
		end = today.AddDate(0, 0, 1)
	case "month":
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		end = start.AddDate(0, 1, 0)
	case "custom":
		if customStart == nil || customEnd == nil {
			return Period{}, ErrInvalidPeriod
		}
		if customEnd.Before(*customStart) {
			return Period{}, ErrInvalidPeriod
		}
		start = *customStart
		end = customEnd.AddDate(0, 0, 1)
	default:
		return Period{}, ErrInvalidPeriod
	}

	length := end.Sub(start)
	return Period{
		Name:      name,
		Start:     start,
		End:       end,
		PrevStart: start.Add(-length),
		PrevEnd:   start,
	}, nil
}

// PercentChange computes (current-previous)/previous*100. A zero previous
// total yields 100 when the current total is positive and 0 otherwise.
func PercentChange(current, previous int64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	cur := decimal.NewFromInt(current)
	prev := decimal.NewFromInt(previous)
	change := cur.Sub(prev).Div(prev).Mul(decimal.NewFromInt(100))
	f, _ := change.Round(2).Float64()
	return f
}

// ProfitMargin returns profit as a percentage of sales, 0 when sales is 0.
func ProfitMargin(profit, sales int64) float64 {
	if sales == 0 {
		return 0
	}
	m := decimal.NewFromInt(profit).Div(decimal.NewFromInt(sales)).Mul(decimal.NewFromInt(100))
	f, _ := m.Round(2).Float64()
	return f
}

// Share returns part as a percentage of total, 0 when total is 0.
func Share(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	s := decimal.NewFromInt(part).Div(decimal.NewFromInt(total)).Mul(decimal.NewFromInt(100))
	f, _ := s.Round(2).Float64()
	return f
}
