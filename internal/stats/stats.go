// Package stats derives summary statistics from a snapshot of an expense
// collection. Every function is pure and recomputes from the full snapshot;
// nothing here is maintained incrementally.
package stats

import (
	"time"

	"tally/internal/core"
)

// DefaultTrendMonths is the width of the trailing monthly-trend window.
const DefaultTrendMonths = 6

// CategoryTotal is the spend within one category, labelled for display.
type CategoryTotal struct {
	Category string     `json:"category"`
	Label    string     `json:"label"`
	Total    core.Money `json:"total"`
}

// MonthTotal is one bucket of the monthly trend. Year and Month identify the
// bucket exactly; Label is the short month name used for display.
type MonthTotal struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Label string     `json:"label"`
	Total core.Money `json:"total"`
}

// Summary bundles the headline numbers shown on the dashboard.
type Summary struct {
	Total             core.Money `json:"total"`
	Last30Days        core.Money `json:"last_30_days"`
	CurrentMonth      core.Money `json:"current_month"`
	Last30DaysShare   float64    `json:"last_30_days_share"`
	CurrentMonthShare float64    `json:"current_month_share"`
}

// Total sums the amounts of all expenses.
func Total(expenses []core.Expense) core.Money {
	var sum core.Money
	for _, e := range expenses {
		sum = sum.Add(e.Amount)
	}
	return sum
}

// SumSince sums the amounts of expenses dated on or after cutoff.
func SumSince(expenses []core.Expense, cutoff time.Time) core.Money {
	var sum core.Money
	for _, e := range expenses {
		if !e.Date.Before(cutoff) {
			sum = sum.Add(e.Amount)
		}
	}
	return sum
}

// SumInRange sums the amounts of expenses dated within [start, end],
// inclusive on both ends.
func SumInRange(expenses []core.Expense, start, end time.Time) core.Money {
	var sum core.Money
	for _, e := range expenses {
		if !e.Date.Before(start) && !e.Date.After(end) {
			sum = sum.Add(e.Amount)
		}
	}
	return sum
}

// ByCategory sums amounts grouped by category, in first-seen category order.
// Unrecognized categories keep their raw key as the label.
func ByCategory(expenses []core.Expense) []CategoryTotal {
	index := make(map[string]int)
	var totals []CategoryTotal
	for _, e := range expenses {
		i, seen := index[e.Category]
		if !seen {
			i = len(totals)
			index[e.Category] = i
			totals = append(totals, CategoryTotal{
				Category: e.Category,
				Label:    core.CategoryLabel(e.Category),
			})
		}
		totals[i].Total = totals[i].Total.Add(e.Amount)
	}
	return totals
}

// MonthlyTrend buckets expenses into the trailing window of calendar months
// ending at now, one bucket per month in chronological order. Buckets are
// keyed by year and month, so the same month name in different years never
// collides. A non-positive months falls back to DefaultTrendMonths.
func MonthlyTrend(expenses []core.Expense, now time.Time, months int) []MonthTotal {
	if months <= 0 {
		months = DefaultTrendMonths
	}

	trend := make([]MonthTotal, 0, months)
	index := make(map[int]int)
	for i := months - 1; i >= 0; i-- {
		first := time.Date(now.Year(), now.Month()-time.Month(i), 1, 0, 0, 0, 0, time.UTC)
		index[monthKey(first.Year(), first.Month())] = len(trend)
		trend = append(trend, MonthTotal{
			Year:  first.Year(),
			Month: first.Month(),
			Label: first.Format("Jan"),
		})
	}

	for _, e := range expenses {
		if i, ok := index[monthKey(e.Date.Year(), e.Date.Month())]; ok {
			trend[i].Total = trend[i].Total.Add(e.Amount)
		}
	}
	return trend
}

// Summarize computes the dashboard headline numbers: all-time total,
// trailing-30-day spend, current-calendar-month spend, and their shares of
// the total.
func Summarize(expenses []core.Expense, now time.Time) Summary {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0).Add(-time.Nanosecond)

	s := Summary{
		Total:        Total(expenses),
		Last30Days:   SumSince(expenses, now.AddDate(0, 0, -30)),
		CurrentMonth: SumInRange(expenses, monthStart, monthEnd),
	}
	if s.Total.Cents > 0 {
		s.Last30DaysShare = float64(s.Last30Days.Cents) / float64(s.Total.Cents) * 100
		s.CurrentMonthShare = float64(s.CurrentMonth.Cents) / float64(s.Total.Cents) * 100
	}
	return s
}

func monthKey(year int, month time.Month) int {
	return year*100 + int(month)
}
