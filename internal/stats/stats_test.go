package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tally/internal/core"
)

func expense(id string, cents int64, category string, date core.Date) core.Expense {
	return core.Expense{
		ID:       id,
		Title:    id,
		Amount:   core.Money{Cents: cents},
		Category: category,
		Date:     date,
	}
}

func TestTotal(t *testing.T) {
	assert.Equal(t, int64(0), Total(nil).Cents)

	expenses := []core.Expense{
		expense("a", 100, "food", core.NewDate(2026, time.January, 1)),
		expense("b", 250, "travel", core.NewDate(2026, time.February, 1)),
		expense("c", 50, "food", core.NewDate(2026, time.March, 1)),
	}
	assert.Equal(t, int64(400), Total(expenses).Cents)
}

func TestSumSinceIsInclusive(t *testing.T) {
	cutoff := time.Date(2026, time.June, 10, 0, 0, 0, 0, time.UTC)
	expenses := []core.Expense{
		expense("before", 100, "food", core.NewDate(2026, time.June, 9)),
		expense("on", 200, "food", core.NewDate(2026, time.June, 10)),
		expense("after", 400, "food", core.NewDate(2026, time.June, 11)),
	}

	assert.Equal(t, int64(600), SumSince(expenses, cutoff).Cents)
}

func TestSumInRangeInclusiveBothEnds(t *testing.T) {
	start := time.Date(2026, time.June, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.June, 20, 0, 0, 0, 0, time.UTC)
	expenses := []core.Expense{
		expense("before", 1, "food", core.NewDate(2026, time.June, 9)),
		expense("start", 10, "food", core.NewDate(2026, time.June, 10)),
		expense("mid", 100, "food", core.NewDate(2026, time.June, 15)),
		expense("end", 1000, "food", core.NewDate(2026, time.June, 20)),
		expense("after", 10000, "food", core.NewDate(2026, time.June, 21)),
	}

	assert.Equal(t, int64(1110), SumInRange(expenses, start, end).Cents)
}

func TestByCategory(t *testing.T) {
	expenses := []core.Expense{
		expense("a", 500, "food", core.NewDate(2026, time.May, 1)),
		expense("b", 300, "travel", core.NewDate(2026, time.May, 2)),
		expense("c", 1000, "food", core.NewDate(2026, time.May, 3)),
	}

	totals := ByCategory(expenses)
	require.Len(t, totals, 2)

	assert.Equal(t, "food", totals[0].Category, "first-seen order")
	assert.Equal(t, "Food & Dining", totals[0].Label)
	assert.Equal(t, int64(1500), totals[0].Total.Cents)

	assert.Equal(t, "travel", totals[1].Category)
	assert.Equal(t, "Travel", totals[1].Label)
	assert.Equal(t, int64(300), totals[1].Total.Cents)
}

func TestByCategoryUnknownKeyKeepsRawLabel(t *testing.T) {
	totals := ByCategory([]core.Expense{
		expense("a", 100, "cryptocurrency", core.NewDate(2026, time.May, 1)),
	})
	require.Len(t, totals, 1)
	assert.Equal(t, "cryptocurrency", totals[0].Label)
}

func TestMonthlyTrendBucketsChronologically(t *testing.T) {
	now := time.Date(2026, time.August, 29, 12, 0, 0, 0, time.UTC)
	expenses := []core.Expense{
		expense("aug", 100, "food", core.NewDate(2026, time.August, 5)),
		expense("jul", 200, "food", core.NewDate(2026, time.July, 15)),
		expense("mar", 400, "food", core.NewDate(2026, time.March, 31)),
		expense("too-old", 800, "food", core.NewDate(2026, time.February, 1)),
	}

	trend := MonthlyTrend(expenses, now, 6)
	require.Len(t, trend, 6)

	assert.Equal(t, time.March, trend[0].Month)
	assert.Equal(t, "Mar", trend[0].Label)
	assert.Equal(t, int64(400), trend[0].Total.Cents)

	assert.Equal(t, time.August, trend[5].Month)
	assert.Equal(t, int64(100), trend[5].Total.Cents)

	assert.Equal(t, int64(200), trend[4].Total.Cents, "July")
	assert.Equal(t, int64(0), trend[1].Total.Cents, "April empty")
}

func TestMonthlyTrendSeparatesYears(t *testing.T) {
	// A 13-month window spans two Januaries; they must land in different
	// buckets even though the month name matches.
	now := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
	expenses := []core.Expense{
		expense("jan25", 100, "food", core.NewDate(2025, time.January, 10)),
		expense("jan26", 200, "food", core.NewDate(2026, time.January, 10)),
	}

	trend := MonthlyTrend(expenses, now, 13)
	require.Len(t, trend, 13)

	assert.Equal(t, 2025, trend[0].Year)
	assert.Equal(t, time.January, trend[0].Month)
	assert.Equal(t, int64(100), trend[0].Total.Cents)

	assert.Equal(t, 2026, trend[12].Year)
	assert.Equal(t, time.January, trend[12].Month)
	assert.Equal(t, int64(200), trend[12].Total.Cents)
}

func TestMonthlyTrendDefaultsWindow(t *testing.T) {
	now := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
	assert.Len(t, MonthlyTrend(nil, now, 0), DefaultTrendMonths)
	assert.Len(t, MonthlyTrend(nil, now, -3), DefaultTrendMonths)
}

func TestSummarize(t *testing.T) {
	now := time.Date(2026, time.August, 29, 12, 0, 0, 0, time.UTC)
	expenses := []core.Expense{
		expense("old", 1000, "food", core.NewDate(2026, time.January, 1)),
		expense("this-month", 500, "food", core.NewDate(2026, time.August, 10)),
		expense("recent-prev-month", 500, "food", core.NewDate(2026, time.July, 31)),
	}

	s := Summarize(expenses, now)
	assert.Equal(t, int64(2000), s.Total.Cents)
	assert.Equal(t, int64(500), s.CurrentMonth.Cents)
	assert.Equal(t, int64(1000), s.Last30Days.Cents)
	assert.InDelta(t, 50.0, s.Last30DaysShare, 0.001)
	assert.InDelta(t, 25.0, s.CurrentMonthShare, 0.001)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, time.Now())
	assert.Equal(t, int64(0), s.Total.Cents)
	assert.Equal(t, 0.0, s.Last30DaysShare)
	assert.Equal(t, 0.0, s.CurrentMonthShare)
}
