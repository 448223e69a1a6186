// Package charts renders statistics as PNG images for the dashboard.
package charts

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"

	"tally/internal/stats"
)

// RenderMonthlyTrend draws the monthly trend as a bar chart PNG. It returns
// (nil, nil) when every bucket is zero, since an all-zero chart has no
// renderable range.
func RenderMonthlyTrend(trend []stats.MonthTotal) ([]byte, error) {
	var max float64
	bars := make([]chart.Value, 0, len(trend))
	for _, m := range trend {
		v := m.Total.Float64()
		if v > max {
			max = v
		}
		bars = append(bars, chart.Value{
			Label: m.Label,
			Value: v,
		})
	}
	if max == 0 {
		return nil, nil
	}

	graph := chart.BarChart{
		Title:    "Monthly Expenses",
		Width:    800,
		Height:   360,
		BarWidth: 60,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
			FillColor: chart.ColorWhite,
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("$%.2f", f)
				}
				return ""
			},
			Range: &chart.ContinuousRange{Min: 0, Max: max * 1.1},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render trend chart: %w", err)
	}
	return buf.Bytes(), nil
}
