package util

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"munch-server/hours"
)

// OpenHoursByDay sums the opening time of each weekday in hours. An interval
// that wraps past midnight counts until midnight of its own day. Unknown
// days are ignored.
func OpenHoursByDay(intervals []hours.WeeklyHourInterval) (map[hours.DayOfWeek]float64, error) {
	totals := make(map[hours.DayOfWeek]float64, len(hours.Week))
	for _, day := range hours.Week {
		totals[day] = 0
	}
	for _, iv := range intervals {
		openMin, err := hours.ParseClock(iv.Open)
		if err != nil {
			return nil, err
		}
		closeMin, err := hours.ParseClock(iv.Close)
		if err != nil {
			return nil, err
		}
		if !iv.Day.IsKnown() {
			continue
		}
		if closeMin < openMin {
			closeMin = 24 * 60
		}
		totals[iv.Day] += float64(closeMin-openMin) / 60
	}
	return totals, nil
}

// RenderWeeklySchedule writes an HTML bar chart of the opening hours per
// weekday of a place.
func RenderWeeklySchedule(w io.Writer, placeName string, intervals []hours.WeeklyHourInterval) error {
	totals, err := OpenHoursByDay(intervals)
	if err != nil {
		return err
	}

	days := make([]string, 0, len(hours.Week))
	values := make([]opts.BarData, 0, len(hours.Week))
	for _, day := range hours.Week {
		days = append(days, string(day))
		values = append(values, opts.BarData{Value: totals[day]})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: fmt.Sprintf("%s opening hours", placeName),
			Width:     "800px",
			Height:    "400px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    placeName,
			Subtitle: "Hours open per day",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "hours",
			Max:  24,
		}),
	)
	bar.SetXAxis(days).
		AddSeries("Open", values,
			charts.WithLabelOpts(opts.Label{
				Show:     opts.Bool(true),
				Position: "top",
			}),
		)

	return bar.Render(w)
}
