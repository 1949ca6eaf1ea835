package hours

import (
	"fmt"
	"sort"
	"strings"
)

const (
	closedLabel   = "Closed"
	midnightLabel = "Midnight"
)

// Schedule maps each day of the week to its display string. It is built
// from a snapshot of intervals and never mutated afterwards.
type Schedule map[DayOfWeek]string

// Days returns the schedule lines in week order.
func (s Schedule) Days() []DayLine {
	lines := make([]DayLine, 0, len(Week))
	for _, d := range Week {
		lines = append(lines, DayLine{Day: d, Hours: s[d]})
	}
	return lines
}

type DayLine struct {
	Day   DayOfWeek `json:"day"`
	Hours string    `json:"hours"`
}

// GroupedSchedule renders the intervals as one line per day, ranges sorted
// by opening time. Intervals with an unknown day are left out.
func GroupedSchedule(intervals []WeeklyHourInterval) (Schedule, error) {
	byDay := make(map[DayOfWeek][]WeeklyHourInterval, len(Week))
	for _, iv := range intervals {
		if err := iv.Validate(); err != nil {
			return nil, err
		}
		if !iv.Day.IsKnown() {
			continue
		}
		byDay[iv.Day] = append(byDay[iv.Day], iv)
	}

	schedule := make(Schedule, len(Week))
	for _, d := range Week {
		ivs := byDay[d]
		if len(ivs) == 0 {
			schedule[d] = closedLabel
			continue
		}
		sort.SliceStable(ivs, func(i, j int) bool { return ivs[i].Open < ivs[j].Open })

		ranges := make([]string, 0, len(ivs))
		for _, iv := range ivs {
			ranges = append(ranges, FormatRange(iv))
		}
		schedule[d] = strings.Join(ranges, ", ")
	}
	return schedule, nil
}

// FormatRange renders "9:00am - 6:00pm". The interval must be valid.
func FormatRange(iv WeeklyHourInterval) string {
	return FormatClock(iv.Open) + " - " + FormatClock(iv.Close)
}

// FormatClock renders an HH:mm value in 12-hour form. "24:00" and "23:59"
// both render as Midnight. Malformed input is returned unchanged.
func FormatClock(s string) string {
	if s == "24:00" || s == "23:59" {
		return midnightLabel
	}
	minutes, err := ParseClock(s)
	if err != nil {
		return s
	}
	h, m := minutes/60, minutes%60
	suffix := "am"
	if h >= 12 {
		suffix = "pm"
	}
	h %= 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%02d%s", h, m, suffix)
}
