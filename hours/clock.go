package hours

import "time"

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant. Used in tests.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }

// Calendar projects instants onto a weekly timetable in a given location.
type Calendar interface {
	DayOfWeek(t time.Time, loc *time.Location) DayOfWeek
	MinutesSinceMidnight(t time.Time, loc *time.Location) int
}

// GregorianCalendar is the calendar the places API uses.
type GregorianCalendar struct{}

func (GregorianCalendar) DayOfWeek(t time.Time, loc *time.Location) DayOfWeek {
	return DayFromWeekday(t.In(loc).Weekday())
}

func (GregorianCalendar) MinutesSinceMidnight(t time.Time, loc *time.Location) int {
	local := t.In(loc)
	return local.Hour()*60 + local.Minute()
}
