package hours

import "time"

const (
	DefaultOpeningWindowMinutes = 30
	DefaultClosingWindowMinutes = 30

	// Upper bound for intervals that wrap past midnight. Being above
	// minutesPerDay, a wrapping interval never reports closing.
	wrapUpperBound = 2400
)

// Evaluator computes open states for a fixed timezone. It holds no mutable
// state and is safe for concurrent use.
type Evaluator struct {
	clock    Clock
	calendar Calendar
	location *time.Location

	OpeningWindowMinutes int
	ClosingWindowMinutes int
}

// NewEvaluator builds an evaluator with the default windows. A nil location
// means UTC.
func NewEvaluator(clock Clock, calendar Calendar, loc *time.Location) *Evaluator {
	if clock == nil {
		clock = SystemClock{}
	}
	if calendar == nil {
		calendar = GregorianCalendar{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Evaluator{
		clock:                clock,
		calendar:             calendar,
		location:             loc,
		OpeningWindowMinutes: DefaultOpeningWindowMinutes,
		ClosingWindowMinutes: DefaultClosingWindowMinutes,
	}
}

// WithWindows returns a copy using the given opening and closing windows.
func (e *Evaluator) WithWindows(opening, closing int) *Evaluator {
	c := *e
	c.OpeningWindowMinutes = opening
	c.ClosingWindowMinutes = closing
	return &c
}

func (e *Evaluator) Location() *time.Location { return e.location }

// IsOpenNow evaluates the intervals against the evaluator's clock.
func (e *Evaluator) IsOpenNow(intervals []WeeklyHourInterval) (OpenState, error) {
	return e.IsOpen(intervals, e.clock.Now())
}

// IsOpen evaluates the intervals at the given instant.
func (e *Evaluator) IsOpen(intervals []WeeklyHourInterval, at time.Time) (OpenState, error) {
	if len(intervals) == 0 {
		return StateNone, nil
	}
	day := e.calendar.DayOfWeek(at, e.location)
	now := e.calendar.MinutesSinceMidnight(at, e.location)
	return Evaluate(intervals, day, now, e.OpeningWindowMinutes, e.ClosingWindowMinutes)
}

// Evaluate is the calendar-free core of IsOpen. Intervals are matched on
// their literal day only; an overnight interval is not carried into the
// next day. The first interval that matches wins.
func Evaluate(intervals []WeeklyHourInterval, day DayOfWeek, nowMinutes, openingWindow, closingWindow int) (OpenState, error) {
	if len(intervals) == 0 {
		return StateNone, nil
	}
	for _, iv := range intervals {
		if err := iv.Validate(); err != nil {
			return "", err
		}
	}

	for _, iv := range intervals {
		if iv.Day != day {
			continue
		}
		openMin, closeMin, _ := iv.bounds()

		between := func(openSlack, closeSlack int) bool {
			if openMin-openSlack > nowMinutes {
				return false
			}
			if closeMin < openMin {
				return nowMinutes+closeSlack <= wrapUpperBound
			}
			return nowMinutes+closeSlack <= closeMin
		}

		if between(0, 0) {
			if !between(0, closingWindow) {
				return StateClosing, nil
			}
			return StateOpen, nil
		}
		if between(openingWindow, 0) {
			return StateOpening, nil
		}
	}
	return StateClosed, nil
}
