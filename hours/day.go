package hours

import (
	"encoding/json"
	"strings"
	"time"
)

// DayOfWeek is the day an interval applies to, as sent by the places API.
type DayOfWeek string

const (
	Monday    DayOfWeek = "mon"
	Tuesday   DayOfWeek = "tue"
	Wednesday DayOfWeek = "wed"
	Thursday  DayOfWeek = "thu"
	Friday    DayOfWeek = "fri"
	Saturday  DayOfWeek = "sat"
	Sunday    DayOfWeek = "sun"

	// DayOther is what any unrecognised value decodes to.
	DayOther DayOfWeek = "other"
)

// Week lists the days in display order.
var Week = []DayOfWeek{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var allowedDays = map[string]DayOfWeek{
	"mon": Monday, "monday": Monday,
	"tue": Tuesday, "tuesday": Tuesday,
	"wed": Wednesday, "wednesday": Wednesday,
	"thu": Thursday, "thursday": Thursday,
	"fri": Friday, "friday": Friday,
	"sat": Saturday, "saturday": Saturday,
	"sun": Sunday, "sunday": Sunday,
}

// ParseDay never fails: unknown input maps to DayOther.
func ParseDay(s string) DayOfWeek {
	if d, ok := allowedDays[strings.ToLower(strings.TrimSpace(s))]; ok {
		return d
	}
	return DayOther
}

// DayFromWeekday converts a time.Weekday.
func DayFromWeekday(w time.Weekday) DayOfWeek {
	switch w {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	case time.Sunday:
		return Sunday
	}
	return DayOther
}

func (d DayOfWeek) IsKnown() bool {
	return d != DayOther && d != ""
}

func (d *DayOfWeek) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s, _ := raw.(string)
	*d = ParseDay(s)
	return nil
}
