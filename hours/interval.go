package hours

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// WeeklyHourInterval is one opening range of a place on a given day.
// Close before Open means the place stays open past midnight.
type WeeklyHourInterval struct {
	Day   DayOfWeek `json:"day"`
	Open  string    `json:"open"`
	Close string    `json:"close"`
}

// OpenState is the result of evaluating hours at a point in time.
type OpenState string

const (
	StateOpen    OpenState = "open"
	StateOpening OpenState = "opening"
	StateClosing OpenState = "closing"
	StateClosed  OpenState = "closed"
	StateNone    OpenState = "none"
)

// MalformedTimeError reports a bound that is not a 24-hour HH:mm value.
type MalformedTimeError struct {
	Value string
}

func (e *MalformedTimeError) Error() string {
	return fmt.Sprintf("malformed time %q: expected HH:mm", e.Value)
}

const minutesPerDay = 24 * 60

// ParseClock converts "HH:mm" to minutes since midnight. "24:00" is accepted
// and yields 1440.
func ParseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, &MalformedTimeError{Value: s}
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, &MalformedTimeError{Value: s}
		}
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')

	if h == 24 && m == 0 {
		return minutesPerDay, nil
	}
	if h > 23 || m > 59 {
		return 0, &MalformedTimeError{Value: s}
	}
	return h*60 + m, nil
}

// bounds parses both ends of the interval.
func (i WeeklyHourInterval) bounds() (openMin, closeMin int, err error) {
	if openMin, err = ParseClock(i.Open); err != nil {
		return 0, 0, err
	}
	if closeMin, err = ParseClock(i.Close); err != nil {
		return 0, 0, err
	}
	return openMin, closeMin, nil
}

// Validate checks both bounds are well formed.
func (i WeeklyHourInterval) Validate() error {
	_, _, err := i.bounds()
	return err
}

// UnmarshalJSON accepts bounds either as "HH:mm" strings or as whole HHMM
// numbers (900 for 09:00). Any other number is kept as its raw JSON text so
// validation reports the value as sent. A missing day decodes as DayOther.
func (i *WeeklyHourInterval) UnmarshalJSON(data []byte) error {
	type Alias WeeklyHourInterval
	aux := &struct {
		Open  json.RawMessage `json:"open"`
		Close json.RawMessage `json:"close"`
		*Alias
	}{
		Alias: (*Alias)(i),
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	var err error
	if i.Open, err = clockString(aux.Open); err != nil {
		return err
	}
	if i.Close, err = clockString(aux.Close); err != nil {
		return err
	}
	if i.Day == "" {
		i.Day = DayOther
	}
	return nil
}

func clockString(raw json.RawMessage) (string, error) {
	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" {
		return "", nil
	}
	if text[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	n, err := strconv.Atoi(text)
	if err != nil || n < 0 || n > 2400 || n%100 >= 60 {
		return text, nil
	}
	return fmt.Sprintf("%02d:%02d", n/100, n%100), nil
}
