package notify

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnknownKind is returned when parsing a string that names no notification kind
var ErrUnknownKind = errors.New("unknown notification kind")

// Kind identifies one of the fixed reminder categories tied to an event's start
type Kind string

const (
	OneWeekBefore Kind = "one_week_before"
	OneDayBefore  Kind = "one_day_before"
	DayOf         Kind = "day_of"
)

// DefaultDayOfHour is the local hour at which the day-of reminder fires
const DefaultDayOfHour = 8

// Kinds returns every notification kind, earliest first
func Kinds() []Kind {
	return []Kind{OneWeekBefore, OneDayBefore, DayOf}
}

// ParseKind converts a stored or user-supplied string into a Kind
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Target computes the instant this kind of reminder is due for an event starting at start.
// The day-of reminder is pinned to dayOfHour:00 on the start's calendar date in loc,
// regardless of the event's actual start hour.
func (k Kind) Target(start time.Time, loc *time.Location, dayOfHour int) time.Time {
	switch k {
	case OneWeekBefore:
		return start.Add(-7 * 24 * time.Hour)
	case OneDayBefore:
		return start.Add(-24 * time.Hour)
	default:
		if loc == nil {
			loc = start.Location()
		}
		local := start.In(loc)
		return time.Date(local.Year(), local.Month(), local.Day(), dayOfHour, 0, 0, 0, loc)
	}
}

// Label is the short human description used in logs and the API
func (k Kind) Label() string {
	switch k {
	case OneWeekBefore:
		return "1 week before"
	case OneDayBefore:
		return "1 day before"
	case DayOf:
		return "event day"
	}
	return string(k)
}
