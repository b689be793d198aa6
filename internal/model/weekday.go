package model

import (
	"strings"
	"time"
)

// Weekday is the canonical weekday numbering used everywhere inside this
// application: Monday=0 through Sunday=6. Go's time.Weekday counts from
// Sunday=0, so the two conversions below are the only place the offset is
// applied.
type Weekday int

// Canonical weekdays, Monday first.
const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [7]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// String returns the full English weekday name.
func (w Weekday) String() string {
	if w < Monday || w > Sunday {
		return "Weekday(?)"
	}
	return weekdayNames[w]
}

// Valid reports whether w is within Monday..Sunday.
func (w Weekday) Valid() bool {
	return w >= Monday && w <= Sunday
}

// Time converts to Go's Sunday-based time.Weekday.
func (w Weekday) Time() time.Weekday {
	return time.Weekday((int(w) + 1) % 7)
}

// WeekdayOf converts a Sunday-based time.Weekday to the canonical numbering.
func WeekdayOf(d time.Weekday) Weekday {
	return Weekday((int(d) + 6) % 7)
}

// ParseWeekday matches a full weekday name or a 3-letter abbreviation,
// case-insensitively. It reports false for anything else.
func ParseWeekday(s string) (Weekday, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range weekdayNames {
		lower := strings.ToLower(name)
		if s == lower || s == lower[:3] {
			return Weekday(i), true
		}
	}
	return 0, false
}
