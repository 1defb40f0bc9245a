package domain

import (
	"time"

	apperrors "github.com/spec-kit/servicedesk/pkg/util"
)

// Weekday is the English long name of a day of the week.
type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
)

var validWeekdays = map[Weekday]struct{}{
	Monday:    {},
	Tuesday:   {},
	Wednesday: {},
	Thursday:  {},
	Friday:    {},
	Saturday:  {},
	Sunday:    {},
}

// ParseWeekday accepts one of the seven names, case-sensitive.
func ParseWeekday(value string) (Weekday, error) {
	day := Weekday(value)
	if _, ok := validWeekdays[day]; !ok {
		return "", apperrors.NewInvalidInput("weekday", value)
	}
	return day, nil
}

// WeekdayOf returns the weekday of t in t's location.
func WeekdayOf(t time.Time) Weekday {
	return Weekday(t.Weekday().String())
}

func (w Weekday) String() string {
	return string(w)
}
