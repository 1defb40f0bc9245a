package domain

import (
	"fmt"
	"regexp"
	"strconv"

	apperrors "github.com/spec-kit/servicedesk/pkg/util"
)

var timeOfDayPattern = regexp.MustCompile(`^([01]?\d|2[0-3]):([0-5]?\d)$`)

// TimeOfDay is a 24-hour wall-clock time with minute precision.
type TimeOfDay struct {
	hour   int
	minute int
}

// ParseTimeOfDay accepts HH:MM, tolerating a single-digit hour or minute.
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	match := timeOfDayPattern.FindStringSubmatch(value)
	if match == nil {
		return TimeOfDay{}, apperrors.NewInvalidInput("time", value)
	}
	hour, _ := strconv.Atoi(match[1])
	minute, _ := strconv.Atoi(match[2])
	return TimeOfDay{hour: hour, minute: minute}, nil
}

func (t TimeOfDay) Hour() int   { return t.hour }
func (t TimeOfDay) Minute() int { return t.minute }

// Minutes returns minutes since midnight.
func (t TimeOfDay) Minutes() int {
	return t.hour*60 + t.minute
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.hour, t.minute)
}

// TimeRange is a closed interval [start, end] with start < end.
type TimeRange struct {
	start TimeOfDay
	end   TimeOfDay
}

// NewTimeRange rejects empty and inverted ranges.
func NewTimeRange(start, end TimeOfDay) (TimeRange, error) {
	if start.Minutes() >= end.Minutes() {
		return TimeRange{}, apperrors.NewInvalidInput("time_range", start.String()+"-"+end.String())
	}
	return TimeRange{start: start, end: end}, nil
}

// ParseTimeRange parses both ends then builds the range.
func ParseTimeRange(start, end string) (TimeRange, error) {
	from, err := ParseTimeOfDay(start)
	if err != nil {
		return TimeRange{}, err
	}
	to, err := ParseTimeOfDay(end)
	if err != nil {
		return TimeRange{}, err
	}
	return NewTimeRange(from, to)
}

func (r TimeRange) Start() TimeOfDay { return r.start }
func (r TimeRange) End() TimeOfDay   { return r.end }

// Contains is inclusive on both ends.
func (r TimeRange) Contains(t TimeOfDay) bool {
	m := t.Minutes()
	return m >= r.start.Minutes() && m <= r.end.Minutes()
}
