// Package clinictime converts clinic-local wall-clock dates and times to the
// UTC representation appointments are stored in, and back. The clinic runs in
// a single fixed timezone (config.Location); every conversion in the system
// goes through this package so the zone is never consulted anywhere else.
package clinictime

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTimeInput is returned when a date or time string is absent or
// does not parse.
var ErrInvalidTimeInput = errors.New("invalid date or time input")

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"

	shortTimeLayout = "15:04"
)

// Normalized is the storage representation of a clinic-local appointment
// interval: full UTC instants plus the UTC day bucket of the start instant.
// When localizing shifts the start across a UTC midnight, Date moves with it;
// conflict checks always compare within the stored UTC day, not the original
// clinic-local day.
type Normalized struct {
	Date  time.Time // midnight UTC of the UTC day containing Start
	Start time.Time
	End   time.Time
}

// ParseInstant parses a clinic-local (date, time) pair and returns the UTC
// instant.
func ParseInstant(loc *time.Location, date, clock string) (time.Time, error) {
	if loc == nil {
		return time.Time{}, fmt.Errorf("%w: nil location", ErrInvalidTimeInput)
	}
	if date == "" || clock == "" {
		return time.Time{}, fmt.Errorf("%w: date and time are required", ErrInvalidTimeInput)
	}
	layout := DateLayout + " " + TimeLayout
	if len(clock) == len(shortTimeLayout) {
		layout = DateLayout + " " + shortTimeLayout
	}
	t, err := time.ParseInLocation(layout, date+" "+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q %q", ErrInvalidTimeInput, date, clock)
	}
	return t.UTC(), nil
}

// Normalize converts a clinic-local calendar date with start and end
// wall-clock times into the UTC storage representation.
func Normalize(loc *time.Location, date, start, end string) (Normalized, error) {
	s, err := ParseInstant(loc, date, start)
	if err != nil {
		return Normalized{}, err
	}
	e, err := ParseInstant(loc, date, end)
	if err != nil {
		return Normalized{}, err
	}
	return Normalized{Date: DayOf(s), Start: s, End: e}, nil
}

// DayOf truncates a UTC instant to midnight of its UTC day.
func DayOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// Localize renders a stored UTC instant as clinic-local date and time strings.
// It is the inverse of ParseInstant.
func Localize(loc *time.Location, t time.Time) (date, clock string) {
	lt := t.In(loc)
	return lt.Format(DateLayout), lt.Format(TimeLayout)
}

// ParseDate parses a clinic-local calendar date string.
func ParseDate(date string) (time.Time, error) {
	if date == "" {
		return time.Time{}, fmt.Errorf("%w: date is required", ErrInvalidTimeInput)
	}
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimeInput, date)
	}
	return d, nil
}

// Weekday returns the clinic-local weekday of a calendar date string.
// Availability windows are a clinic-local weekly template, so the weekday is
// taken from the date as written, never from its UTC projection.
func Weekday(date string) (time.Weekday, error) {
	d, err := ParseDate(date)
	if err != nil {
		return 0, err
	}
	return d.Weekday(), nil
}

// ClockMinute parses a wall-clock time string into minutes from midnight.
func ClockMinute(clock string) (int, error) {
	layout := TimeLayout
	if len(clock) == len(shortTimeLayout) {
		layout = shortTimeLayout
	}
	t, err := time.Parse(layout, clock)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeInput, clock)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClockMinute renders minutes from midnight as an HH:MM:SS string.
func FormatClockMinute(minute int) string {
	return fmt.Sprintf("%02d:%02d:00", minute/60, minute%60)
}

// MinuteOf returns the clinic-local minute of day of a stored UTC instant.
func MinuteOf(loc *time.Location, t time.Time) int {
	lt := t.In(loc)
	return lt.Hour()*60 + lt.Minute()
}
