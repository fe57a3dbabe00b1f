package availability

import (
	"time"

	"github.com/google/uuid"

	"github.com/brightsmile/clinic/internal/platform/clinictime"
)

// Window maps to the dentist_availability table. It is a weekly template in
// clinic-local wall-clock time: Weekday plus minute-of-day bounds. Windows
// are never converted to UTC; they describe the clinic's working hours as
// printed on the door.
type Window struct {
	ID          uuid.UUID    `db:"id" json:"id"`
	DentistID   uuid.UUID    `db:"dentist_id" json:"dentist_id"`
	Weekday     time.Weekday `db:"weekday" json:"weekday"`
	StartMinute int          `db:"start_minute" json:"start_minute"`
	EndMinute   int          `db:"end_minute" json:"end_minute"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at" json:"updated_at"`
}

// StartClock returns the window start as an HH:MM:SS wall-clock string.
func (w *Window) StartClock() string { return clinictime.FormatClockMinute(w.StartMinute) }

// EndClock returns the window end as an HH:MM:SS wall-clock string.
func (w *Window) EndClock() string { return clinictime.FormatClockMinute(w.EndMinute) }

// Contains reports whether the given minute-of-day falls inside the window,
// treating the window as half-open [StartMinute, EndMinute).
func (w *Window) Contains(minute int) bool {
	return minute >= w.StartMinute && minute < w.EndMinute
}
