package scheduling

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of an appointment.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
	StatusNoShow    Status = "no_show"
)

// transitions is the allowed status graph. Cancelled, completed and no_show
// are terminal here; the cancel operation has its own, slightly looser rule.
var transitions = map[Status][]Status{
	StatusScheduled: {StatusConfirmed, StatusCancelled, StatusNoShow, StatusCompleted},
	StatusConfirmed: {StatusCancelled, StatusNoShow, StatusCompleted},
	StatusCancelled: {},
	StatusCompleted: {},
	StatusNoShow:    {},
}

func (s Status) valid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransitionTo reports whether the status graph allows moving to next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if next == allowed {
			return true
		}
	}
	return false
}

// Blocks reports whether an appointment in this status occupies its time
// slot. Cancelled and no_show appointments free the slot for rebooking;
// completed ones keep it, they record chair time that actually happened.
func (s Status) Blocks() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusCompleted:
		return true
	default:
		return false
	}
}

// Appointment is a booked interval of a dentist's time. Date is the midnight
// UTC bucket of the start instant; StartTime and EndTime are full UTC
// instants covering the half-open interval [StartTime, EndTime).
type Appointment struct {
	ID          uuid.UUID `db:"id" json:"id"`
	PatientID   uuid.UUID `db:"patient_id" json:"patient_id"`
	DentistID   uuid.UUID `db:"dentist_id" json:"dentist_id"`
	ProcedureID uuid.UUID `db:"procedure_id" json:"procedure_id"`
	Date        time.Time `db:"appointment_date" json:"date"`
	StartTime   time.Time `db:"start_time" json:"start_time"`
	EndTime     time.Time `db:"end_time" json:"end_time"`
	Status      Status    `db:"status" json:"status"`
	Notes       string    `db:"notes" json:"notes,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Overlaps reports whether two half-open intervals intersect. Abutting
// appointments, where one ends exactly when the other starts, do not.
func (a *Appointment) Overlaps(start, end time.Time) bool {
	return a.StartTime.Before(end) && a.EndTime.After(start)
}
