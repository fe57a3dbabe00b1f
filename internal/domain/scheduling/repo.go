package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error)
	// ListByDentist returns the dentist's appointments starting within
	// [from, to), ordered by start time.
	ListByDentist(ctx context.Context, dentistID uuid.UUID, from, to time.Time) ([]*Appointment, error)

	// FindConflicts returns blocking appointments of the dentist whose
	// intervals overlap [start, end), ordered by start time. The predicate
	// matches the database no-overlap constraint exactly. excludeID, when
	// non-nil, omits that appointment so reschedules do not collide with
	// themselves.
	FindConflicts(ctx context.Context, dentistID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]*Appointment, error)

	// BookedStartTimes returns the start instants of blocking appointments
	// of the dentist starting within [from, to).
	BookedStartTimes(ctx context.Context, dentistID uuid.UUID, from, to time.Time) ([]time.Time, error)
}
