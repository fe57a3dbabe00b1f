package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/brightsmile/clinic/internal/domain/availability"
	"github.com/brightsmile/clinic/internal/domain/procedure"
	"github.com/brightsmile/clinic/internal/platform/clinictime"
	"github.com/brightsmile/clinic/internal/platform/db"
)

// ProcedureDirectory resolves procedures for duration derivation.
type ProcedureDirectory interface {
	Get(ctx context.Context, id uuid.UUID) (*procedure.Procedure, error)
}

// WindowDirectory resolves a dentist's availability template for a date.
type WindowDirectory interface {
	WindowsOn(ctx context.Context, dentistID uuid.UUID, date string) ([]*availability.Window, error)
}

// CreateInput is a booking request in clinic-local wall-clock terms. EndTime
// may be empty, in which case it is derived from the procedure duration.
type CreateInput struct {
	PatientID   uuid.UUID
	DentistID   uuid.UUID
	ProcedureID uuid.UUID
	Date        string
	StartTime   string
	EndTime     string
	Notes       string
}

// UpdateInput is a patch. Nil fields keep the stored value.
type UpdateInput struct {
	DentistID   *uuid.UUID
	ProcedureID *uuid.UUID
	Date        *string
	StartTime   *string
	EndTime     *string
	Status      *string
	Notes       *string
}

// Slot is an open interval offered to a patient, in clinic-local terms.
type Slot struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type Service struct {
	repo       Repository
	procedures ProcedureDirectory
	windows    WindowDirectory
	loc        *time.Location
	inTx       db.Runner
}

func NewService(repo Repository, procedures ProcedureDirectory, windows WindowDirectory, loc *time.Location, inTx db.Runner) *Service {
	return &Service{repo: repo, procedures: procedures, windows: windows, loc: loc, inTx: inTx}
}

// Create books an appointment. The conflict check and the insert run in one
// transaction; the database's no-overlap constraint catches whatever slips
// between a check and a concurrent commit, so two racing requests for the
// same slot can never both succeed.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Appointment, error) {
	if in.PatientID == uuid.Nil || in.DentistID == uuid.Nil || in.ProcedureID == uuid.Nil {
		return nil, fmt.Errorf("%w: patient_id, dentist_id and procedure_id are required", ErrInvalidInput)
	}

	proc, err := s.procedures.Get(ctx, in.ProcedureID)
	if err != nil {
		if errors.Is(err, procedure.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown procedure", ErrInvalidInput)
		}
		return nil, err
	}

	start, err := clinictime.ParseInstant(s.loc, in.Date, in.StartTime)
	if err != nil {
		return nil, err
	}
	var end time.Time
	if in.EndTime == "" {
		end = start.Add(time.Duration(proc.DurationMinutes) * time.Minute)
	} else {
		end, err = clinictime.ParseInstant(s.loc, in.Date, in.EndTime)
		if err != nil {
			return nil, err
		}
	}
	if !start.Before(end) {
		return nil, fmt.Errorf("%w: start_time must be before end_time", ErrInvalidInput)
	}

	a := &Appointment{
		PatientID:   in.PatientID,
		DentistID:   in.DentistID,
		ProcedureID: in.ProcedureID,
		Date:        clinictime.DayOf(start),
		StartTime:   start,
		EndTime:     end,
		Status:      StatusScheduled,
		Notes:       in.Notes,
	}

	err = s.inTx(ctx, func(ctx context.Context) error {
		conflicts, err := s.repo.FindConflicts(ctx, a.DentistID, a.StartTime, a.EndTime, nil)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return &ConflictError{Conflicts: conflicts}
		}
		return s.repo.Create(ctx, a)
	})
	if err != nil {
		return nil, s.describeConflict(ctx, err, a, nil)
	}
	return a, nil
}

// describeConflict fills in the blockers when the database constraint fired
// before the in-transaction check could see the competing row. The re-query
// runs outside the aborted transaction.
func (s *Service) describeConflict(ctx context.Context, err error, a *Appointment, excludeID *uuid.UUID) error {
	var conflict *ConflictError
	if !errors.As(err, &conflict) || len(conflict.Conflicts) > 0 {
		return err
	}
	blockers, qerr := s.repo.FindConflicts(ctx, a.DentistID, a.StartTime, a.EndTime, excludeID)
	if qerr != nil {
		return err
	}
	return &ConflictError{Conflicts: blockers}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

// Update patches an appointment. Completed appointments are immutable.
// Status changes follow the transition graph; time or dentist changes re-run
// the conflict check with the appointment itself excluded.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Appointment, error) {
	var attempted *Appointment
	err := s.inTx(ctx, func(ctx context.Context) error {
		a, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if a.Status == StatusCompleted {
			return ErrImmutable
		}

		if in.Status != nil {
			next := Status(*in.Status)
			if !next.valid() {
				return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *in.Status)
			}
			if !a.Status.CanTransitionTo(next) {
				return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, a.Status, next)
			}
			a.Status = next
		}
		if in.DentistID != nil {
			a.DentistID = *in.DentistID
		}
		if in.ProcedureID != nil {
			a.ProcedureID = *in.ProcedureID
		}
		if in.Notes != nil {
			a.Notes = *in.Notes
		}

		if in.Date != nil || in.StartTime != nil || in.EndTime != nil {
			if err := s.retime(a, in); err != nil {
				return err
			}
		}

		if a.Status.Blocks() {
			conflicts, err := s.repo.FindConflicts(ctx, a.DentistID, a.StartTime, a.EndTime, &a.ID)
			if err != nil {
				return err
			}
			if len(conflicts) > 0 {
				return &ConflictError{Conflicts: conflicts}
			}
		}

		a.UpdatedAt = time.Now().UTC()
		attempted = a
		return s.repo.Update(ctx, a)
	})
	if err != nil {
		if attempted != nil {
			return nil, s.describeConflict(ctx, err, attempted, &attempted.ID)
		}
		return nil, err
	}
	return attempted, nil
}

// retime recomputes the stored instants from the merged clinic-local fields.
// Unchanged components come from localizing the stored instants.
func (s *Service) retime(a *Appointment, in UpdateInput) error {
	date, startClock := clinictime.Localize(s.loc, a.StartTime)
	_, endClock := clinictime.Localize(s.loc, a.EndTime)
	if in.Date != nil {
		date = *in.Date
	}
	if in.StartTime != nil {
		startClock = *in.StartTime
	}
	if in.EndTime != nil {
		endClock = *in.EndTime
	}
	n, err := clinictime.Normalize(s.loc, date, startClock, endClock)
	if err != nil {
		return err
	}
	if !n.Start.Before(n.End) {
		return fmt.Errorf("%w: start_time must be before end_time", ErrInvalidInput)
	}
	a.Date, a.StartTime, a.EndTime = n.Date, n.Start, n.End
	return nil
}

// Cancel marks an appointment cancelled. Cancelling an already cancelled
// appointment succeeds and re-persists it; only completed ones refuse.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status == StatusCompleted {
		return nil, ErrImmutable
	}
	a.Status = StatusCancelled
	a.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Delete removes the row outright. Administrative use only; cancellation is
// the normal path.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}

// ListByDentist returns the dentist's appointments starting on the given
// clinic-local day.
func (s *Service) ListByDentist(ctx context.Context, dentistID uuid.UUID, date string) ([]*Appointment, error) {
	from, to, err := s.localDayBounds(date)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByDentist(ctx, dentistID, from, to)
}

// AvailableSlots crosses the dentist's availability template for the date
// with the day's bookings. A window is withheld only when a blocking
// appointment starts exactly at the window's start minute; bookings that
// land elsewhere inside the window do not hide it.
func (s *Service) AvailableSlots(ctx context.Context, dentistID uuid.UUID, date string) ([]Slot, error) {
	windows, err := s.windows.WindowsOn(ctx, dentistID, date)
	if err != nil {
		return nil, err
	}
	from, to, err := s.localDayBounds(date)
	if err != nil {
		return nil, err
	}
	booked, err := s.repo.BookedStartTimes(ctx, dentistID, from, to)
	if err != nil {
		return nil, err
	}

	taken := make(map[int]bool, len(booked))
	for _, t := range booked {
		taken[clinictime.MinuteOf(s.loc, t)] = true
	}

	slots := make([]Slot, 0, len(windows))
	for _, w := range windows {
		if taken[w.StartMinute] {
			continue
		}
		slots = append(slots, Slot{Date: date, StartTime: w.StartClock(), EndTime: w.EndClock()})
	}
	return slots, nil
}

// localDayBounds returns the UTC instants spanning the clinic-local day,
// [local midnight, next local midnight). Day-based reads filter on the start
// instant within these bounds rather than the stored UTC day bucket, which
// shifts against the local date for bookings near midnight.
func (s *Service) localDayBounds(date string) (time.Time, time.Time, error) {
	from, err := clinictime.ParseInstant(s.loc, date, "00:00:00")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to := from.In(s.loc).AddDate(0, 0, 1).UTC()
	return from, to, nil
}
