package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/brightsmile/clinic/internal/platform/clinictime"
)

const minutesPerDay = 24 * 60

// Service manages weekly availability templates for dentists. Windows are
// advisory: appointment booking does not hard-reject out-of-window times,
// they only shape the slot suggestions.
type Service struct {
	windows Repository
}

func NewService(windows Repository) *Service {
	return &Service{windows: windows}
}

func (s *Service) Create(ctx context.Context, w *Window) error {
	if w.DentistID == uuid.Nil {
		return fmt.Errorf("%w: dentist_id is required", ErrInvalidInput)
	}
	if w.Weekday < time.Sunday || w.Weekday > time.Saturday {
		return fmt.Errorf("%w: weekday out of range", ErrInvalidInput)
	}
	if w.StartMinute < 0 || w.EndMinute > minutesPerDay || w.StartMinute >= w.EndMinute {
		return fmt.Errorf("%w: window must satisfy 0 <= start < end <= %d", ErrInvalidInput, minutesPerDay)
	}

	// Reject overlap with an existing window on the same weekday.
	existing, err := s.windows.ListByDentistWeekday(ctx, w.DentistID, w.Weekday)
	if err != nil {
		return err
	}
	for _, e := range existing {
		if w.StartMinute < e.EndMinute && w.EndMinute > e.StartMinute {
			return fmt.Errorf("%w: overlaps existing window %s-%s", ErrInvalidInput, e.StartClock(), e.EndClock())
		}
	}

	return s.windows.Create(ctx, w)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Window, error) {
	return s.windows.GetByID(ctx, id)
}

func (s *Service) ListByDentist(ctx context.Context, dentistID uuid.UUID) ([]*Window, error) {
	return s.windows.ListByDentist(ctx, dentistID)
}

// WindowsOn returns the dentist's windows for the clinic-local weekday of the
// given ISO date, ordered by start minute. A day with no windows yields an
// empty slice, not an error.
func (s *Service) WindowsOn(ctx context.Context, dentistID uuid.UUID, date string) ([]*Window, error) {
	weekday, err := clinictime.Weekday(date)
	if err != nil {
		return nil, err
	}
	windows, err := s.windows.ListByDentistWeekday(ctx, dentistID, weekday)
	if err != nil {
		return nil, err
	}
	if windows == nil {
		windows = []*Window{}
	}
	return windows, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.windows.Delete(ctx, id)
}
