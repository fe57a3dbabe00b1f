package procedure

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	procedures Repository
}

func NewService(procedures Repository) *Service {
	return &Service{procedures: procedures}
}

func (s *Service) Create(ctx context.Context, p *Procedure) error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if p.DurationMinutes <= 0 {
		return fmt.Errorf("%w: duration_minutes must be positive", ErrInvalidInput)
	}
	return s.procedures.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Procedure, error) {
	return s.procedures.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Procedure, int, error) {
	return s.procedures.List(ctx, limit, offset)
}

func (s *Service) ListByDuration(ctx context.Context, minMinutes, maxMinutes int) ([]*Procedure, error) {
	if minMinutes < 0 || maxMinutes < minMinutes {
		return nil, fmt.Errorf("%w: invalid duration range", ErrInvalidInput)
	}
	return s.procedures.ListByDuration(ctx, minMinutes, maxMinutes)
}

// Update merges the provided fields into the stored procedure. Empty name or
// zero duration keep the existing values.
func (s *Service) Update(ctx context.Context, id uuid.UUID, name string, durationMinutes int) (*Procedure, error) {
	if name == "" && durationMinutes <= 0 {
		return nil, fmt.Errorf("%w: at least one of name or duration_minutes is required", ErrInvalidInput)
	}
	existing, err := s.procedures.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if name != "" {
		existing.Name = name
	}
	if durationMinutes > 0 {
		existing.DurationMinutes = durationMinutes
	}
	if err := s.procedures.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.procedures.Delete(ctx, id)
}
