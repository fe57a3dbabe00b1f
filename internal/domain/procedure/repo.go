package procedure

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Procedure) error
	GetByID(ctx context.Context, id uuid.UUID) (*Procedure, error)
	List(ctx context.Context, limit, offset int) ([]*Procedure, int, error)
	ListByDuration(ctx context.Context, minMinutes, maxMinutes int) ([]*Procedure, error)
	Update(ctx context.Context, p *Procedure) error
	Delete(ctx context.Context, id uuid.UUID) error
}
