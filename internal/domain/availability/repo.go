package availability

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, w *Window) error
	GetByID(ctx context.Context, id uuid.UUID) (*Window, error)
	ListByDentist(ctx context.Context, dentistID uuid.UUID) ([]*Window, error)
	ListByDentistWeekday(ctx context.Context, dentistID uuid.UUID, weekday time.Weekday) ([]*Window, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
