package procedure

import (
	"time"

	"github.com/google/uuid"
)

// Procedure maps to the procedures table. DurationMinutes drives the length
// of appointments booked for this procedure.
type Procedure struct {
	ID              uuid.UUID `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}
