package scheduling

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("appointment not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrImmutable         = errors.New("completed appointments cannot be modified")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotOwner          = errors.New("appointment belongs to another patient")
)

// ConflictError reports that a requested interval overlaps existing blocking
// appointments. Conflicts carries the blockers ordered by start time.
type ConflictError struct {
	Conflicts []*Appointment
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("requested time conflicts with %d existing appointment(s)", len(e.Conflicts))
}

// StorageError wraps a driver failure so callers can tell infrastructure
// trouble apart from domain rejections.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
