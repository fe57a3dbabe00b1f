package availability

import "errors"

var (
	ErrNotFound     = errors.New("availability window not found")
	ErrInvalidInput = errors.New("invalid availability window")
)
