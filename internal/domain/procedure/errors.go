package procedure

import "errors"

var (
	ErrNotFound     = errors.New("procedure not found")
	ErrInvalidInput = errors.New("invalid procedure input")
)
