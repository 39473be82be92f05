package models

import "errors"

// Domain errors are pure — the query layer classifies at the point of
// violation, handlers translate to HTTP status codes.
var (
	ErrNotFound     = errors.New("record not found")
	ErrForbidden    = errors.New("access denied")
	ErrConflict     = errors.New("duplicate record")
	ErrInvalidState = errors.New("operation not allowed in current state")
	ErrValidation   = errors.New("invalid input")
)
