package service

import "errors"

// Failure taxonomy raised by the application services. The API layer maps
// each kind to an HTTP status with errors.Is; kinds are signaled by identity,
// never by message text.
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDeactivated = errors.New("account deactivated")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrValidationFailed   = errors.New("validation failed")
	ErrConflict           = errors.New("conflict")
)
