package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrStateConflict         = errors.New("state conflict")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
