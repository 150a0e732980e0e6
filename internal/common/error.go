package common

import "errors"

// Callers should use errors.Is to match these values.
var (
	// Repository-level errors.
	ErrorNotFound    = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrUnavailable    = errors.New("service unavailable")
	ErrValidation     = errors.New("validation error")

	// Gate errors.
	ErrInvalidPin           = errors.New("invalid pin")
	ErrConfirmationMismatch = errors.New("confirmation phrase does not match")
	ErrTooManyAttempts      = errors.New("too many attempts")

	// Token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
