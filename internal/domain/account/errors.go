package account

import "errors"

// Domain errors.
var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("Invalid email or password")
	ErrEmailInUse         = errors.New("Email already in use")
	ErrAccountExists      = errors.New("User with this email already exists")
	ErrAccountNotFound    = errors.New("User not found")
	ErrInvalidInput       = errors.New("invalid input")
)

// ValidationError carries a user-facing message for a rejected input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}
