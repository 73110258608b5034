package generation

import (
	"errors"
	"fmt"
)

// Domain errors for generation.
var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidRequest      = errors.New("invalid request")
	ErrStyleNotFound       = errors.New("style not found")
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrGateway             = errors.New("generation backend failed")

	// Logged only; never returned to callers.
	ErrRefundFailure      = errors.New("refund failed")
	ErrPersistenceFailure = errors.New("persistence failed after generation")

	ErrInvalidResolution = &ValidationError{Message: "resolutionChoice must be one of 1k, 2k, 4k"}
)

// ValidationError is an ErrInvalidRequest with a caller-facing message.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrInvalidRequest }

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// GatewayError is an ErrGateway with a caller-facing message.
type GatewayError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s gateway: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s gateway: %s", e.Kind, e.Message)
}

func (e *GatewayError) Unwrap() error { return e.Err }

func (e *GatewayError) Is(target error) bool { return target == ErrGateway }
