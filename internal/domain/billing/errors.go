package billing

import "errors"

// Domain errors for billing.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidPlan  = errors.New("Invalid plan")

	// Verification errors
	ErrMissingReference = errors.New("Missing reference")
	ErrPaymentNotPaid   = errors.New("Payment not successful")
	ErrInvalidAmount    = errors.New("Invalid payment amount")
	ErrAmountMismatch   = errors.New("Payment amount mismatch")
	ErrForeignPayment   = errors.New("Payment belongs to another account")

	// Provider errors
	ErrProviderNotConfigured = errors.New("payment provider is not configured")
)

// ProviderError is a failed call to the payment provider.
type ProviderError struct {
	Message string
	Err     error
}

func (e *ProviderError) Error() string { return e.Message }

func (e *ProviderError) Unwrap() error { return e.Err }
