package outbound

import (
	"context"
	"errors"
	"fmt"
)

// ErrPaymentNotFound is returned when the provider does not know a reference.
var ErrPaymentNotFound = errors.New("payment not found")

// CheckoutInput describes a credit pack purchase.
type CheckoutInput struct {
	AccountID string
	Email     string
	PlanID    string
	Credits   int64
	// Amount is in major currency units.
	Amount      int64
	Currency    string
	Reference   string
	CallbackURL string
}

// CheckoutSession is where the customer is sent to pay.
type CheckoutSession struct {
	AuthorizationURL string
	// Reference is what the provider will be queried with on verification.
	Reference string
}

// PaymentMetadata is the data attached to a checkout and echoed back on verification.
type PaymentMetadata struct {
	AccountID string
	PlanID    string
	Credits   int64
	// Amount is nil when the provider did not echo it back.
	Amount *int64
}

// VerifiedPayment is the provider's view of a payment.
type VerifiedPayment struct {
	Reference string
	Paid      bool
	Status    string
	// AmountPaid is in major currency units, rounded.
	AmountPaid int64
	Currency   string
	Metadata   PaymentMetadata
}

// PaymentProviderPort defines a hosted checkout payment provider.
type PaymentProviderPort interface {
	// Name returns the provider identifier.
	Name() string

	// InitializeCheckout creates a hosted checkout.
	InitializeCheckout(ctx context.Context, in *CheckoutInput) (*CheckoutSession, error)

	// VerifyPayment fetches the payment state of a reference.
	VerifyPayment(ctx context.Context, reference string) (*VerifiedPayment, error)
}

// ProviderError is a rejected or failed provider call. Message is safe to
// show to the customer.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Provider, e.StatusCode, e.Message)
}
