package payment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/mockupstudio/server/internal/infra/config"
	"github.com/mockupstudio/server/internal/port/outbound"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"go.uber.org/zap"
)

const stripeName = "stripe"

// Metadata keys attached to a checkout session.
const (
	metaAccountID = "userId"
	metaPlanID    = "planId"
	metaCredits   = "credits"
	metaAmount    = "amount"
)

type stripeAdapter struct {
	api        *client.API
	configured bool
	logger     *zap.Logger
}

// NewStripeAdapter creates a Stripe Checkout provider.
func NewStripeAdapter(httpClient *http.Client, cfg config.StripeConfig, logger *zap.Logger) outbound.PaymentProviderPort {
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		HTTPClient:    httpClient,
		LeveledLogger: &stripe.LeveledLogger{Level: stripe.LevelError},
	})
	return newStripeAdapter(cfg.SecretKey, backend, logger)
}

func newStripeAdapter(secretKey string, backend stripe.Backend, logger *zap.Logger) *stripeAdapter {
	api := &client.API{}
	api.Init(secretKey, &stripe.Backends{API: backend, Connect: backend, Uploads: backend})
	return &stripeAdapter{api: api, configured: secretKey != "", logger: logger}
}

func (a *stripeAdapter) Name() string {
	return stripeName
}

func (a *stripeAdapter) InitializeCheckout(ctx context.Context, in *outbound.CheckoutInput) (*outbound.CheckoutSession, error) {
	if !a.configured {
		return nil, outbound.ErrProviderNotConfigured
	}

	successURL := in.CallbackURL
	if strings.Contains(successURL, "?") {
		successURL += "&reference={CHECKOUT_SESSION_ID}"
	} else {
		successURL += "?reference={CHECKOUT_SESSION_ID}"
	}

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(successURL),
		CancelURL:         stripe.String(in.CallbackURL),
		ClientReferenceID: stripe.String(in.Reference),
		CustomerEmail:     stripe.String(in.Email),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			Quantity: stripe.Int64(1),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(strings.ToLower(in.Currency)),
				UnitAmount: stripe.Int64(in.Amount * 100),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(fmt.Sprintf("%d credits", in.Credits)),
				},
			},
		}},
	}
	params.Context = ctx
	params.AddMetadata(metaAccountID, in.AccountID)
	params.AddMetadata(metaPlanID, in.PlanID)
	params.AddMetadata(metaCredits, strconv.FormatInt(in.Credits, 10))
	params.AddMetadata(metaAmount, strconv.FormatInt(in.Amount, 10))

	s, err := a.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, stripeError("Failed to initialize payment", err)
	}
	return &outbound.CheckoutSession{AuthorizationURL: s.URL, Reference: s.ID}, nil
}

func (a *stripeAdapter) VerifyPayment(ctx context.Context, reference string) (*outbound.VerifiedPayment, error) {
	if !a.configured {
		return nil, outbound.ErrProviderNotConfigured
	}

	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	s, err := a.api.CheckoutSessions.Get(reference, params)
	if err != nil {
		return nil, stripeError("Failed to verify payment", err)
	}

	result := &outbound.VerifiedPayment{
		Reference:  s.ID,
		Paid:       s.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		Status:     string(s.PaymentStatus),
		AmountPaid: int64(math.Round(float64(s.AmountTotal) / 100)),
		Currency:   strings.ToUpper(string(s.Currency)),
		Metadata: outbound.PaymentMetadata{
			AccountID: s.Metadata[metaAccountID],
			PlanID:    s.Metadata[metaPlanID],
		},
	}
	if v, err := strconv.ParseInt(s.Metadata[metaCredits], 10, 64); err == nil {
		result.Metadata.Credits = v
	}
	if v, err := strconv.ParseInt(s.Metadata[metaAmount], 10, 64); err == nil {
		result.Metadata.Amount = &v
	}
	return result, nil
}

func stripeError(fallback string, err error) error {
	var se *stripe.Error
	if errors.As(err, &se) {
		msg := se.Msg
		if msg == "" {
			msg = fallback
		}
		return &outbound.ProviderError{Provider: stripeName, StatusCode: se.HTTPStatusCode, Message: msg}
	}
	return fmt.Errorf("stripe: %w", err)
}

// Compile-time check
var _ outbound.PaymentProviderPort = (*stripeAdapter)(nil)
