package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mockupstudio/server/internal/port/outbound"
	"github.com/mockupstudio/server/internal/utils/metrics"
	"go.uber.org/zap"
)

// Config holds billing configuration.
type Config struct {
	// AppURL is the public base URL the provider redirects back to.
	AppURL   string
	Currency string
}

// Checkout is a started purchase.
type Checkout struct {
	AuthorizationURL string `json:"authorizationUrl"`
	Reference        string `json:"reference"`
}

// Verification is the outcome of verifying a purchase.
type Verification struct {
	Credits         int64 `json:"credits"`
	Added           int64 `json:"added,omitempty"`
	AlreadyCredited bool  `json:"alreadyCredited,omitempty"`
}

// Domain sells credit packs through a hosted checkout.
type Domain struct {
	accounts     outbound.AccountDatabasePort
	ledger       outbound.LedgerPort
	transactions outbound.TransactionDatabasePort
	provider     outbound.PaymentProviderPort
	cfg          Config
	metrics      *metrics.Metrics
	logger       *zap.Logger
	now          func() time.Time
}

// NewBillingDomain creates a new billing domain. provider may be nil when
// no payment provider is configured.
func NewBillingDomain(
	accounts outbound.AccountDatabasePort,
	ledger outbound.LedgerPort,
	transactions outbound.TransactionDatabasePort,
	provider outbound.PaymentProviderPort,
	cfg Config,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Domain {
	if cfg.Currency == "" {
		cfg.Currency = "NGN"
	}
	cfg.AppURL = strings.TrimRight(cfg.AppURL, "/")
	return &Domain{
		accounts:     accounts,
		ledger:       ledger,
		transactions: transactions,
		provider:     provider,
		cfg:          cfg,
		metrics:      m,
		logger:       logger,
		now:          time.Now,
	}
}

// StartCheckout creates a hosted checkout for a credit pack.
func (d *Domain) StartCheckout(ctx context.Context, accountID uuid.UUID, planID string) (*Checkout, error) {
	account, err := d.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	if account == nil {
		return nil, ErrUnauthorized
	}

	plan, ok := FindPlan(planID)
	if !ok {
		return nil, ErrInvalidPlan
	}
	if d.provider == nil {
		return nil, ErrProviderNotConfigured
	}

	reference := fmt.Sprintf("cred_%s_%d", account.ID, d.now().UnixMilli())
	session, err := d.provider.InitializeCheckout(ctx, &outbound.CheckoutInput{
		AccountID:   account.ID.String(),
		Email:       account.Email,
		PlanID:      plan.ID,
		Credits:     plan.Credits,
		Amount:      plan.Amount,
		Currency:    d.cfg.Currency,
		Reference:   reference,
		CallbackURL: d.cfg.AppURL + "/billing/success",
	})
	if err != nil {
		return nil, d.providerError("Failed to initialize payment", err)
	}

	d.logger.Info("checkout started",
		zap.String("account_id", account.ID.String()),
		zap.String("plan_id", plan.ID),
		zap.String("provider", d.provider.Name()),
		zap.String("reference", session.Reference),
	)
	return &Checkout{AuthorizationURL: session.AuthorizationURL, Reference: session.Reference}, nil
}

// Verify confirms a payment with the provider and credits the account
// exactly once per reference.
func (d *Domain) Verify(ctx context.Context, accountID uuid.UUID, reference string) (*Verification, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, ErrMissingReference
	}
	account, err := d.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	if account == nil {
		return nil, ErrUnauthorized
	}
	if d.provider == nil {
		return nil, ErrProviderNotConfigured
	}

	payment, err := d.provider.VerifyPayment(ctx, reference)
	if err != nil {
		return nil, d.providerError("Failed to verify payment", err)
	}
	if !payment.Paid {
		return nil, ErrPaymentNotPaid
	}
	if payment.AmountPaid <= 0 {
		return nil, ErrInvalidAmount
	}
	if expected := payment.Metadata.Amount; expected != nil && *expected > 0 && *expected != payment.AmountPaid {
		return nil, ErrAmountMismatch
	}
	if owner := payment.Metadata.AccountID; owner != "" && owner != account.ID.String() {
		return nil, ErrForeignPayment
	}

	existing, err := d.transactions.FindByDescription(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("find transaction: %w", err)
	}
	if existing != nil {
		return d.alreadyCredited(ctx, account.ID)
	}

	credits := payment.AmountPaid
	balance, err := d.transactions.CreditWithRecord(ctx, account.ID, credits, reference)
	if err != nil {
		if errors.Is(err, outbound.ErrDuplicateReference) {
			return d.alreadyCredited(ctx, account.ID)
		}
		return nil, fmt.Errorf("credit account: %w", err)
	}

	d.metrics.RecordPaymentCredited(d.provider.Name())
	d.logger.Info("payment credited",
		zap.String("account_id", account.ID.String()),
		zap.String("reference", reference),
		zap.Int64("credits", credits),
	)
	return &Verification{Credits: balance, Added: credits}, nil
}

func (d *Domain) alreadyCredited(ctx context.Context, accountID uuid.UUID) (*Verification, error) {
	balance, err := d.ledger.Balance(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("read balance: %w", err)
	}
	return &Verification{Credits: balance, AlreadyCredited: true}, nil
}

func (d *Domain) providerError(fallback string, err error) error {
	if errors.Is(err, outbound.ErrProviderNotConfigured) {
		return ErrProviderNotConfigured
	}
	msg := fallback
	var pe *outbound.ProviderError
	if errors.As(err, &pe) && pe.Message != "" {
		msg = pe.Message
	}
	d.logger.Warn("payment provider call failed", zap.String("provider", d.provider.Name()), zap.Error(err))
	return &ProviderError{Message: msg, Err: err}
}
