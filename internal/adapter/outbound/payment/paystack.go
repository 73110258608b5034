package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/mockupstudio/server/internal/infra/config"
	"github.com/mockupstudio/server/internal/port/outbound"
	"go.uber.org/zap"
)

const paystackName = "paystack"

// paystackEnvelope is the common shape of every Paystack response.
type paystackEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type paystackInitRequest struct {
	Email       string           `json:"email"`
	Amount      int64            `json:"amount"`
	Currency    string           `json:"currency"`
	Reference   string           `json:"reference"`
	CallbackURL string           `json:"callback_url"`
	Metadata    paystackMetadata `json:"metadata"`
}

type paystackMetadata struct {
	UserID    string     `json:"userId,omitempty"`
	PlanID    string     `json:"planId,omitempty"`
	Credits   flexNumber `json:"credits"`
	AmountNGN flexNumber `json:"amountNgn"`
}

type paystackTransaction struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
	// Amount is in the minor unit.
	Amount   json.Number `json:"amount"`
	Currency string      `json:"currency"`
	// Metadata is an object, or an empty string when none was attached.
	Metadata json.RawMessage `json:"metadata"`
}

// flexNumber decodes a JSON number or a numeric string.
type flexNumber struct {
	Value float64
	Valid bool
}

func (n flexNumber) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

func (n *flexNumber) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*n = flexNumber{}
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		*n = flexNumber{}
		return nil
	}
	*n = flexNumber{Value: v, Valid: true}
	return nil
}

type paystackAdapter struct {
	http      *http.Client
	baseURL   string
	secretKey string
	logger    *zap.Logger
}

// NewPaystackAdapter creates a Paystack checkout provider.
func NewPaystackAdapter(httpClient *http.Client, cfg config.PaystackConfig, logger *zap.Logger) outbound.PaymentProviderPort {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = "https://api.paystack.co"
	}
	return &paystackAdapter{
		http:      httpClient,
		baseURL:   base,
		secretKey: cfg.SecretKey,
		logger:    logger,
	}
}

func (a *paystackAdapter) Name() string {
	return paystackName
}

func (a *paystackAdapter) InitializeCheckout(ctx context.Context, in *outbound.CheckoutInput) (*outbound.CheckoutSession, error) {
	if a.secretKey == "" {
		return nil, outbound.ErrProviderNotConfigured
	}

	body := paystackInitRequest{
		Email:       in.Email,
		Amount:      in.Amount * 100,
		Currency:    in.Currency,
		Reference:   in.Reference,
		CallbackURL: in.CallbackURL,
		Metadata: paystackMetadata{
			UserID:    in.AccountID,
			PlanID:    in.PlanID,
			Credits:   flexNumber{Value: float64(in.Credits), Valid: true},
			AmountNGN: flexNumber{Value: float64(in.Amount), Valid: true},
		},
	}

	var out struct {
		AuthorizationURL string `json:"authorization_url"`
		Reference        string `json:"reference"`
	}
	if err := a.do(ctx, http.MethodPost, "/transaction/initialize", body, "Failed to initialize payment", &out); err != nil {
		return nil, err
	}

	ref := out.Reference
	if ref == "" {
		ref = in.Reference
	}
	return &outbound.CheckoutSession{AuthorizationURL: out.AuthorizationURL, Reference: ref}, nil
}

func (a *paystackAdapter) VerifyPayment(ctx context.Context, reference string) (*outbound.VerifiedPayment, error) {
	if a.secretKey == "" {
		return nil, outbound.ErrProviderNotConfigured
	}

	var tx paystackTransaction
	path := "/transaction/verify/" + url.PathEscape(reference)
	if err := a.do(ctx, http.MethodGet, path, nil, "Failed to verify payment", &tx); err != nil {
		return nil, err
	}

	minor, _ := tx.Amount.Float64()
	result := &outbound.VerifiedPayment{
		Reference:  reference,
		Paid:       tx.Status == "success",
		Status:     tx.Status,
		AmountPaid: int64(math.Round(minor / 100)),
		Currency:   tx.Currency,
	}

	var meta paystackMetadata
	if len(tx.Metadata) > 0 && tx.Metadata[0] == '{' {
		if err := json.Unmarshal(tx.Metadata, &meta); err != nil {
			a.logger.Warn("ignoring unreadable paystack metadata", zap.String("reference", reference), zap.Error(err))
		}
	}
	result.Metadata = outbound.PaymentMetadata{
		AccountID: meta.UserID,
		PlanID:    meta.PlanID,
		Credits:   int64(meta.Credits.Value),
	}
	if meta.AmountNGN.Valid {
		amount := int64(math.Round(meta.AmountNGN.Value))
		result.Metadata.Amount = &amount
	}
	return result, nil
}

func (a *paystackAdapter) do(ctx context.Context, method, path string, payload any, fallback string, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.secretKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return fmt.Errorf("paystack request: %w", err)
	}
	defer resp.Body.Close()

	var env paystackEnvelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)
	if resp.StatusCode >= 400 || decodeErr != nil || !env.Status {
		msg := env.Message
		if msg == "" {
			msg = fallback
		}
		return &outbound.ProviderError{Provider: paystackName, StatusCode: resp.StatusCode, Message: msg}
	}

	if err := json.Unmarshal(env.Data, out); err != nil {
		return &outbound.ProviderError{Provider: paystackName, StatusCode: resp.StatusCode, Message: fallback}
	}
	return nil
}

// Compile-time check
var _ outbound.PaymentProviderPort = (*paystackAdapter)(nil)
