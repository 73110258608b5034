package aibackend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mockupstudio/server/internal/infra/breaker"
	"github.com/mockupstudio/server/internal/infra/config"
	"github.com/mockupstudio/server/internal/port/outbound"
	"github.com/mockupstudio/server/internal/utils/metrics"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

const (
	// SecretHeader carries the shared backend secret.
	SecretHeader = "X-AI-Backend-Secret"

	backendName = "ai_backend"

	// maxResponseBytes bounds a response body; results are inline images.
	maxResponseBytes = 64 << 20

	msgInvalidResponse = "AI backend returned invalid response"
	msgUnavailable     = "AI backend is temporarily unavailable"
)

// backendResponse is the reply shape of every backend endpoint.
type backendResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	Image         string `json:"image"`
	EnhancedImage string `json:"enhancedImage"`
}

// client implements outbound.ImageBackendPort over the backend's JSON API.
type client struct {
	http    *http.Client
	baseURL string
	secret  string
	breaker *gobreaker.CircuitBreaker[string]
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewClient creates a new image backend client.
func NewClient(httpClient *http.Client, cfg config.AIBackendConfig, m *metrics.Metrics, logger *zap.Logger) outbound.ImageBackendPort {
	return &client{
		http:    httpClient,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		secret:  cfg.Secret,
		breaker: breaker.New[string](backendName, cfg.Breaker, countsAsHealthy, logger),
		metrics: m,
		logger:  logger,
	}
}

func (c *client) Enhance(ctx context.Context, in *outbound.EnhanceInput) (string, error) {
	return c.call(ctx, "enhance", in, func(r *backendResponse) string { return r.EnhancedImage })
}

func (c *client) Generate(ctx context.Context, in *outbound.GenerateInput) (string, error) {
	return c.call(ctx, "generate", in, func(r *backendResponse) string { return r.Image })
}

func (c *client) Upscale(ctx context.Context, in *outbound.UpscaleInput) (string, error) {
	return c.call(ctx, "upscale", in, func(r *backendResponse) string { return r.Image })
}

func (c *client) call(ctx context.Context, op string, payload any, pick func(*backendResponse) string) (string, error) {
	start := time.Now()
	image, err := c.breaker.Execute(func() (string, error) {
		return c.post(ctx, op, payload, pick)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		err = &outbound.BackendError{StatusCode: http.StatusServiceUnavailable, Message: msgUnavailable}
	}
	c.metrics.RecordGatewayRequest(backendName, op, err, time.Since(start))
	return image, err
}

func (c *client) post(ctx context.Context, op string, payload any, pick func(*backendResponse) string) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal %s request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/"+op, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.secret != "" {
		req.Header.Set(SecretHeader, c.secret)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s request failed: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read %s response: %w", op, err)
	}

	var out backendResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		c.logger.Warn("ai backend returned non-JSON body",
			zap.String("operation", op),
			zap.Int("status", resp.StatusCode),
			zap.Int("bytes", len(raw)),
		)
		return "", &outbound.BackendError{StatusCode: http.StatusBadGateway, Message: msgInvalidResponse}
	}

	image := pick(&out)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !out.Success || image == "" {
		return "", &outbound.BackendError{StatusCode: resp.StatusCode, Message: out.Message}
	}
	return image, nil
}

// countsAsHealthy keeps reported business failures, such as a rejected
// prompt, from tripping the breaker. Transport errors and 5xx do.
func countsAsHealthy(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var be *outbound.BackendError
	if errors.As(err, &be) {
		return be.StatusCode < http.StatusInternalServerError
	}
	return false
}

// Compile-time check
var _ outbound.ImageBackendPort = (*client)(nil)
