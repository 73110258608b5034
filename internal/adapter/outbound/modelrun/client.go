package modelrun

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
	backendName      = "model_run"
	maxResponseBytes = 4 << 20

	msgUnavailable = "Image model is temporarily unavailable"
	msgNoOutput    = "Image model did not return an image"
)

// Terminal prediction states.
const (
	statusSucceeded = "succeeded"
	statusFailed    = "failed"
	statusCanceled  = "canceled"
)

type predictionRequest struct {
	Input predictionInput `json:"input"`
}

type predictionInput struct {
	Prompt       string   `json:"prompt"`
	ImageInput   []string `json:"image_input"`
	OutputFormat string   `json:"output_format"`
	Resolution   string   `json:"resolution,omitempty"`
}

type prediction struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Output predictionOutput `json:"output"`
	Error  any             `json:"error"`
	URLs   struct {
		Get string `json:"get"`
	} `json:"urls"`
}

func (p *prediction) done() bool {
	switch p.Status {
	case statusSucceeded, statusFailed, statusCanceled:
		return true
	}
	return false
}

// client implements outbound.ModelRunPort against a Replicate-compatible
// predictions API.
type client struct {
	http         *http.Client
	baseURL      string
	token        string
	models       map[string]string
	pollInterval time.Duration
	breaker      *gobreaker.CircuitBreaker[string]
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

// NewClient creates a hosted model client. Calls fail with
// outbound.ErrProviderNotConfigured when no token is set.
func NewClient(httpClient *http.Client, cfg config.ModelRunConfig, m *metrics.Metrics, logger *zap.Logger) outbound.ModelRunPort {
	poll := cfg.PollInterval
	if poll <= 0 {
		poll = 2 * time.Second
	}
	return &client{
		http:    httpClient,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		models: map[string]string{
			"model1": cfg.StandardModel,
			"model2": cfg.ProModel,
		},
		pollInterval: poll,
		breaker:      breaker.New[string](backendName, cfg.Breaker, countsAsHealthy, logger),
		metrics:      m,
		logger:       logger,
	}
}

func (c *client) Run(ctx context.Context, in *outbound.ModelRunInput) (string, error) {
	if c.token == "" {
		return "", outbound.ErrProviderNotConfigured
	}
	model, ok := c.models[in.Model]
	if !ok || model == "" {
		return "", fmt.Errorf("unknown model %q", in.Model)
	}

	start := time.Now()
	url, err := c.breaker.Execute(func() (string, error) {
		return c.run(ctx, model, in)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		err = &outbound.BackendError{StatusCode: http.StatusServiceUnavailable, Message: msgUnavailable}
	}
	c.metrics.RecordGatewayRequest(backendName, in.Model, err, time.Since(start))
	return url, err
}

func (c *client) run(ctx context.Context, model string, in *outbound.ModelRunInput) (string, error) {
	body, err := json.Marshal(predictionRequest{Input: predictionInput{
		Prompt:       in.Prompt,
		ImageInput:   in.Images,
		OutputFormat: "png",
		Resolution:   in.Resolution,
	}})
	if err != nil {
		return "", fmt.Errorf("marshal prediction: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/models/"+model+"/predictions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "wait")

	p, err := c.do(req)
	if err != nil {
		return "", err
	}

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()
	for !p.done() {
		if p.URLs.Get == "" {
			return "", fmt.Errorf("prediction %s is %s without a poll url", p.ID, p.Status)
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URLs.Get, nil)
		if err != nil {
			return "", fmt.Errorf("create request: %w", err)
		}
		if p, err = c.do(req); err != nil {
			return "", err
		}
	}

	if p.Status != statusSucceeded {
		c.logger.Warn("prediction did not succeed",
			zap.String("prediction_id", p.ID),
			zap.String("status", p.Status),
			zap.Any("error", p.Error),
		)
		return "", &outbound.BackendError{StatusCode: http.StatusBadGateway, Message: fmt.Sprintf("Image model %s", p.Status)}
	}

	url := p.Output.URL()
	if url == "" {
		return "", &outbound.BackendError{StatusCode: http.StatusBadGateway, Message: msgNoOutput}
	}
	return url, nil
}

func (c *client) do(req *http.Request) (*prediction, error) {
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("prediction request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read prediction: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Detail string `json:"detail"`
		}
		_ = json.Unmarshal(raw, &apiErr)
		msg := apiErr.Detail
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &outbound.BackendError{StatusCode: resp.StatusCode, Message: msg}
	}

	var p prediction
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, &outbound.BackendError{StatusCode: http.StatusBadGateway, Message: "Image model returned invalid response"}
	}
	return &p, nil
}

// imageOutput is one shape of a prediction output.
type imageOutput interface {
	URL() string
}

type urlOutput string

func (o urlOutput) URL() string { return string(o) }

// urlListOutput yields its first URL.
type urlListOutput []string

func (o urlListOutput) URL() string {
	if len(o) == 0 {
		return ""
	}
	return o[0]
}

type fileOutput struct {
	Href string `json:"url"`
}

func (o fileOutput) URL() string { return o.Href }

// predictionOutput decodes the output field by its leading token. Other
// shapes, null included, carry no URL.
type predictionOutput struct {
	shape imageOutput
}

func (p *predictionOutput) UnmarshalJSON(raw []byte) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil
	}

	switch trimmed[0] {
	case '"':
		var o urlOutput
		if err := json.Unmarshal(trimmed, &o); err != nil {
			return err
		}
		p.shape = o
	case '[':
		var o urlListOutput
		if err := json.Unmarshal(trimmed, &o); err != nil {
			return err
		}
		p.shape = o
	case '{':
		var o fileOutput
		if err := json.Unmarshal(trimmed, &o); err != nil {
			return err
		}
		p.shape = o
	default:
		p.shape = nil
	}
	return nil
}

// URL returns the first image URL, or "" when the output has none.
func (p predictionOutput) URL() string {
	if p.shape == nil {
		return ""
	}
	return p.shape.URL()
}

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
var _ outbound.ModelRunPort = (*client)(nil)
