package outbound

import (
	"context"
	"errors"
	"fmt"
)

// EnhanceInput is the payload of an enhance call to the image backend.
type EnhanceInput struct {
	Image     string         `json:"image"`
	Prompt    string         `json:"prompt"`
	StyleName string         `json:"styleName"`
	Sliders   map[string]any `json:"sliders"`
	HighRes   bool           `json:"highRes"`
}

// GenerateInput is the payload of a text-to-image call to the image backend.
type GenerateInput struct {
	Prompt      string         `json:"prompt"`
	Style       string         `json:"style"`
	Sliders     map[string]any `json:"sliders"`
	Width       int            `json:"width"`
	Height      int            `json:"height"`
	HighRes     bool           `json:"high_resolution"`
	AspectRatio string         `json:"aspect_ratio"`
}

// UpscaleInput is the payload of an upscale call to the image backend.
type UpscaleInput struct {
	Image string `json:"image"`
	Scale int    `json:"scale"`
}

// BackendError is a failure reported by an image backend. Message is safe
// to show to the caller.
type BackendError struct {
	StatusCode int
	Message    string
}

func (e *BackendError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("backend status %d: %s", e.StatusCode, e.Message)
	}
	return e.Message
}

// ErrProviderNotConfigured is returned when a backend has no credentials.
var ErrProviderNotConfigured = errors.New("provider not configured")

// ImageBackendPort defines the self-hosted image backend operations.
// Every method returns the produced image as a data URL or link.
type ImageBackendPort interface {
	Enhance(ctx context.Context, in *EnhanceInput) (string, error)
	Generate(ctx context.Context, in *GenerateInput) (string, error)
	Upscale(ctx context.Context, in *UpscaleInput) (string, error)
}

// ModelRunInput is a hosted model prediction request.
type ModelRunInput struct {
	// Model is the logical model name, "model1" or "model2".
	Model  string
	Prompt string
	// Images are passed in order: style reference, main image, then optional logo.
	Images []string
	// Resolution is "2K" or "4K" for model2, empty otherwise.
	Resolution string
}

// ModelRunPort defines the hosted model provider used for style transfers.
type ModelRunPort interface {
	// Run executes a prediction and returns the first output URL.
	Run(ctx context.Context, in *ModelRunInput) (string, error)
}
