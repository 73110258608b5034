package generation

import (
	"context"
	"errors"
	"fmt"

	"github.com/mockupstudio/server/internal/port/outbound"
	"github.com/mockupstudio/server/internal/utils/requestctx"
	"go.uber.org/zap"
)

// UpscalePolicy controls the follow-up upscales of enhanced images.
type UpscalePolicy struct {
	Enabled            bool
	MaxAttempts        int
	TargetMinDimension int
	TargetBytes        int64
	MaxMinDimension    int
}

// DefaultUpscalePolicy returns the tuned thresholds with the loop disabled.
func DefaultUpscalePolicy() UpscalePolicy {
	return UpscalePolicy{
		MaxAttempts:        3,
		TargetMinDimension: 2048,
		TargetBytes:        2_000_000,
		MaxMinDimension:    4096,
	}
}

// Call is one validated gateway invocation. Exactly one input is set,
// matching Kind.
type Call struct {
	Kind     Kind
	Enhance  *outbound.EnhanceInput
	Generate *outbound.GenerateInput
	Upscale  *outbound.UpscaleInput
	ModelRun *outbound.ModelRunInput
}

// Asset is a produced image.
type Asset struct {
	// Image is a data URL or a link.
	Image string
	// FollowUpUpscales counts accepted auto-upscale passes.
	FollowUpUpscales int
}

// Gateway normalizes the image backends into a single success or ErrGateway result.
type Gateway struct {
	backend  outbound.ImageBackendPort
	modelRun outbound.ModelRunPort
	policy   UpscalePolicy
	logger   *zap.Logger
}

// NewGateway creates a gateway over the image backend and the model run provider.
func NewGateway(backend outbound.ImageBackendPort, modelRun outbound.ModelRunPort, policy UpscalePolicy, logger *zap.Logger) *Gateway {
	return &Gateway{
		backend:  backend,
		modelRun: modelRun,
		policy:   policy,
		logger:   logger,
	}
}

// Invoke performs the call. Backend failures are returned as *GatewayError;
// ErrProviderNotConfigured is returned unwrapped.
func (g *Gateway) Invoke(ctx context.Context, call *Call) (*Asset, error) {
	var (
		image string
		err   error
	)

	switch call.Kind {
	case KindEnhance:
		image, err = g.backend.Enhance(ctx, call.Enhance)
	case KindGenerate:
		image, err = g.backend.Generate(ctx, call.Generate)
	case KindUpscale:
		image, err = g.backend.Upscale(ctx, call.Upscale)
	case KindStyleTransfer:
		image, err = g.modelRun.Run(ctx, call.ModelRun)
	default:
		return nil, fmt.Errorf("%w: unknown operation %q", ErrInvalidRequest, call.Kind)
	}
	if err != nil {
		if errors.Is(err, outbound.ErrProviderNotConfigured) {
			return nil, err
		}
		return nil, gatewayError(call.Kind, err)
	}
	if image == "" {
		return nil, &GatewayError{Kind: call.Kind, Message: defaultFailureMessage(call.Kind)}
	}

	asset := &Asset{Image: image}
	if call.Kind == KindEnhance && g.policy.Enabled && call.Enhance.HighRes {
		asset.Image, asset.FollowUpUpscales = g.autoUpscale(ctx, image)
	}
	return asset, nil
}

// autoUpscale re-runs the upscaler until the image is large enough. It never
// fails: the last good image is returned.
func (g *Gateway) autoUpscale(ctx context.Context, image string) (string, int) {
	current := image
	accepted := 0
	rerenderedForBytes := false

	for attempt := 0; attempt < g.policy.MaxAttempts; attempt++ {
		info := ProbeImage(current)
		minDim := info.MinDimension()

		enoughPixels := info.DimensionsKnown && minDim >= g.policy.TargetMinDimension
		enoughBytes := info.BytesKnown && info.Bytes >= g.policy.TargetBytes

		if enoughPixels && enoughBytes {
			break
		}
		if enoughPixels && !enoughBytes && rerenderedForBytes {
			break
		}
		if info.DimensionsKnown && minDim >= g.policy.MaxMinDimension {
			break
		}

		scale := 2
		if enoughPixels {
			scale = 1
			rerenderedForBytes = true
		}

		next, err := g.backend.Upscale(ctx, &outbound.UpscaleInput{Image: current, Scale: scale})
		if err != nil {
			g.logger.Warn("auto upscale failed, keeping previous image",
				append(requestctx.LogFields(ctx), zap.Int("attempt", attempt+1), zap.Int("scale", scale), zap.Error(err))...)
			break
		}
		if next == "" || next == current {
			break
		}
		current = next
		accepted++
	}
	return current, accepted
}

func gatewayError(kind Kind, err error) error {
	msg := defaultFailureMessage(kind)
	var be *outbound.BackendError
	if errors.As(err, &be) && be.Message != "" {
		msg = be.Message
	}
	return &GatewayError{Kind: kind, Message: msg, Err: err}
}

func defaultFailureMessage(kind Kind) string {
	switch kind {
	case KindEnhance:
		return "Enhancement failed"
	case KindGenerate:
		return "Generation failed"
	case KindUpscale:
		return "Upscale failed"
	default:
		return "Style transfer failed"
	}
}
