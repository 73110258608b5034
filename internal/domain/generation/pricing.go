package generation

import (
	"fmt"
	"strings"
)

// Kind is a priced generation operation.
type Kind string

const (
	KindEnhance       Kind = "enhance"
	KindGenerate      Kind = "generate"
	KindUpscale       Kind = "upscale"
	KindStyleTransfer Kind = "style-transfer"
)

// Tier is the output resolution tier of a style transfer.
type Tier string

const (
	TierStandard Tier = "standard"
	Tier2K       Tier = "2k"
	Tier4K       Tier = "4k"
)

// Logical model names.
const (
	ModelStandard = "model1"
	ModelPro      = "model2"
)

// ParseTier normalizes a requested resolution. "", "1k" and "standard" are
// the standard tier.
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "1k", "standard":
		return TierStandard, nil
	case "2k":
		return Tier2K, nil
	case "4k":
		return Tier4K, nil
	default:
		return "", ErrInvalidResolution
	}
}

// Price returns the credit cost of kind at tier. The tier only matters for
// style transfers.
func Price(kind Kind, tier Tier) (int64, error) {
	switch kind {
	case KindEnhance, KindGenerate, KindUpscale:
		return 1, nil
	case KindStyleTransfer:
		switch tier {
		case TierStandard, "":
			return 100, nil
		case Tier2K:
			return 300, nil
		case Tier4K:
			return 500, nil
		default:
			return 0, ErrInvalidResolution
		}
	default:
		return 0, fmt.Errorf("%w: unknown operation %q", ErrInvalidRequest, kind)
	}
}

// ModelForTier returns the logical model that renders tier.
func ModelForTier(tier Tier) string {
	if tier == Tier2K || tier == Tier4K {
		return ModelPro
	}
	return ModelStandard
}

// ModelResolution returns the resolution parameter sent to the pro model,
// or "" when the standard model is used.
func ModelResolution(tier Tier) string {
	switch tier {
	case Tier2K:
		return "2K"
	case Tier4K:
		return "4K"
	default:
		return ""
	}
}
