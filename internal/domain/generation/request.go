package generation

import (
	"strings"

	"github.com/mockupstudio/server/internal/port/outbound"
)

// EnhanceRequest is the caller input of an enhance attempt.
type EnhanceRequest struct {
	Image     string         `json:"image"`
	Prompt    string         `json:"prompt"`
	StyleName string         `json:"styleName"`
	Sliders   map[string]any `json:"sliders"`
	// HighRes defaults to true when omitted.
	HighRes *bool `json:"highRes"`
}

// GenerateRequest is the caller input of a text-to-image attempt.
type GenerateRequest struct {
	Prompt      string         `json:"prompt"`
	Style       string         `json:"style"`
	Sliders     map[string]any `json:"sliders"`
	HighRes     bool           `json:"highRes"`
	AspectRatio string         `json:"aspectRatio"`
}

// UpscaleRequest is the caller input of an upscale attempt.
type UpscaleRequest struct {
	Image string `json:"image"`
	Scale int    `json:"scale"`
}

// StyleTransferRequest is the caller input of a style transfer attempt.
type StyleTransferRequest struct {
	StyleID string `json:"styleId"`
	// Image is the main image; FabricImage is accepted as an alias.
	Image            string `json:"image"`
	FabricImage      string `json:"fabricImage"`
	LogoImage        string `json:"logoImage"`
	UserPrompt       string `json:"userPrompt"`
	ResolutionChoice string `json:"resolutionChoice"`
}

const (
	defaultEnhanceStyle  = "Enhance"
	defaultGenerateStyle = "Studio"
	defaultAspectRatio   = "1:1"
	defaultUpscaleScale  = 2
	maxUpscaleScale      = 4
)

type dimensions struct {
	width, height int
}

// aspectDimensions maps an aspect ratio to its normal and high-res sizes.
var aspectDimensions = map[string][2]dimensions{
	"1:1":  {{1024, 1024}, {2048, 2048}},
	"16:9": {{1024, 576}, {2048, 1152}},
	"9:16": {{576, 1024}, {1152, 2048}},
	"4:5":  {{819, 1024}, {1638, 2048}},
	"9:21": {{540, 1260}, {1080, 2520}},
}

// Dimensions returns the pixel size requested for an aspect ratio.
func Dimensions(aspectRatio string, highRes bool) (width, height int, ok bool) {
	dims, ok := aspectDimensions[aspectRatio]
	if !ok {
		return 0, 0, false
	}
	d := dims[0]
	if highRes {
		d = dims[1]
	}
	return d.width, d.height, true
}

func (r *EnhanceRequest) toInput() (*outbound.EnhanceInput, error) {
	if strings.TrimSpace(r.Image) == "" {
		return nil, invalid("Image is required")
	}
	styleName := r.StyleName
	if styleName == "" {
		styleName = defaultEnhanceStyle
	}
	highRes := true
	if r.HighRes != nil {
		highRes = *r.HighRes
	}
	return &outbound.EnhanceInput{
		Image:     r.Image,
		Prompt:    r.Prompt,
		StyleName: styleName,
		Sliders:   r.Sliders,
		HighRes:   highRes,
	}, nil
}

func (r *GenerateRequest) toInput() (*outbound.GenerateInput, error) {
	if strings.TrimSpace(r.Prompt) == "" {
		return nil, invalid("Prompt is required")
	}
	aspect := r.AspectRatio
	if aspect == "" {
		aspect = defaultAspectRatio
	}
	width, height, ok := Dimensions(aspect, r.HighRes)
	if !ok {
		return nil, invalid("Invalid aspect ratio")
	}
	style := r.Style
	if style == "" {
		style = defaultGenerateStyle
	}
	return &outbound.GenerateInput{
		Prompt:      r.Prompt,
		Style:       style,
		Sliders:     r.Sliders,
		Width:       width,
		Height:      height,
		HighRes:     r.HighRes,
		AspectRatio: aspect,
	}, nil
}

func (r *UpscaleRequest) toInput() (*outbound.UpscaleInput, error) {
	if strings.TrimSpace(r.Image) == "" {
		return nil, invalid("Image is required")
	}
	scale := r.Scale
	if scale == 0 {
		scale = defaultUpscaleScale
	}
	if scale < 1 || scale > maxUpscaleScale {
		return nil, invalid("scale must be between 1 and 4")
	}
	return &outbound.UpscaleInput{Image: r.Image, Scale: scale}, nil
}

func (r *StyleTransferRequest) mainImage() string {
	if r.Image != "" {
		return r.Image
	}
	return r.FabricImage
}
