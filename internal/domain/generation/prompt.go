package generation

import (
	"strings"

	"github.com/mockupstudio/server/internal/model"
)

const studioPortraitPrompt = `You are an expert studio portrait retoucher.

You will receive 2 images:
- Image 1: a reference studio portrait that defines the desired lighting, background, color grading, and overall vibe.
- Image 2: the user's photo to transform.

Goals (must follow strictly):
- Keep the identity and facial features of the person from Image 2.
- Transform Image 2 to match the studio style of Image 1 (lighting, backdrop, color grading, mood).
- Keep it photorealistic, professional, and clean.
- Do not add text, watermarks, or borders.`

const styleTransferPrompt = `You are an expert image stylization assistant.

You will receive 2 images:
- Image 1: a reference style image that defines the desired artistic look.
- Image 2: the user's image to stylize.

Goals (must follow strictly):
- Preserve the main subject/identity from Image 2.
- Apply the artistic style and aesthetics of Image 1 (colors, brush/texture, mood, rendering).
- Keep it high-quality, with no watermarks or borders.`

const fabricMockupPrompt = `You are an expert apparel mockup retoucher for e-commerce.

You will receive 3 images:
- Image 1: a mannequin product photo template (contains the garment and an EXISTING logo on the neck area)
- Image 2: a fabric photo/texture (this is the new fabric/pattern to apply to the garment)
- Image 3: a logo image (this must REPLACE the existing neck logo)

Goals (must follow strictly):
- Keep the mannequin, pose, shadows, wrinkles, stitching, and lighting EXACTLY from Image 1.
- Replace ONLY the garment fabric in Image 1 with the fabric from Image 2.
  - Preserve realistic folds/wrinkles/texture and lighting from Image 1.
  - Do not make the fabric look pasted; it should look like the garment is made from that fabric.
- Find the existing logo on the neck/collar area in Image 1, REMOVE it completely, and replace it with the logo from Image 3.
  - Place it in the same neck location, centered and natural.
  - Keep logo proportions and colors; do NOT distort; keep it readable.
  - Blend it naturally as printed/embroidered (no hard edges, no stickers).
- Background: choose a clean studio background color that ACCENTS the fabric colors with strong but tasteful contrast.
- Output: e-commerce clean, high quality. No borders or watermarks.`

// SystemPrompt returns the fixed instructions for a style type. Unknown
// types use the fabric mockup instructions.
func SystemPrompt(t model.StyleType) string {
	switch t {
	case model.StyleTypeStudioPortrait:
		return studioPortraitPrompt
	case model.StyleTypeStyleTransfer:
		return styleTransferPrompt
	default:
		return fabricMockupPrompt
	}
}

// StylePrompt picks the style's prompt override for the model, falling
// back to its base prompt.
func StylePrompt(style *model.Style, modelName string) string {
	if modelName == ModelPro && style.ProPrompt != "" {
		return style.ProPrompt
	}
	if modelName != ModelPro && style.StandardPrompt != "" {
		return style.StandardPrompt
	}
	return style.Prompt
}

// BuildPrompt joins system instructions, style prompt and user prompt with
// blank lines.
func BuildPrompt(style *model.Style, modelName, userPrompt string) string {
	parts := []string{SystemPrompt(effectiveStyleType(style)), StylePrompt(style, modelName), userPrompt}
	return strings.TrimSpace(strings.Join(parts, "\n\n"))
}

func effectiveStyleType(style *model.Style) model.StyleType {
	if style.StyleType.IsValid() {
		return style.StyleType
	}
	return model.StyleTypeFabricMockup
}
