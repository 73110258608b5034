package generation

import (
	"strings"
	"testing"

	"github.com/mockupstudio/server/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt(t *testing.T) {
	style := &model.Style{
		Prompt:         "base",
		StandardPrompt: "standard override",
		ProPrompt:      "pro override",
		StyleType:      model.StyleTypeStudioPortrait,
	}

	t.Run("standard model uses its override", func(t *testing.T) {
		got := BuildPrompt(style, ModelStandard, "warm tones")
		assert.True(t, strings.HasPrefix(got, "You are an expert studio portrait retoucher."))
		assert.True(t, strings.HasSuffix(got, "\n\nstandard override\n\nwarm tones"))
	})

	t.Run("pro model uses its override", func(t *testing.T) {
		got := BuildPrompt(style, ModelPro, "")
		assert.True(t, strings.HasSuffix(got, "\n\npro override"))
	})

	t.Run("falls back to base prompt", func(t *testing.T) {
		s := &model.Style{Prompt: "base", StyleType: model.StyleTypeStyleTransfer}
		got := BuildPrompt(s, ModelPro, "")
		assert.True(t, strings.HasPrefix(got, "You are an expert image stylization assistant."))
		assert.True(t, strings.HasSuffix(got, "\n\nbase"))
	})

	t.Run("unknown type uses fabric mockup instructions", func(t *testing.T) {
		s := &model.Style{Prompt: "base", StyleType: "legacy"}
		got := BuildPrompt(s, ModelStandard, "")
		assert.Contains(t, got, "You will receive 3 images")
	})
}

func TestSystemPrompt_ImageCounts(t *testing.T) {
	assert.Contains(t, SystemPrompt(model.StyleTypeStudioPortrait), "You will receive 2 images")
	assert.Contains(t, SystemPrompt(model.StyleTypeStyleTransfer), "You will receive 2 images")
	assert.Contains(t, SystemPrompt(model.StyleTypeFabricMockup), "You will receive 3 images")
}
