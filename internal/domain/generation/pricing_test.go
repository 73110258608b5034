package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrice(t *testing.T) {
	tests := []struct {
		kind Kind
		tier Tier
		want int64
	}{
		{KindEnhance, TierStandard, 1},
		{KindEnhance, Tier4K, 1},
		{KindGenerate, TierStandard, 1},
		{KindUpscale, Tier2K, 1},
		{KindStyleTransfer, TierStandard, 100},
		{KindStyleTransfer, Tier2K, 300},
		{KindStyleTransfer, Tier4K, 500},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind)+"/"+string(tt.tier), func(t *testing.T) {
			got, err := Price(tt.kind, tt.tier)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrice_Invalid(t *testing.T) {
	_, err := Price(KindStyleTransfer, Tier("8k"))
	assert.ErrorIs(t, err, ErrInvalidResolution)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = Price(Kind("paint"), TierStandard)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestParseTier(t *testing.T) {
	for in, want := range map[string]Tier{
		"":         TierStandard,
		"1k":       TierStandard,
		"standard": TierStandard,
		"2k":       Tier2K,
		"4K":       Tier4K,
	} {
		got, err := ParseTier(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseTier("8k")
	assert.ErrorIs(t, err, ErrInvalidResolution)
}

func TestModelForTier(t *testing.T) {
	assert.Equal(t, ModelStandard, ModelForTier(TierStandard))
	assert.Equal(t, ModelPro, ModelForTier(Tier2K))
	assert.Equal(t, ModelPro, ModelForTier(Tier4K))

	assert.Equal(t, "", ModelResolution(TierStandard))
	assert.Equal(t, "2K", ModelResolution(Tier2K))
	assert.Equal(t, "4K", ModelResolution(Tier4K))
}
