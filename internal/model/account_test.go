package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsageHistory_Prepend(t *testing.T) {
	now := time.Now().UTC()
	var h UsageHistory

	h = h.Prepend(HistoryEntry{URL: "a", CreatedAt: now})
	h = h.Prepend(HistoryEntry{URL: "b", CreatedAt: now})
	h = h.Prepend(HistoryEntry{URL: "c", CreatedAt: now})

	require.Len(t, h, MaxHistoryEntries)
	assert.Equal(t, "c", h[0].URL)
	assert.Equal(t, "b", h[1].URL)
}

func TestUsageHistory_PrependDoesNotAlias(t *testing.T) {
	orig := UsageHistory{{URL: "a"}, {URL: "b"}}
	next := orig.Prepend(HistoryEntry{URL: "c"})

	assert.Equal(t, "a", orig[0].URL)
	assert.Equal(t, "c", next[0].URL)
}

func TestUsageHistory_Value(t *testing.T) {
	v, err := UsageHistory(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	v, err = UsageHistory{{URL: "x", CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}}.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `[{"url":"x","createdAt":"2026-01-02T03:04:05Z"}]`, v.(string))
}

func TestUsageHistory_Scan(t *testing.T) {
	tests := []struct {
		name string
		src  any
		want int
	}{
		{"null", nil, 0},
		{"empty array", "[]", 0},
		{"bytes", []byte(`[{"url":"a","createdAt":"2026-01-02T03:04:05Z"}]`), 1},
		{"corrupt", "{not json", 0},
		{"oversized", `[{"url":"a"},{"url":"b"},{"url":"c"}]`, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var h UsageHistory
			require.NoError(t, h.Scan(tt.src))
			assert.Len(t, h, tt.want)
			assert.NotNil(t, h)
		})
	}

	var h UsageHistory
	assert.Error(t, h.Scan(42))
}
