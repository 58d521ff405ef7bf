package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	sword   = GameMode{Name: "Sword", Key: "sword"}
	uhc     = GameMode{Name: "UHC", Key: "uhc"}
	axe     = GameMode{Name: "Axe", Key: "axe"}
	crystal = GameMode{Name: "Crystal", Key: "crystal"}
)

func TestPlayerRecord_IsEmpty(t *testing.T) {
	var nilRecord *PlayerRecord
	assert.True(t, nilRecord.IsEmpty())
	assert.True(t, NewPlayerRecord().IsEmpty())

	r := NewPlayerRecord()
	r.AddTier(sword, BPlus)
	assert.False(t, r.IsEmpty())
}

func TestPlayerRecord_Best(t *testing.T) {
	r := NewPlayerRecord()
	r.AddTier(sword, BPlus)
	r.AddTier(uhc, S)

	best, ok := r.Best()
	require.True(t, ok)
	assert.Equal(t, "UHC", best.Mode.Name)
	assert.Equal(t, S, best.Tier)
}

func TestPlayerRecord_BestTieBreak(t *testing.T) {
	r := NewPlayerRecord()
	r.AddTier(sword, APlus)
	r.AddTier(axe, APlus)

	for i := 0; i < 20; i++ {
		best, ok := r.Best()
		require.True(t, ok)
		assert.Equal(t, "Axe", best.Mode.Name, "ties resolve to the first key")
	}
}

func TestPlayerRecord_TierForAlias(t *testing.T) {
	r := NewPlayerRecord()
	r.AddTier(crystal, CPlus)

	got, ok := r.TierFor(GameMode{Name: "Vanilla"})
	require.True(t, ok)
	assert.Equal(t, CPlus, got.Tier)

	_, ok = r.TierFor(sword)
	assert.False(t, ok)

	var nilRecord *PlayerRecord
	_, ok = nilRecord.TierFor(sword)
	assert.False(t, ok)
}

func TestPlayerRecord_PeakFor(t *testing.T) {
	r := NewPlayerRecord()
	r.AddTier(crystal, CPlus)
	r.AddPeak(crystal, AMinus)

	peak, ok := r.PeakFor(GameMode{Name: "vanilla"})
	require.True(t, ok)
	assert.Equal(t, AMinus, peak)
}

func TestPlayerRecord_WithBadgeCopies(t *testing.T) {
	r := NewPlayerRecord()
	r.AddTier(sword, BPlus)
	r.Region = &Region{Name: "Europe", Short: "EU"}

	badged := r.WithBadge("star")
	assert.Equal(t, "star", badged.Badge)
	assert.Equal(t, "", r.Badge)

	badged.Tiers["axe"] = Ranking{Mode: axe, Tier: F}
	badged.Region.Short = "NA"
	assert.Len(t, r.Tiers, 1)
	assert.Equal(t, "EU", r.Region.Short)
}
