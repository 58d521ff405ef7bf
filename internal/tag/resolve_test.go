package tag

import (
	"testing"
	"tiertagger/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	sword   = domain.GameMode{Name: "Sword", Key: "sword", Icon: "S"}
	uhc     = domain.GameMode{Name: "UHC", Key: "uhc", Icon: "U"}
	pot     = domain.GameMode{Name: "Pot", Key: "pot", Icon: "P"}
	axe     = domain.GameMode{Name: "Axe", Key: "axe", Icon: "A"}
	crystal = domain.GameMode{Name: "Crystal", Key: "crystal", Icon: "C"}
	vanilla = domain.GameMode{Name: "Vanilla", Key: "vanilla", Icon: "V"}
)

func record(pairs ...any) *domain.PlayerRecord {
	r := domain.NewPlayerRecord()
	for i := 0; i < len(pairs); i += 2 {
		r.AddTier(pairs[i].(domain.GameMode), pairs[i+1].(domain.Tier))
	}
	return r
}

func TestResolve_HighestFallback(t *testing.T) {
	primary := record(sword, domain.BPlus, uhc, domain.S)

	res := Resolve(Input{Primary: primary, Mode: domain.HighestFallback, Selected: &pot})
	require.Equal(t, TierLabel, res.Kind)
	assert.Equal(t, "UHC", res.Mode.Name)
	assert.Equal(t, domain.S, res.Tier)

	res = Resolve(Input{Primary: primary, Mode: domain.HighestFallback, Selected: &sword})
	assert.Equal(t, "Sword", res.Mode.Name)
	assert.Equal(t, domain.BPlus, res.Tier)

	res = Resolve(Input{Primary: primary, Mode: domain.HighestFallback})
	assert.Equal(t, domain.S, res.Tier, "no selection uses the best tier")
}

func TestResolve_HighestAlways(t *testing.T) {
	primary := record(sword, domain.BPlus, uhc, domain.CMinus)
	res := Resolve(Input{Primary: primary, Mode: domain.HighestAlways, Selected: &uhc})
	assert.Equal(t, "Sword", res.Mode.Name)
	assert.Equal(t, domain.BPlus, res.Tier)
}

func TestResolve_SelectedOnly(t *testing.T) {
	primary := record(sword, domain.BPlus)

	res := Resolve(Input{Primary: primary, Mode: domain.SelectedOnly, Selected: &uhc})
	assert.Equal(t, None, res.Kind)

	res = Resolve(Input{Primary: primary, Mode: domain.SelectedOnly})
	assert.Equal(t, None, res.Kind)

	res = Resolve(Input{Primary: primary, Mode: domain.SelectedOnly, Selected: &sword})
	assert.Equal(t, TierLabel, res.Kind)
}

func TestResolve_SelectedMatchesAlias(t *testing.T) {
	primary := record(crystal, domain.DPlus)
	res := Resolve(Input{Primary: primary, Mode: domain.SelectedOnly, Selected: &vanilla})
	require.Equal(t, TierLabel, res.Kind)
	assert.Equal(t, domain.DPlus, res.Tier)
}

func TestResolve_Ranking(t *testing.T) {
	primary := record(sword, domain.BPlus)
	primary.Rank = 17
	primary.Badge = "*"

	res := Resolve(Input{Primary: primary, PrimarySource: domain.MCTiers, Mode: domain.RankingMode})
	assert.Equal(t, RankLabel, res.Kind)
	assert.Equal(t, 17, res.Rank)
	assert.Equal(t, domain.MCTiers, res.Source)
	assert.Equal(t, "*", res.Badge)

	primary.Rank = 0
	res = Resolve(Input{Primary: primary, Mode: domain.RankingMode})
	assert.Equal(t, None, res.Kind, "unset rank shows nothing")
}

func TestResolve_CrossSameModePicksBestAcrossBackends(t *testing.T) {
	primary := record(uhc, domain.S)
	cross := map[domain.Source]*domain.PlayerRecord{
		domain.MCTiers:  record(sword, domain.CPlus),
		domain.SubTiers: record(sword, domain.AMinus),
	}

	res := Resolve(Input{Primary: primary, Cross: cross, Mode: domain.CrossAPISameMode, Selected: &sword})
	require.Equal(t, TierLabel, res.Kind)
	assert.Equal(t, domain.AMinus, res.Tier)
	assert.Equal(t, domain.SubTiers, res.Source)
	assert.Equal(t, "Sword", res.Mode.Name)
}

func TestResolve_CrossSameModePrefersPrimary(t *testing.T) {
	primary := record(sword, domain.F)
	cross := map[domain.Source]*domain.PlayerRecord{
		domain.MCTiers: record(sword, domain.S),
	}

	res := Resolve(Input{Primary: primary, PrimarySource: domain.TierTests, Cross: cross, Mode: domain.CrossAPISameMode, Selected: &sword})
	assert.Equal(t, domain.F, res.Tier)
	assert.Equal(t, domain.TierTests, res.Source)
}

func TestResolve_CrossSameModeTieKeepsSourceOrder(t *testing.T) {
	cross := map[domain.Source]*domain.PlayerRecord{
		domain.PvPTiers: record(vanilla, domain.BPlus),
		domain.MCTiers:  record(crystal, domain.BPlus),
	}
	for i := 0; i < 20; i++ {
		res := Resolve(Input{Primary: domain.NewPlayerRecord(), Cross: cross, Mode: domain.CrossAPISameMode, Selected: &crystal})
		assert.Equal(t, domain.MCTiers, res.Source)
	}
}

func TestResolve_CrossSameModeNoMatch(t *testing.T) {
	primary := record(uhc, domain.S)
	cross := map[domain.Source]*domain.PlayerRecord{domain.MCTiers: record(axe, domain.S)}

	res := Resolve(Input{Primary: primary, Cross: cross, Mode: domain.CrossAPISameMode, Selected: &sword})
	assert.Equal(t, None, res.Kind)
}

func TestResolve_CrossAnyModeFallbacks(t *testing.T) {
	primary := record(uhc, domain.DMinus)
	cross := map[domain.Source]*domain.PlayerRecord{
		domain.MCTiers:  record(axe, domain.CPlus),
		domain.PvPTiers: record(pot, domain.APlus),
	}

	res := Resolve(Input{Primary: primary, Cross: cross, Mode: domain.CrossAPIAnyMode, Selected: &sword})
	require.Equal(t, TierLabel, res.Kind)
	assert.Equal(t, "Pot", res.Mode.Name)
	assert.Equal(t, domain.APlus, res.Tier)
	assert.Equal(t, domain.PvPTiers, res.Source)

	res = Resolve(Input{Primary: primary, Mode: domain.CrossAPIAnyMode, Selected: &sword})
	assert.Equal(t, "UHC", res.Mode.Name, "falls back to the primary best")
	assert.Equal(t, domain.DMinus, res.Tier)
}

func TestResolve_PeakAnnotation(t *testing.T) {
	primary := record(sword, domain.BMinus)
	primary.AddPeak(sword, domain.AMinus)

	res := Resolve(Input{Primary: primary, Mode: domain.HighestFallback, Selected: &sword})
	require.NotNil(t, res.Peak)
	assert.Equal(t, domain.AMinus, *res.Peak)

	same := record(sword, domain.BMinus)
	same.AddPeak(sword, domain.BMinus)
	res = Resolve(Input{Primary: same, Mode: domain.HighestFallback, Selected: &sword})
	assert.Nil(t, res.Peak, "equal peak is not shown")
}

func TestResolve_EmptyAndNilPrimary(t *testing.T) {
	for _, mode := range []domain.DisplayMode{
		domain.HighestFallback, domain.HighestAlways, domain.SelectedOnly,
		domain.RankingMode, domain.CrossAPISameMode, domain.CrossAPIAnyMode,
	} {
		assert.Equal(t, None, Resolve(Input{Mode: mode, Selected: &sword}).Kind, mode.String())
		assert.Equal(t, None, Resolve(Input{Primary: domain.NewPlayerRecord(), Mode: mode, Selected: &sword}).Kind, mode.String())
	}
}

func TestResolve_RegionAndBadgeCarried(t *testing.T) {
	primary := record(sword, domain.S)
	primary.Region = &domain.Region{Name: "Europe", Short: "EU"}
	primary.Badge = "*"

	res := Resolve(Input{Primary: primary, Mode: domain.HighestAlways})
	require.NotNil(t, res.Region)
	assert.Equal(t, "EU", res.Region.Short)
	assert.Equal(t, "*", res.Badge)
}
