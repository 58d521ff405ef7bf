package config

import (
	"os"
	"path/filepath"
	"testing"
	"tiertagger/internal/domain"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSettings(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tiertagger.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SETTINGS_PATH", filepath.Join(t.TempDir(), "missing.yml"))

	cfg, err := Load(zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, domain.TierTests, cfg.Source)
	assert.Equal(t, domain.HighestFallback, cfg.DisplayMode)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.True(t, cfg.BorrowBadge)
	assert.False(t, cfg.CrossFetchOnEmpty)
	assert.Equal(t, domain.MCTiers.BaseURL(), cfg.BaseURL(domain.MCTiers))
}

func TestLoad_SettingsFile(t *testing.T) {
	t.Setenv("SETTINGS_PATH", writeSettings(t, `
game-mode: 3
tier-display-mode: CROSS_API_ANY_MODE
tier-source: "1"
use-mc-tiers-format: true
show-region: false
icon-type: CLASSIC
`))

	cfg, err := Load(zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.GameMode)
	assert.Equal(t, domain.CrossAPIAnyMode, cfg.DisplayMode)
	assert.Equal(t, domain.MCTiers, cfg.Source)
	assert.True(t, cfg.UseHighLow)
	assert.False(t, cfg.ShowRegion)
}

func TestLoad_EnvOverridesSettings(t *testing.T) {
	t.Setenv("SETTINGS_PATH", writeSettings(t, "tier-source: MC_TIERS\n"))
	t.Setenv("TIER_SOURCE", "PVP_TIERS")
	t.Setenv("DISPLAY_MODE", "ranking")
	t.Setenv("WORKERS", "8")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("REQUEST_RATE", "2.5")
	t.Setenv("CROSS_FETCH_ON_EMPTY", "true")
	t.Setenv("SUB_TIERS_URL", "http://localhost:9000")

	cfg, err := Load(zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, domain.PvPTiers, cfg.Source)
	assert.Equal(t, domain.RankingMode, cfg.DisplayMode)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, 90*time.Second, cfg.CacheTTL)
	assert.InDelta(t, 2.5, cfg.RequestRate, 0.001)
	assert.True(t, cfg.CrossFetchOnEmpty)
	assert.Equal(t, "http://localhost:9000", cfg.BaseURL(domain.SubTiers))
}

func TestLoad_InvalidValuesKeepDefaults(t *testing.T) {
	t.Setenv("SETTINGS_PATH", filepath.Join(t.TempDir(), "missing.yml"))
	t.Setenv("WORKERS", "many")
	t.Setenv("TIER_SOURCE", "nowhere")
	t.Setenv("SHOW_REGION", "maybe")

	cfg, err := Load(zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, domain.TierTests, cfg.Source)
	assert.True(t, cfg.ShowRegion)
}

func TestLoad_RejectsNonPositiveWorkers(t *testing.T) {
	t.Setenv("SETTINGS_PATH", filepath.Join(t.TempDir(), "missing.yml"))
	t.Setenv("WORKERS", "0")

	_, err := Load(zerolog.Nop())
	assert.Error(t, err)
}

func TestApplySettings_InvalidEnumFallsBack(t *testing.T) {
	cfg := Default()
	cfg.Source = domain.SubTiers
	cfg.DisplayMode = domain.RankingMode

	bogus := "SOMETHING_ELSE"
	cfg.ApplySettings(Settings{TierDisplayMode: &bogus, TierSource: &bogus}, zerolog.Nop())
	assert.Equal(t, domain.HighestFallback, cfg.DisplayMode)
	assert.Equal(t, domain.TierTests, cfg.Source)
}

func TestLoad_MalformedSettingsIgnored(t *testing.T) {
	t.Setenv("SETTINGS_PATH", writeSettings(t, "game-mode: [unclosed"))

	cfg, err := Load(zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.GameMode)
}
