package api

import (
	"context"
	"testing"
	"tiertagger/internal/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var playerID = uuid.MustParse("069a79f4-44e9-4726-a5be-fca90e38aaf5")

const mcTiersProfile = `{
	"region": "EU",
	"rankings": {
		"sword": {"tier": 2, "pos": 1, "peak_tier": 1, "peak_pos": 0},
		"uhc": {"tier": 1, "pos": 0},
		"bedwars": {"tier": 3, "pos": 0}
	},
	"badges": [{"title": "Champion"}],
	"overall": 12,
	"points": 340
}`

func TestTierList_FetchRecord(t *testing.T) {
	client, _ := newTestClient(t, map[string]route{
		"/profile/" + playerID.String(): {status: 200, body: mcTiersProfile},
	})
	backend := NewMCTiers(client, standardModes(domain.MCTiers), zerolog.Nop())

	rec, err := backend.FetchRecord(context.Background(), playerID, "Notch")
	require.NoError(t, err)

	require.Len(t, rec.Tiers, 2, "unknown categories are skipped")
	assert.Equal(t, domain.BPlus, rec.Tiers["sword"].Tier)
	assert.Equal(t, domain.S, rec.Tiers["uhc"].Tier)
	assert.Equal(t, domain.S, rec.Peaks["sword"])
	require.NotNil(t, rec.Region)
	assert.Equal(t, "EU", rec.Region.Short)
	assert.Equal(t, "Champion", rec.Badge)
	assert.Equal(t, 12, rec.Rank)
	assert.Equal(t, 340, rec.Points)
	assert.False(t, rec.FetchedAt.IsZero())
}

func TestTierList_NotFoundIsEmptyRecord(t *testing.T) {
	client, _ := newTestClient(t, nil)
	backend := NewSubTiers(client, standardModes(domain.SubTiers), zerolog.Nop())

	rec, err := backend.FetchRecord(context.Background(), playerID, "Notch")
	require.NoError(t, err)
	assert.True(t, rec.IsEmpty())
}

func TestTierList_ServerErrorIsError(t *testing.T) {
	client, _ := newTestClient(t, map[string]route{
		"/profile/" + playerID.String(): {status: 500, body: `oops`},
	})
	backend := NewMCTiers(client, standardModes(domain.MCTiers), zerolog.Nop())

	rec, err := backend.FetchRecord(context.Background(), playerID, "Notch")
	assert.ErrorIs(t, err, ErrStatus)
	assert.Nil(t, rec)
}

func TestTierList_FetchModes(t *testing.T) {
	client, _ := newTestClient(t, map[string]route{
		"/mode/list": {status: 200, body: `{"sword":{"title":"Sword"},"vanilla":{"title":"Crystal"},"mystery":{"title":"Mystery"}}`},
	})
	backend := NewMCTiers(client, standardModes(domain.MCTiers), zerolog.Nop())

	modes, err := backend.FetchModes(context.Background())
	require.NoError(t, err)
	require.Len(t, modes, 3)

	assert.Equal(t, "Crystal", modes["vanilla"].Name)
	assert.Equal(t, "vanilla", modes["vanilla"].Key)
	assert.Equal(t, "\uE706", modes["sword"].Icon)
	assert.Equal(t, "#a4fdf0", modes["sword"].Color)
	assert.Equal(t, "#FFFFFF", modes["mystery"].Color)
	assert.Equal(t, "", modes["mystery"].Icon)
}

func TestTierList_EmptyModeListIsError(t *testing.T) {
	client, _ := newTestClient(t, map[string]route{
		"/mode/list": {status: 200, body: `{}`},
	})
	backend := NewMCTiers(client, standardModes(domain.MCTiers), zerolog.Nop())

	_, err := backend.FetchModes(context.Background())
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestPvPTiers_FetchRecordByName(t *testing.T) {
	client, srv := newTestClient(t, map[string]route{
		"/search_profile/Notch": {status: 200, body: `{"rankings":{"uhc":{"tier":4,"pos":1}},"badges":[]}`},
	})
	backend := NewPvPTiers(client, standardModes(domain.PvPTiers), zerolog.Nop())

	rec, err := backend.FetchRecord(context.Background(), uuid.Nil, "Notch")
	require.NoError(t, err)
	assert.Equal(t, domain.DPlus, rec.Tiers["uhc"].Tier)
	assert.Nil(t, rec.Region)
	assert.Equal(t, 0, rec.Rank)
	assert.Equal(t, 1, srv.hitCount("/search_profile/Notch"))

	rec, err = backend.FetchRecord(context.Background(), playerID, "")
	require.NoError(t, err, "a nameless player is known-empty, not a failure")
	assert.True(t, rec.IsEmpty())
	assert.Equal(t, 1, srv.hitCount("/search_profile/Notch"))
}

func TestPvPTiers_StaticModes(t *testing.T) {
	backend := NewPvPTiers(nil, nil, zerolog.Nop())
	modes, err := backend.FetchModes(context.Background())
	require.NoError(t, err)
	assert.Contains(t, modes, "Sword")
	assert.Contains(t, modes, "NetherPot")
}

const tierTestsCurrent = `{
	"success": true,
	"data": [
		{
			"user": {"region": "NA", "discordId": "42"},
			"gamemode": {"name": "Sword", "version": "MODERN"},
			"tier": "HT3",
			"badge": {"legacyColor": "c", "emoji": "*"},
			"rankModern": {"rank": 7, "points": 120}
		},
		{
			"user": {"region": "NA", "discordId": "42"},
			"gamemode": {"name": "UHC", "version": "MODERN"},
			"tier": "LT2"
		},
		{
			"user": {"region": "NA", "discordId": "42"},
			"gamemode": {"name": "Sword", "version": "LEGACY"},
			"tier": "HT1"
		}
	]
}`

func TestTierTests_FetchRecord(t *testing.T) {
	client, srv := newTestClient(t, map[string]route{
		"/tiers/current/all":      {status: 200, body: tierTestsCurrent},
		"/tiers/history/42/Sword": {status: 200, body: `{"success":true,"data":[{"tier":"LT2"},{"tier":"HT2"},{"tier":"bogus"}]}`},
		"/tiers/history/42/UHC":   {status: 200, body: `{"success":false}`},
	})
	backend := NewTierTests(client, standardModes(domain.TierTests), zerolog.Nop())

	rec, err := backend.FetchRecord(context.Background(), playerID, "Notch")
	require.NoError(t, err)

	require.Len(t, rec.Tiers, 2)
	assert.Equal(t, domain.BMinus, rec.Tiers["sword"].Tier, "legacy entries are ignored")
	assert.Equal(t, domain.BPlus, rec.Tiers["uhc"].Tier)
	assert.Equal(t, domain.AMinus, rec.Peaks["sword"])
	_, hasPeak := rec.Peaks["uhc"]
	assert.False(t, hasPeak)

	require.NotNil(t, rec.Region)
	assert.Equal(t, "NA", rec.Region.Name)
	assert.Equal(t, "§c*", rec.Badge)
	assert.Equal(t, 7, rec.Rank)
	assert.Equal(t, 120, rec.Points)
	assert.Equal(t, 1, srv.hitCount("/tiers/history/42/Sword"))
}

func TestTierTests_UnlistedPlayerIsEmpty(t *testing.T) {
	client, _ := newTestClient(t, map[string]route{
		"/tiers/current/all": {status: 200, body: `{"success":false,"data":[]}`},
	})
	backend := NewTierTests(client, standardModes(domain.TierTests), zerolog.Nop())

	rec, err := backend.FetchRecord(context.Background(), playerID, "Notch")
	require.NoError(t, err)
	assert.True(t, rec.IsEmpty())
}

func TestTierTests_MalformedBodyIsError(t *testing.T) {
	client, _ := newTestClient(t, map[string]route{
		"/tiers/current/all": {status: 200, body: `{"success":`},
	})
	backend := NewTierTests(client, standardModes(domain.TierTests), zerolog.Nop())

	_, err := backend.FetchRecord(context.Background(), playerID, "Notch")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestTierTests_FetchModes(t *testing.T) {
	client, _ := newTestClient(t, map[string]route{
		"/gamemodes/modern": {status: 200, body: `{"data":[
			{"name":"Sword","color":"aqua","unicode":"S","beautifiedName":"sword"},
			{"name":"Crystal","color":null,"unicode":"C","beautifiedName":"crystal"},
			{"name":""}
		]}`},
	})
	backend := NewTierTests(client, standardModes(domain.TierTests), zerolog.Nop())

	modes, err := backend.FetchModes(context.Background())
	require.NoError(t, err)
	require.Len(t, modes, 2)
	assert.Equal(t, "#55FFFF", modes["Sword"].Color)
	assert.Equal(t, "#FFFFFF", modes["Crystal"].Color)
	assert.Equal(t, "crystal", modes["Crystal"].Key)
}
