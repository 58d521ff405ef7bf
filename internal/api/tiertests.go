package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"tiertagger/internal/constants"
	"tiertagger/internal/domain"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"
)

const peakFetchConcurrency = 2

type TierTestsBackend struct {
	client *Client
	modes  ModeResolver
	logger zerolog.Logger
}

func NewTierTests(client *Client, modes ModeResolver, logger zerolog.Logger) *TierTestsBackend {
	return &TierTestsBackend{
		client: client,
		modes:  modes,
		logger: logger.With().Str("source", domain.TierTests.String()).Logger(),
	}
}

func (b *TierTestsBackend) Kind() domain.Source {
	return domain.TierTests
}

func (b *TierTestsBackend) FetchRecord(ctx context.Context, id uuid.UUID, name string) (*domain.PlayerRecord, error) {
	endpoint := "/tiers/current/all?minecraftUuid=" + id.String() + "&version=MODERN"
	body, err := b.client.get(ctx, endpoint, constants.RecordFetchTimeout)
	if errors.Is(err, ErrNotFound) {
		return emptyRecord(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch Tier Tests profile: %w", err)
	}
	if !gjson.ValidBytes(body) {
		b.logger.Warn().Str("body", sample(body)).Msg("invalid JSON response")
		return nil, fmt.Errorf("fetch Tier Tests profile: %w", ErrMalformed)
	}

	resp := gjson.ParseBytes(body)
	data := resp.Get("data")
	if !resp.Get("success").Bool() || !data.IsArray() || len(data.Array()) == 0 {
		b.logger.Debug().Str("uuid", id.String()).Msg("player not listed")
		return emptyRecord(), nil
	}

	record := domain.NewPlayerRecord()
	entries := data.Array()
	first := entries[0]

	if region := first.Get("user.region"); region.Exists() && region.Type != gjson.Null {
		record.Region = &domain.Region{Name: region.String(), Short: region.String()}
	}

	for _, entry := range entries {
		if !strings.EqualFold(entry.Get("gamemode.version").String(), "MODERN") {
			continue
		}
		modeName := entry.Get("gamemode.name").String()
		mode, ok := b.modes.LookupFor(domain.TierTests, modeName)
		if !ok {
			b.logger.Debug().Str("mode", modeName).Msg("unknown mode, skipping")
			continue
		}
		tier, err := domain.ParseTier(entry.Get("tier").String())
		if err != nil {
			b.logger.Debug().Err(err).Str("mode", modeName).Msg("unparseable tier, skipping")
			continue
		}
		record.AddTier(mode, tier)
	}

	if badge := first.Get("badge"); badge.IsObject() {
		record.Badge = badgeText(badge.Get("legacyColor").String(), badge.Get("emoji").String())
	}

	if rank := first.Get("rankModern"); rank.IsObject() {
		record.Rank = int(rank.Get("rank").Int())
		record.Points = int(rank.Get("points").Int())
	}

	record.FetchedAt = time.Now()

	if discordID := first.Get("user.discordId"); discordID.Exists() && discordID.Type != gjson.Null {
		b.fetchPeaks(ctx, record, discordID.String())
	}

	return record, nil
}

// fetchPeaks fills record.Peaks from the tier history of every category the
// player holds. Failures leave that category without a peak.
func (b *TierTestsBackend) fetchPeaks(ctx context.Context, record *domain.PlayerRecord, discordID string) {
	var mu sync.Mutex
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(peakFetchConcurrency)

	for _, ranking := range record.Tiers {
		mode := ranking.Mode
		g.Go(func() error {
			peak, ok := b.fetchPeak(gCtx, discordID, mode)
			if ok {
				mu.Lock()
				record.AddPeak(mode, peak)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
}

func (b *TierTestsBackend) fetchPeak(ctx context.Context, discordID string, mode domain.GameMode) (domain.Tier, bool) {
	endpoint := "/tiers/history/" + url.PathEscape(discordID) + "/" + url.PathEscape(mode.Name)
	body, err := b.client.get(ctx, endpoint, constants.RecordFetchTimeout)
	if err != nil {
		b.logger.Debug().Err(err).Str("mode", mode.Name).Msg("peak tier lookup failed")
		return 0, false
	}

	resp := gjson.ParseBytes(body)
	if !resp.Get("success").Bool() {
		return 0, false
	}

	var peak domain.Tier
	found := false
	resp.Get("data").ForEach(func(_, audit gjson.Result) bool {
		tier, err := domain.ParseTier(audit.Get("tier").String())
		if err != nil {
			return true
		}
		if !found || tier.Better(peak) {
			peak = tier
			found = true
		}
		return true
	})
	return peak, found
}

func (b *TierTestsBackend) FetchModes(ctx context.Context) (map[string]domain.GameMode, error) {
	body, err := b.client.get(ctx, "/gamemodes/modern", constants.ModeListTimeout)
	if err != nil {
		b.logger.Error().Err(err).Msg("modes not found, try again soon")
		return nil, fmt.Errorf("fetch Tier Tests modes: %w", err)
	}
	if !gjson.ValidBytes(body) {
		b.logger.Error().Str("body", sample(body)).Msg("invalid mode list")
		return nil, fmt.Errorf("fetch Tier Tests modes: %w", ErrMalformed)
	}

	modes := make(map[string]domain.GameMode)
	gjson.GetBytes(body, "data").ForEach(func(_, entry gjson.Result) bool {
		if !entry.IsObject() {
			return true
		}
		name := entry.Get("name").String()
		if name == "" {
			return true
		}
		color := "#FFFFFF"
		if c := entry.Get("color"); c.Exists() && c.Type != gjson.Null {
			color = colorHex(c.String())
		}
		modes[name] = domain.GameMode{
			Name:  name,
			Key:   entry.Get("beautifiedName").String(),
			Color: color,
			Icon:  entry.Get("unicode").String(),
		}
		return true
	})

	if len(modes) == 0 {
		b.logger.Error().Msg("mode list is empty")
		return nil, fmt.Errorf("fetch Tier Tests modes: %w: empty list", ErrMalformed)
	}
	return modes, nil
}

// badgeText prefixes the emoji with a legacy color code when one is set.
func badgeText(color, emoji string) string {
	code := strings.TrimLeft(sanitize(color), "&§")
	prefix := ""
	if strings.TrimSpace(code) != "" {
		prefix = "§" + code
	}
	return prefix + sanitize(emoji)
}
