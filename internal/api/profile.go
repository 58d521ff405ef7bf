package api

import (
	"strings"
	"tiertagger/internal/domain"
	"time"

	"github.com/rs/zerolog"
)

// profileResponse is the profile shape shared by MCTiers, SubTiers and
// PvPTiers.
type profileResponse struct {
	Region   *string                 `json:"region"`
	Rankings map[string]rankingEntry `json:"rankings"`
	Badges   []struct {
		Title *string `json:"title"`
	} `json:"badges"`
	Overall *int `json:"overall"`
	Points  *int `json:"points"`
}

type rankingEntry struct {
	Tier     int  `json:"tier"`
	Pos      int  `json:"pos"`
	PeakTier *int `json:"peak_tier"`
	PeakPos  *int `json:"peak_pos"`
}

type modeListEntry struct {
	Title string `json:"title"`
}

func (p *profileResponse) toRecord(src domain.Source, modes ModeResolver, logger zerolog.Logger) *domain.PlayerRecord {
	record := domain.NewPlayerRecord()

	if p.Region != nil && *p.Region != "" {
		record.Region = &domain.Region{Name: *p.Region, Short: *p.Region}
	}

	for name, entry := range p.Rankings {
		mode, ok := modes.LookupFor(src, name)
		if !ok {
			logger.Debug().Str("source", src.String()).Str("mode", name).Msg("unknown mode, skipping")
			continue
		}
		tier, err := domain.TierFromPosition(entry.Tier, entry.Pos)
		if err != nil {
			logger.Debug().Err(err).Str("source", src.String()).Str("mode", name).Msg("unparseable tier, skipping")
			continue
		}
		record.AddTier(mode, tier)

		if entry.PeakTier != nil && entry.PeakPos != nil {
			if peak, err := domain.TierFromPosition(*entry.PeakTier, *entry.PeakPos); err == nil {
				record.AddPeak(mode, peak)
			}
		}
	}

	if len(p.Badges) > 0 && p.Badges[0].Title != nil {
		record.Badge = sanitize(*p.Badges[0].Title)
	}

	if p.Overall != nil {
		record.Rank = *p.Overall
		if p.Points != nil {
			record.Points = *p.Points
		}
	}

	record.FetchedAt = time.Now()
	return record
}

func buildModes(list map[string]modeListEntry, icons, colors map[string]string) map[string]domain.GameMode {
	modes := make(map[string]domain.GameMode, len(list))
	for key, entry := range list {
		lower := strings.ToLower(key)
		modes[key] = domain.GameMode{
			Name:  entry.Title,
			Key:   lower,
			Color: lookupOr(colors, lower, "#FFFFFF"),
			Icon:  lookupOr(icons, lower, ""),
		}
	}
	return modes
}

func emptyRecord() *domain.PlayerRecord {
	record := domain.NewPlayerRecord()
	record.FetchedAt = time.Now()
	return record
}
