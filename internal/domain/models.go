package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

type Region struct {
	Name  string
	Short string
}

type Ranking struct {
	Mode GameMode
	Tier Tier
}

// PlayerRecord is the normalized result of one backend lookup. Once handed to
// a cache a record is treated as immutable; use Clone or WithBadge to derive
// a modified copy.
type PlayerRecord struct {
	Tiers     map[string]Ranking // keyed by GameMode.ID
	Peaks     map[string]Tier
	Region    *Region
	Badge     string
	Rank      int // 0 = unset
	Points    int
	FetchedAt time.Time
}

func NewPlayerRecord() *PlayerRecord {
	return &PlayerRecord{
		Tiers: make(map[string]Ranking),
		Peaks: make(map[string]Tier),
	}
}

func (p *PlayerRecord) AddTier(mode GameMode, tier Tier) {
	p.Tiers[mode.ID()] = Ranking{Mode: mode, Tier: tier}
}

func (p *PlayerRecord) AddPeak(mode GameMode, tier Tier) {
	p.Peaks[mode.ID()] = tier
}

func (p *PlayerRecord) IsEmpty() bool {
	return p == nil || len(p.Tiers) == 0
}

// TierFor returns the ranking for a category, matching aliases when there is
// no exact entry.
func (p *PlayerRecord) TierFor(mode GameMode) (Ranking, bool) {
	if p == nil {
		return Ranking{}, false
	}
	if r, ok := p.Tiers[mode.ID()]; ok {
		return r, true
	}
	for _, key := range p.SortedKeys() {
		r := p.Tiers[key]
		if r.Mode.Matches(mode.Name) || (mode.Key != "" && r.Mode.Matches(mode.Key)) {
			return r, true
		}
	}
	return Ranking{}, false
}

func (p *PlayerRecord) PeakFor(mode GameMode) (Tier, bool) {
	if p == nil {
		return 0, false
	}
	if t, ok := p.Peaks[mode.ID()]; ok {
		return t, true
	}
	for key, t := range p.Peaks {
		if SameMode(key, mode.Name) {
			return t, true
		}
	}
	return 0, false
}

// SortedKeys returns the tier keys in ascending order. Every "best tier" scan
// walks this order so ties resolve to the alphabetically first category.
func (p *PlayerRecord) SortedKeys() []string {
	keys := make([]string, 0, len(p.Tiers))
	for k := range p.Tiers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Best returns the ranking with the lowest tier ordinal.
func (p *PlayerRecord) Best() (Ranking, bool) {
	if p.IsEmpty() {
		return Ranking{}, false
	}
	var best Ranking
	found := false
	for _, key := range p.SortedKeys() {
		r := p.Tiers[key]
		if !found || r.Tier.Better(best.Tier) {
			best = r
			found = true
		}
	}
	return best, found
}

func (p *PlayerRecord) Clone() *PlayerRecord {
	if p == nil {
		return nil
	}
	out := *p
	out.Tiers = make(map[string]Ranking, len(p.Tiers))
	for k, v := range p.Tiers {
		out.Tiers[k] = v
	}
	out.Peaks = make(map[string]Tier, len(p.Peaks))
	for k, v := range p.Peaks {
		out.Peaks[k] = v
	}
	if p.Region != nil {
		r := *p.Region
		out.Region = &r
	}
	return &out
}

func (p *PlayerRecord) WithBadge(badge string) *PlayerRecord {
	out := p.Clone()
	out.Badge = badge
	return out
}

type NameResult struct {
	Name string
	ID   uuid.UUID
}

// PlayerResult pairs a resolved identity with its record, as returned by
// name-based lookups.
type PlayerResult struct {
	Name   string
	ID     uuid.UUID
	Record *PlayerRecord
}
