package tag

import (
	"tiertagger/internal/domain"
)

type Kind int

const (
	None Kind = iota
	TierLabel
	RankLabel
)

type Input struct {
	Primary       *domain.PlayerRecord
	PrimarySource domain.Source
	Cross         map[domain.Source]*domain.PlayerRecord
	Mode          domain.DisplayMode
	Selected      *domain.GameMode
}

// Result is plain data for the presentation layer. Region and Badge come
// from the primary record whatever the Kind.
type Result struct {
	Kind   Kind
	Mode   domain.GameMode
	Tier   domain.Tier
	Peak   *domain.Tier
	Source domain.Source
	Rank   int
	Points int
	Region *domain.Region
	Badge  string
}

type pick struct {
	mode   domain.GameMode
	tier   domain.Tier
	source domain.Source
	record *domain.PlayerRecord
}

// Resolve picks the label to show for one player. It is deterministic: where
// tiers tie, categories are compared in key order and backends in
// domain.Sources order, and the first one wins.
func Resolve(in Input) Result {
	res := Result{}
	if in.Primary != nil {
		res.Region = in.Primary.Region
		res.Badge = in.Primary.Badge
		res.Points = in.Primary.Points
	}

	var chosen *pick
	switch in.Mode {
	case domain.HighestFallback:
		chosen = selectedTier(in)
		if chosen == nil {
			chosen = primaryBest(in)
		}
	case domain.HighestAlways:
		chosen = primaryBest(in)
	case domain.SelectedOnly:
		chosen = selectedTier(in)
	case domain.RankingMode:
		if in.Primary != nil && in.Primary.Rank > 0 {
			res.Kind = RankLabel
			res.Rank = in.Primary.Rank
			res.Source = in.PrimarySource
		}
		return res
	case domain.CrossAPISameMode:
		chosen = selectedTier(in)
		if chosen == nil {
			chosen = crossSameMode(in)
		}
	case domain.CrossAPIAnyMode:
		chosen = selectedTier(in)
		if chosen == nil {
			chosen = crossSameMode(in)
		}
		if chosen == nil {
			chosen = crossAnyMode(in)
		}
		if chosen == nil {
			chosen = primaryBest(in)
		}
	default:
		chosen = primaryBest(in)
	}

	if chosen == nil {
		return res
	}

	res.Kind = TierLabel
	res.Mode = chosen.mode
	res.Tier = chosen.tier
	res.Source = chosen.source
	if peak, ok := chosen.record.PeakFor(chosen.mode); ok && peak.Better(chosen.tier) {
		res.Peak = &peak
	}
	return res
}

func selectedTier(in Input) *pick {
	if in.Selected == nil || in.Primary == nil {
		return nil
	}
	r, ok := in.Primary.TierFor(*in.Selected)
	if !ok {
		return nil
	}
	return &pick{mode: r.Mode, tier: r.Tier, source: in.PrimarySource, record: in.Primary}
}

func primaryBest(in Input) *pick {
	r, ok := in.Primary.Best()
	if !ok {
		return nil
	}
	return &pick{mode: r.Mode, tier: r.Tier, source: in.PrimarySource, record: in.Primary}
}

// crossSameMode scans other backends for the selected category and keeps
// the best tier. The selected mode is reported, not the backend's own.
func crossSameMode(in Input) *pick {
	if in.Selected == nil {
		return nil
	}
	var best *pick
	for _, src := range domain.Sources() {
		rec, ok := in.Cross[src]
		if !ok || rec.IsEmpty() {
			continue
		}
		for _, key := range rec.SortedKeys() {
			r := rec.Tiers[key]
			if !r.Mode.Matches(in.Selected.Name) && !(in.Selected.Key != "" && r.Mode.Matches(in.Selected.Key)) {
				continue
			}
			if best == nil || r.Tier.Better(best.tier) {
				best = &pick{mode: *in.Selected, tier: r.Tier, source: src, record: rec}
			}
		}
	}
	return best
}

func crossAnyMode(in Input) *pick {
	var best *pick
	for _, src := range domain.Sources() {
		rec, ok := in.Cross[src]
		if !ok || rec.IsEmpty() {
			continue
		}
		r, ok := rec.Best()
		if !ok {
			continue
		}
		if best == nil || r.Tier.Better(best.tier) {
			best = &pick{mode: r.Mode, tier: r.Tier, source: src, record: rec}
		}
	}
	return best
}
