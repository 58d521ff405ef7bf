package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Source identifies one external ranking service.
type Source int

const (
	TierTests Source = iota
	MCTiers
	SubTiers
	PvPTiers
)

type sourceInfo struct {
	name        string
	displayName string
	logoIcon    string
	baseURL     string
}

var sourceTable = [...]sourceInfo{
	TierTests: {"TIER_TESTS", "Tier Tests", "\uE903", "https://api.tiertests.com/v1"},
	MCTiers:   {"MC_TIERS", "MCTiers", "\uE901", "https://mctiers.com/api/v2"},
	SubTiers:  {"SUB_TIERS", "SubTiers", "\uE902", "https://subtiers.net/api/v2"},
	PvPTiers:  {"PVP_TIERS", "PVPTiers", "\uE904", "https://pvptiers.com/api"},
}

// Sources lists every backend in declaration order. Cross-backend scans use
// this order.
func Sources() []Source {
	out := make([]Source, len(sourceTable))
	for i := range sourceTable {
		out[i] = Source(i)
	}
	return out
}

func (s Source) Valid() bool {
	return s >= 0 && int(s) < len(sourceTable)
}

func (s Source) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Source(%d)", int(s))
	}
	return sourceTable[s].name
}

func (s Source) DisplayName() string {
	if !s.Valid() {
		return ""
	}
	return sourceTable[s].displayName
}

func (s Source) LogoIcon() string {
	if !s.Valid() {
		return ""
	}
	return sourceTable[s].logoIcon
}

func (s Source) BaseURL() string {
	if !s.Valid() {
		return ""
	}
	return sourceTable[s].baseURL
}

// ParseSource accepts the enum name, the display name or the ordinal.
func ParseSource(v string) (Source, error) {
	v = strings.TrimSpace(v)
	if n, err := strconv.Atoi(v); err == nil {
		if s := Source(n); s.Valid() {
			return s, nil
		}
		return 0, fmt.Errorf("source ordinal out of range: %d", n)
	}
	for i, info := range sourceTable {
		if strings.EqualFold(v, info.name) || strings.EqualFold(v, info.displayName) {
			return Source(i), nil
		}
	}
	return 0, fmt.Errorf("unknown source: %q", v)
}

// DisplayMode selects how a player's tag is chosen.
type DisplayMode int

const (
	HighestFallback DisplayMode = iota
	HighestAlways
	SelectedOnly
	RankingMode
	CrossAPISameMode
	CrossAPIAnyMode
)

var displayModeNames = [...]string{
	HighestFallback:  "HIGHEST_FALLBACK",
	HighestAlways:    "HIGHEST_ALWAYS",
	SelectedOnly:     "SELECTED_ONLY",
	RankingMode:      "RANKING",
	CrossAPISameMode: "CROSS_API_SAME_MODE",
	CrossAPIAnyMode:  "CROSS_API_ANY_MODE",
}

func (d DisplayMode) String() string {
	if d < 0 || int(d) >= len(displayModeNames) {
		return fmt.Sprintf("DisplayMode(%d)", int(d))
	}
	return displayModeNames[d]
}

// CrossAPI reports whether the mode consults other backends.
func (d DisplayMode) CrossAPI() bool {
	return d == CrossAPISameMode || d == CrossAPIAnyMode
}

func ParseDisplayMode(v string) (DisplayMode, error) {
	v = strings.TrimSpace(v)
	for i, name := range displayModeNames {
		if strings.EqualFold(v, name) {
			return DisplayMode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown display mode: %q", v)
}
