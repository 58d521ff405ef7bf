package domain

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownTier = errors.New("unknown tier")

// Tier is an ordinal skill rank. Lower values are better: S is 0, F is 9.
// Comparisons must go through the ordinal, never through the label.
type Tier int

const (
	S Tier = iota
	APlus
	AMinus
	BPlus
	BMinus
	CPlus
	CMinus
	DPlus
	DMinus
	F
)

type tierInfo struct {
	label   string
	highLow string
}

var tierTable = [...]tierInfo{
	S:      {"S", "HT1"},
	APlus:  {"A+", "LT1"},
	AMinus: {"A-", "HT2"},
	BPlus:  {"B+", "LT2"},
	BMinus: {"B-", "HT3"},
	CPlus:  {"C+", "LT3"},
	CMinus: {"C-", "HT4"},
	DPlus:  {"D+", "LT4"},
	DMinus: {"D-", "HT5"},
	F:      {"F", "LT5"},
}

func Tiers() []Tier {
	out := make([]Tier, len(tierTable))
	for i := range tierTable {
		out[i] = Tier(i)
	}
	return out
}

func (t Tier) Valid() bool {
	return t >= S && t <= F
}

func (t Tier) String() string {
	if !t.Valid() {
		return fmt.Sprintf("Tier(%d)", int(t))
	}
	return tierTable[t].label
}

// HighLow returns the paired notation, e.g. "HT1" for S and "LT5" for F.
func (t Tier) HighLow() string {
	if !t.Valid() {
		return ""
	}
	return tierTable[t].highLow
}

func (t Tier) Label(highLow bool) string {
	if highLow {
		return t.HighLow()
	}
	return t.String()
}

// Better reports whether t ranks strictly above o.
func (t Tier) Better(o Tier) bool {
	return t < o
}

// ParseTier accepts canonical ("A+"), enum style ("A_PLUS") and high/low
// ("LT1") notation in any casing; whitespace is ignored.
func ParseTier(s string) (Tier, error) {
	normalized := strings.ToUpper(strings.Join(strings.Fields(s), ""))
	if normalized == "" {
		return 0, fmt.Errorf("%w: empty", ErrUnknownTier)
	}
	normalized = strings.NewReplacer("_PLUS", "+", "_MINUS", "-").Replace(normalized)

	for i, info := range tierTable {
		if normalized == info.label || normalized == info.highLow {
			return Tier(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTier, s)
}

// TierFromPosition builds the high/low tier from a numeric tier (1-5) and a
// position flag where 1 means the low half.
func TierFromPosition(tier, pos int) (Tier, error) {
	half := "H"
	if pos == 1 {
		half = "L"
	}
	return ParseTier(fmt.Sprintf("%sT%d", half, tier))
}
