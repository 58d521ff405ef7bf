package tag

import (
	"strconv"
	"strings"
)

// Format renders a result as a plain label, e.g. "<icon> HT3 (HT2) [EU] <badge>"
// or "#12 <badge>". An empty string means nothing to show.
func Format(res Result, highLow bool) string {
	var parts []string
	switch res.Kind {
	case TierLabel:
		if res.Mode.Icon != "" {
			parts = append(parts, res.Mode.Icon)
		}
		parts = append(parts, res.Tier.Label(highLow))
		if res.Peak != nil {
			parts = append(parts, "("+res.Peak.Label(highLow)+")")
		}
		if res.Region != nil && res.Region.Short != "" {
			parts = append(parts, "["+res.Region.Short+"]")
		}
	case RankLabel:
		parts = append(parts, "#"+strconv.Itoa(res.Rank))
	}
	if res.Badge != "" {
		parts = append(parts, res.Badge)
	}
	return strings.Join(parts, " ")
}
