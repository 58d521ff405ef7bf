package domain

import "strings"

// GameMode is a ranking category within a backend.
type GameMode struct {
	Name  string
	Key   string
	Color string // hex, "#RRGGBB"
	Icon  string
}

// ID is the lowercase name used as the map key in player records.
func (m GameMode) ID() string {
	return strings.ToLower(m.Name)
}

// Matches reports whether name refers to this mode by name or key,
// alias groups included.
func (m GameMode) Matches(name string) bool {
	return SameMode(m.Name, name) || (m.Key != "" && SameMode(m.Key, name))
}

var modeAliases = [][]string{
	{"vanilla", "crystal"},
	{"nethpot", "nethop", "neth_pot", "netherpot"},
}

// SameMode compares two category names case-insensitively, treating names in
// the same alias group as equal.
func SameMode(a, b string) bool {
	if strings.EqualFold(a, b) {
		return true
	}
	la, lb := strings.ToLower(a), strings.ToLower(b)
	for _, group := range modeAliases {
		if contains(group, la) && contains(group, lb) {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
