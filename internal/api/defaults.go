package api

import "strings"

var defaultIcons = map[string]string{
	"axe":      "\uE701",
	"mace":     "\uE702",
	"neth_pot": "\uE703",
	"nethop":   "\uE703",
	"pot":      "\uE704",
	"smp":      "\uE705",
	"sword":    "\uE706",
	"uhc":      "\uE707",
	"vanilla":  "\uE708",
}

var defaultColors = map[string]string{
	"axe":      "#55FF55",
	"mace":     "#AAAAAA",
	"neth_pot": "#7d4a40",
	"nethop":   "#7d4a40",
	"pot":      "#ff0000",
	"smp":      "#eccb45",
	"sword":    "#a4fdf0",
	"uhc":      "#FF5555",
	"vanilla":  "#FF55FF",
}

var subTiersIcons = map[string]string{
	"bed":         "\uE801",
	"bow":         "\uE802",
	"creeper":     "\uE803",
	"debuff":      "\uE804",
	"dia_crystal": "\uE805",
	"dia_smp":     "\uE806",
	"elytra":      "\uE807",
	"manhunt":     "\uE808",
	"minecart":    "\uE809",
	"og_vanilla":  "\uE810",
	"speed":       "\uE811",
	"trident":     "\uE812",
}

var subTiersColors = map[string]string{
	"bed":         "#ff0000",
	"bow":         "#663d10",
	"creeper":     "#55FF55",
	"debuff":      "#555555",
	"dia_crystal": "#55FFFF",
	"dia_smp":     "#8c668b",
	"elytra":      "#8d8db1",
	"manhunt":     "#FF5555",
	"minecart":    "#AAAAAA",
	"og_vanilla":  "#FFAA00",
	"speed":       "#43a9d1",
	"trident":     "#579b8c",
}

type legacyColor struct {
	hex  string
	code string
}

var legacyColors = map[string]legacyColor{
	"dark_red":     {"#AA0000", "4"},
	"red":          {"#FF5555", "c"},
	"gold":         {"#FFAA00", "6"},
	"yellow":       {"#FFFF55", "e"},
	"green":        {"#55FF55", "a"},
	"dark_green":   {"#00AA00", "2"},
	"aqua":         {"#55FFFF", "b"},
	"dark_aqua":    {"#00AAAA", "3"},
	"blue":         {"#5555FF", "9"},
	"light_purple": {"#FF55FF", "d"},
	"dark_purple":  {"#AA00AA", "5"},
	"white":        {"#FFFFFF", "f"},
	"gray":         {"#AAAAAA", "7"},
	"dark_gray":    {"#555555", "8"},
	"black":        {"#000000", "0"},
}

// colorHex maps a legacy color name to hex, white when unknown.
func colorHex(name string) string {
	if c, ok := legacyColors[strings.ToLower(name)]; ok {
		return c.hex
	}
	return "#FFFFFF"
}

func lookupOr(table map[string]string, key, fallback string) string {
	if v, ok := table[key]; ok {
		return v
	}
	return fallback
}
