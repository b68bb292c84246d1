package cards

import (
	"regexp"
	"sort"
)

// Color constants for WUBRG
const (
	ColorWhite = "W"
	ColorBlue  = "U"
	ColorBlack = "B"
	ColorRed   = "R"
	ColorGreen = "G"
)

// AllColors lists all five colors in WUBRG order.
var AllColors = []string{ColorWhite, ColorBlue, ColorBlack, ColorRed, ColorGreen}

var colorSymbolRe = regexp.MustCompile(`[WUBRG]`)

// ParseManaCost extracts the distinct colors from a mana cost string.
// Example: "{2}{W}{W}{U}" -> ["U", "W"]
// Example: "{W/U}" -> ["U", "W"]
func ParseManaCost(manaCost string) []string {
	if manaCost == "" {
		return []string{}
	}

	matches := colorSymbolRe.FindAllString(manaCost, -1)

	colorMap := make(map[string]bool)
	for _, color := range matches {
		colorMap[color] = true
	}

	colors := make([]string, 0, len(colorMap))
	for color := range colorMap {
		colors = append(colors, color)
	}
	sort.Strings(colors)

	return colors
}

// Devotion counts the occurrences of a color symbol in the card's mana
// cost. Hybrid symbols count once per appearance of the color.
func Devotion(c Card, color string) int {
	count := 0
	for _, sym := range colorSymbolRe.FindAllString(c.ManaCost, -1) {
		if sym == color {
			count++
		}
	}
	return count
}

// SortColors orders a set of color symbols in canonical WUBRG order.
func SortColors(colors []string) []string {
	order := map[string]int{ColorWhite: 0, ColorBlue: 1, ColorBlack: 2, ColorRed: 3, ColorGreen: 4}
	out := make([]string, len(colors))
	copy(out, colors)
	sort.Slice(out, func(i, j int) bool {
		return order[out[i]] < order[out[j]]
	})
	return out
}
