package cards

// BasicLandNames maps each color to its basic land.
var BasicLandNames = map[string]string{
	ColorWhite: "Plains",
	ColorBlue:  "Island",
	ColorBlack: "Swamp",
	ColorRed:   "Mountain",
	ColorGreen: "Forest",
}

// BasicLands returns the fixed basic-land reference set used by the deck
// constructor, in WUBRG order.
func BasicLands() []Card {
	basics := make([]Card, 0, len(AllColors))
	for _, color := range AllColors {
		name := BasicLandNames[color]
		basics = append(basics, Card{
			OracleID: "basic-" + name,
			Name:     name,
			CMC:      0,
			TypeLine: "Basic Land — " + name,
			Colors:   []string{color},
		})
	}
	return basics
}

// BasicForColor returns the basic land card for a color, or false when the
// symbol is not one of WUBRG.
func BasicForColor(color string) (Card, bool) {
	name, ok := BasicLandNames[color]
	if !ok {
		return Card{}, false
	}
	for _, basic := range BasicLands() {
		if basic.Name == name {
			return basic, true
		}
	}
	return Card{}, false
}
