// Package deckbuild turns a finished pick list into an initial deck: a
// populated mainboard grid, an empty sideboard, and a derived color
// identity. The aggregation policy for color identity is pluggable.
package deckbuild

import (
	"fmt"

	"github.com/cubeforge/cubedraft/internal/cards"
	"github.com/cubeforge/cubedraft/internal/grid"
)

// Deck is the deck constructor output handed to the hosting application.
type Deck struct {
	Mainboard grid.Grid `json:"mainboard"`
	Sideboard grid.Grid `json:"sideboard"`
	Colors    []string  `json:"colors"`
}

// ColorPolicy derives a deck's color identity from its placed cards. Lands
// are excluded before the policy runs.
type ColorPolicy interface {
	DeckColors(placed []cards.Card) []string
}

// PipPresencePolicy includes every color that appears on any placed
// nonland card. This is the default policy.
type PipPresencePolicy struct{}

// DeckColors returns the colors present across the cards, in WUBRG order.
func (PipPresencePolicy) DeckColors(placed []cards.Card) []string {
	present := make(map[string]bool)
	for _, c := range placed {
		for _, color := range cardColors(c) {
			present[color] = true
		}
	}
	out := make([]string, 0, len(present))
	for _, color := range cards.AllColors {
		if present[color] {
			out = append(out, color)
		}
	}
	return out
}

// PipProportionPolicy includes a color only when its share of the deck's
// colored mana symbols reaches Threshold. A splash of one or two pips in a
// forty-card deck falls below any reasonable threshold and is excluded.
type PipProportionPolicy struct {
	Threshold float64
}

// DeckColors returns the colors meeting the pip-share threshold, in WUBRG
// order.
func (p PipProportionPolicy) DeckColors(placed []cards.Card) []string {
	pips := make(map[string]int)
	total := 0
	for _, c := range placed {
		for _, color := range cards.AllColors {
			n := cards.Devotion(c, color)
			pips[color] += n
			total += n
		}
	}
	out := make([]string, 0, len(pips))
	if total == 0 {
		return out
	}
	for _, color := range cards.AllColors {
		if float64(pips[color])/float64(total) >= p.Threshold {
			out = append(out, color)
		}
	}
	return out
}

// Build places every picked card on a fresh mainboard at its conventional
// row and column and derives the deck's colors from the placed nonland
// cards. Picks arrive most recent first; placement runs in original pick
// order. A nil policy defaults to PipPresencePolicy.
func Build(picks []cards.Ref, pool []cards.Card, policy ColorPolicy) (*Deck, error) {
	if policy == nil {
		policy = PipPresencePolicy{}
	}

	deck := &Deck{
		Mainboard: grid.New(),
		Sideboard: grid.New(),
	}

	placed := make([]cards.Card, 0, len(picks))
	for i := len(picks) - 1; i >= 0; i-- {
		ref := picks[i]
		if int(ref) < 0 || int(ref) >= len(pool) {
			return nil, fmt.Errorf("failed to build deck: card reference %d out of range", ref)
		}
		c := pool[ref]
		deck.Mainboard = deck.Mainboard.AddDefault(c, ref)
		if !c.IsLand() {
			placed = append(placed, c)
		}
	}

	deck.Colors = policy.DeckColors(placed)
	return deck, nil
}

func cardColors(c cards.Card) []string {
	if len(c.Colors) > 0 {
		return c.Colors
	}
	return cards.ParseManaCost(c.ManaCost)
}
