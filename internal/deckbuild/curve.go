package deckbuild

import (
	"fmt"

	"github.com/cubeforge/cubedraft/internal/cards"
	"github.com/cubeforge/cubedraft/internal/grid"
)

// Curve summarizes a mainboard's mana curve. Columns mirror the grid's
// clamped converted mana cost indexing.
type Curve struct {
	// Creatures and Spells count nonland cards per cost column.
	Creatures [grid.Cols]int
	Spells    [grid.Cols]int

	// Lands is the total land count.
	Lands int

	// AverageCMC is the mean converted mana cost of nonland cards, zero
	// for an empty board.
	AverageCMC float64
}

// AnalyzeCurve computes the curve summary for a mainboard.
func AnalyzeCurve(mainboard grid.Grid, pool []cards.Card) (Curve, error) {
	var curve Curve
	nonland := 0
	cmcSum := 0
	for _, ref := range mainboard.Refs() {
		if int(ref) < 0 || int(ref) >= len(pool) {
			return Curve{}, fmt.Errorf("failed to analyze curve: card reference %d out of range", ref)
		}
		c := pool[ref]
		if c.IsLand() {
			curve.Lands++
			continue
		}
		col := c.CMC
		if col > grid.Cols-1 {
			col = grid.Cols - 1
		}
		if col < 0 {
			col = 0
		}
		if c.IsCreature() {
			curve.Creatures[col]++
		} else {
			curve.Spells[col]++
		}
		nonland++
		cmcSum += c.CMC
	}
	if nonland > 0 {
		curve.AverageCMC = float64(cmcSum) / float64(nonland)
	}
	return curve, nil
}
