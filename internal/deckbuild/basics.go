package deckbuild

import (
	"fmt"
	"sort"

	"github.com/cubeforge/cubedraft/internal/cards"
	"github.com/cubeforge/cubedraft/internal/grid"
)

// TargetDeckSize is the deck size basics recommendations fill toward.
const TargetDeckSize = 40

// RecommendBasics suggests a per-color basic land count to bring the
// mainboard up to the target size, proportional to the colored mana
// symbols already on the board. Colors with no symbols get no lands; when
// the board has no colored symbols at all no lands are suggested.
func RecommendBasics(mainboard grid.Grid, pool []cards.Card) (map[string]int, error) {
	needed := TargetDeckSize - mainboard.Count()
	counts := make(map[string]int)
	if needed <= 0 {
		return counts, nil
	}

	pips := make(map[string]int)
	total := 0
	for _, ref := range mainboard.Refs() {
		if int(ref) < 0 || int(ref) >= len(pool) {
			return nil, fmt.Errorf("failed to recommend basics: card reference %d out of range", ref)
		}
		c := pool[ref]
		if c.IsLand() {
			continue
		}
		for _, color := range cards.AllColors {
			n := cards.Devotion(c, color)
			pips[color] += n
			total += n
		}
	}
	if total == 0 {
		return counts, nil
	}

	// Floor each color's proportional share, then hand out the remaining
	// lands by largest fractional remainder, WUBRG order breaking ties.
	type slice struct {
		color     string
		remainder float64
	}
	assigned := 0
	remainders := make([]slice, 0, len(cards.AllColors))
	for _, color := range cards.AllColors {
		if pips[color] == 0 {
			continue
		}
		exact := float64(needed) * float64(pips[color]) / float64(total)
		floor := int(exact)
		if floor > 0 {
			counts[color] = floor
		}
		assigned += floor
		remainders = append(remainders, slice{color: color, remainder: exact - float64(floor)})
	}
	sort.SliceStable(remainders, func(i, j int) bool {
		return remainders[i].remainder > remainders[j].remainder
	})
	for i := 0; assigned < needed && len(remainders) > 0; i = (i + 1) % len(remainders) {
		counts[remainders[i].color]++
		assigned++
	}

	return counts, nil
}

// BasicsFor expands a per-color count map into the corresponding basic
// land cards from the fixed reference set, in WUBRG order.
func BasicsFor(counts map[string]int) []cards.Card {
	var out []cards.Card
	for _, color := range cards.AllColors {
		basic, ok := cards.BasicForColor(color)
		if !ok {
			continue
		}
		for i := 0; i < counts[color]; i++ {
			out = append(out, basic)
		}
	}
	return out
}
