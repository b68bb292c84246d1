package packs

import (
	"fmt"

	"github.com/cubeforge/cubedraft/internal/cards"
	"github.com/cubeforge/cubedraft/internal/format"
)

// Asfans computes the expected number of times each card appears in a
// single seat's packs under the format. Cube editors use this to judge how
// a custom format skews the pool. The computation is exact, not sampled.
func Asfans(f format.Format, pool []cards.Card) (map[string]float64, error) {
	if len(pool) == 0 {
		return nil, fmt.Errorf("unable to compute asfans: no cards")
	}

	asfan := make([]float64, len(pool))

	if !f.Custom {
		// Standard deal: every slot draws uniformly from the whole pool.
		slots := 0
		for _, pack := range f.Packs {
			slots += len(pack.Slots)
		}
		weight := float64(slots) / float64(len(pool))
		for i := range asfan {
			asfan[i] = weight
		}
		return byOracleID(pool, asfan), nil
	}

	tagPool := NewTagPool(pool)
	for packIdx, pack := range f.Packs {
		for slotIdx, slot := range pack.Slots {
			groups := make([][]cards.Ref, 0, len(slot))
			for _, tag := range slot {
				if refs := tagPool.Refs(tag); len(refs) > 0 {
					groups = append(groups, refs)
				}
			}
			if len(groups) == 0 {
				return nil, fmt.Errorf("pack %d slot %d: %w", packIdx+1, slotIdx+1,
					&InsufficientTagPoolError{Tag: slot[len(slot)-1]})
			}

			for _, refs := range groups {
				if f.Multiples {
					weight := 1.0 / float64(len(refs)) / float64(len(groups))
					for _, ref := range refs {
						asfan[ref] += weight
					}
				} else {
					// Weight by the odds each card is still in the pool.
					remaining := 0.0
					for _, ref := range refs {
						remaining += 1 - asfan[ref]
					}
					if remaining <= 0 {
						continue
					}
					weight := 1.0 / remaining / float64(len(groups))
					for _, ref := range refs {
						asfan[ref] += (1 - asfan[ref]) * weight
					}
				}
			}
		}
	}

	return byOracleID(pool, asfan), nil
}

func byOracleID(pool []cards.Card, asfan []float64) map[string]float64 {
	out := make(map[string]float64, len(pool))
	for i, card := range pool {
		out[card.OracleID] += asfan[i]
	}
	return out
}
