// Package packs assembles concrete per-seat, per-pack card reference
// arrays from a compiled format and a cube's card pool. Assembly is a
// one-shot computation over an injected random source; failure aborts the
// whole draft creation with a typed error.
package packs

import (
	"fmt"
	"math/rand"

	"github.com/cubeforge/cubedraft/internal/cards"
	"github.com/cubeforge/cubedraft/internal/format"
)

// Assembly is the result of dealing a draft: the draft-scoped card list
// and the initial allocation Packs[seat][pack][card].
type Assembly struct {
	Cards []cards.Card
	Packs [][][]cards.Ref
}

// Assemble deals packs for every seat from the pool according to the
// format. The rng must not be nil; callers seed it for reproducible deals.
func Assemble(f format.Format, pool []cards.Card, seats int, rng *rand.Rand) (*Assembly, error) {
	if len(pool) == 0 {
		return nil, fmt.Errorf("unable to create draft: no cards")
	}
	if seats < 2 {
		return nil, fmt.Errorf("unable to create draft: invalid seats: %d", seats)
	}
	if rng == nil {
		return nil, fmt.Errorf("unable to create draft: nil random source")
	}

	if !f.Custom {
		return assembleStandard(f, pool, seats, rng)
	}
	if f.Multiples {
		return assembleWithMultiples(f, pool, seats, rng)
	}
	return assembleWithoutMultiples(f, pool, seats, rng)
}

// assembleStandard deals a packs x cards draft by popping from a single
// shuffled pool, seat-major, pack-major, card-minor.
func assembleStandard(f format.Format, pool []cards.Card, seats int, rng *rand.Rand) (*Assembly, error) {
	need := 0
	for _, pack := range f.Packs {
		need += len(pack.Slots)
	}
	need *= seats
	if need > len(pool) {
		return nil, &InsufficientPoolSizeError{Need: need, Have: len(pool)}
	}

	shuffled := shuffledRefs(len(pool), rng)
	next := 0

	asm := newAssembly(pool, seats, len(f.Packs))
	for seat := 0; seat < seats; seat++ {
		for packIdx, pack := range f.Packs {
			dealt := make([]cards.Ref, 0, len(pack.Slots))
			for range pack.Slots {
				dealt = append(dealt, shuffled[next])
				next++
			}
			asm.Packs[seat][packIdx] = dealt
		}
	}
	return asm, nil
}

// assembleWithoutMultiples consumes cards from one shuffled pool. Each
// slot picks a tag alternative uniformly at random and takes the first
// remaining matching card; exhausted alternatives are retried against the
// slot's other alternatives before assembly fails.
func assembleWithoutMultiples(f format.Format, pool []cards.Card, seats int, rng *rand.Rand) (*Assembly, error) {
	avail := shuffledRefs(len(pool), rng)

	asm := newAssembly(pool, seats, len(f.Packs))
	for seat := 0; seat < seats; seat++ {
		for packIdx, pack := range f.Packs {
			dealt := make([]cards.Ref, 0, len(pack.Slots))
			for _, slot := range pack.Slots {
				ref, reduced, err := fillSlotConsuming(slot, avail, pool, rng)
				if err != nil {
					return nil, err
				}
				avail = reduced
				dealt = append(dealt, ref)
			}
			asm.Packs[seat][packIdx] = dealt
		}
	}
	return asm, nil
}

// fillSlotConsuming resolves one slot against the current pool snapshot,
// returning the chosen ref and the reduced snapshot.
func fillSlotConsuming(slot format.Slot, avail []cards.Ref, pool []cards.Card, rng *rand.Rand) (cards.Ref, []cards.Ref, error) {
	alternatives := make([]string, len(slot))
	copy(alternatives, slot)

	var failed []string
	for len(alternatives) > 0 {
		idx := rng.Intn(len(alternatives))
		tag := alternatives[idx]

		ref, reduced, ok := takeFirstMatching(avail, pool, tag)
		if ok {
			return ref, reduced, nil
		}

		failed = append(failed, tag)
		alternatives = append(alternatives[:idx], alternatives[idx+1:]...)
	}

	return 0, nil, &InsufficientTagPoolError{Tag: offendingTag(failed)}
}

// assembleWithMultiples copies refs from a tag pool built once over the
// full pool; cards may recur across slots.
func assembleWithMultiples(f format.Format, pool []cards.Card, seats int, rng *rand.Rand) (*Assembly, error) {
	tagPool := NewTagPool(pool)

	asm := newAssembly(pool, seats, len(f.Packs))
	for seat := 0; seat < seats; seat++ {
		for packIdx, pack := range f.Packs {
			dealt := make([]cards.Ref, 0, len(pack.Slots))
			for _, slot := range pack.Slots {
				ref, err := fillSlotCopying(slot, tagPool, rng)
				if err != nil {
					return nil, err
				}
				dealt = append(dealt, ref)
			}
			asm.Packs[seat][packIdx] = dealt
		}
	}
	return asm, nil
}

// fillSlotCopying resolves one slot against the tag pool without removal.
func fillSlotCopying(slot format.Slot, tagPool TagPool, rng *rand.Rand) (cards.Ref, error) {
	alternatives := make([]string, len(slot))
	copy(alternatives, slot)

	var failed []string
	for len(alternatives) > 0 {
		idx := rng.Intn(len(alternatives))
		tag := alternatives[idx]

		refs := tagPool.Refs(tag)
		if len(refs) > 0 {
			return refs[rng.Intn(len(refs))], nil
		}

		failed = append(failed, tag)
		alternatives = append(alternatives[:idx], alternatives[idx+1:]...)
	}

	return 0, &InsufficientTagPoolError{Tag: offendingTag(failed)}
}

// offendingTag prefers a named tag over the wildcard when reporting which
// alternative could not be satisfied.
func offendingTag(failed []string) string {
	for _, tag := range failed {
		if tag != format.Wildcard {
			return tag
		}
	}
	if len(failed) > 0 {
		return failed[0]
	}
	return format.Wildcard
}

func shuffledRefs(n int, rng *rand.Rand) []cards.Ref {
	refs := make([]cards.Ref, n)
	for i := range refs {
		refs[i] = cards.Ref(i)
	}
	rng.Shuffle(n, func(i, j int) {
		refs[i], refs[j] = refs[j], refs[i]
	})
	return refs
}

func newAssembly(pool []cards.Card, seats, packCount int) *Assembly {
	poolCopy := make([]cards.Card, len(pool))
	copy(poolCopy, pool)

	allocation := make([][][]cards.Ref, seats)
	for i := range allocation {
		allocation[i] = make([][]cards.Ref, packCount)
	}
	return &Assembly{Cards: poolCopy, Packs: allocation}
}

// CheckFormat dry-runs a format against a pool without creating a draft,
// reporting the tags no card satisfies. A nil error means every slot of
// every pack can be filled by at least one alternative.
func CheckFormat(f format.Format, pool []cards.Card) error {
	tagPool := NewTagPool(pool)
	for packIdx, pack := range f.Packs {
		for slotIdx, slot := range pack.Slots {
			satisfied := false
			var failing string
			for _, tag := range slot {
				if len(tagPool.Refs(tag)) > 0 {
					satisfied = true
					break
				}
				failing = tag
			}
			if !satisfied {
				return fmt.Errorf("pack %d slot %d: %w", packIdx+1, slotIdx+1,
					&InsufficientTagPoolError{Tag: failing})
			}
		}
	}
	return nil
}
