package packs

import (
	"github.com/cubeforge/cubedraft/internal/cards"
	"github.com/cubeforge/cubedraft/internal/format"
)

// TagPool maps a normalized tag to the refs of every pool card carrying
// it. The wildcard entry contains every ref. Built once per assembly pass
// over the full, unconsumed pool.
type TagPool map[string][]cards.Ref

// NewTagPool indexes a card pool by tag.
func NewTagPool(pool []cards.Card) TagPool {
	tp := make(TagPool)
	all := make([]cards.Ref, len(pool))
	for i, card := range pool {
		ref := cards.Ref(i)
		all[i] = ref
		for _, tag := range card.Tags {
			tp[tag] = append(tp[tag], ref)
		}
	}
	tp[format.Wildcard] = all
	return tp
}

// Refs returns the refs for a tag. The wildcard returns every ref.
func (tp TagPool) Refs(tag string) []cards.Ref {
	return tp[tag]
}

// matchesTag reports whether a card satisfies a tag alternative.
func matchesTag(card cards.Card, tag string) bool {
	return tag == format.Wildcard || card.HasTag(tag)
}

// takeFirstMatching scans an available-ref snapshot for the first card
// matching the tag and returns the ref plus a new, reduced snapshot. The
// input snapshot is never mutated.
func takeFirstMatching(avail []cards.Ref, pool []cards.Card, tag string) (cards.Ref, []cards.Ref, bool) {
	for i, ref := range avail {
		if matchesTag(pool[ref], tag) {
			reduced := make([]cards.Ref, 0, len(avail)-1)
			reduced = append(reduced, avail[:i]...)
			reduced = append(reduced, avail[i+1:]...)
			return ref, reduced, true
		}
	}
	return 0, avail, false
}
