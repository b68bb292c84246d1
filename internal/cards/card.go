// Package cards defines the card records and reference type shared by the
// draft engine. A Ref is an index into a draft-scoped card list; refs are
// the only unit that moves between packs, pick lists, and grids, so card
// identity is preserved by construction.
package cards

import "strings"

// Ref is an index into a draft-scoped ordered list of Cards.
type Ref int

// Card holds the card data the draft engine needs. The OracleID is the
// stable identifier used on the wire with the rating service.
type Card struct {
	// OracleID is the stable oracle identifier for the card.
	OracleID string

	// Name is the card's display name.
	Name string

	// ManaCost is the mana cost string, e.g. "{2}{W}{W}".
	ManaCost string

	// CMC is the converted mana cost.
	CMC int

	// TypeLine is the full type line, e.g. "Creature — Elf Druid".
	TypeLine string

	// Colors is the card's color identity as WUBRG symbols.
	Colors []string

	// Tags are the cube's classification labels, normalized.
	Tags []string
}

// IsCreature reports whether the card's type line contains "creature".
func (c Card) IsCreature() bool {
	return strings.Contains(strings.ToLower(c.TypeLine), "creature")
}

// IsLand reports whether the card's type line contains "land".
func (c Card) IsLand() bool {
	return strings.Contains(strings.ToLower(c.TypeLine), "land")
}

// HasTag reports whether the card carries the given normalized tag.
func (c Card) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// NormalizeTag trims whitespace and lowercases a tag so descriptor
// alternatives and cube tags compare equal.
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// NormalizeTags normalizes a tag list, dropping entries that normalize to
// the empty string.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if n := NormalizeTag(t); n != "" {
			out = append(out, n)
		}
	}
	return out
}
