// Package format compiles raw draft format descriptors into normalized,
// randomizable slot plans. Compilation performs no randomness; slot
// resolution is deferred to pack assembly so a compiled format can deal
// multiple drafts deterministically when seeded externally.
package format

import (
	"encoding/json"
	"fmt"

	"github.com/cubeforge/cubedraft/internal/cards"
)

// Wildcard is the tag alternative that matches any card in the pool.
const Wildcard = "*"

// Slot is a set of alternative tags; assembly picks one alternative
// uniformly at random per attempt.
type Slot []string

// Pack is an ordered list of slots plus an optional custom step list.
// When Steps is nil the default pick-and-pass steps for the pack's length
// apply.
type Pack struct {
	Slots []Slot
	Steps []Step
}

// Format is a compiled draft format.
type Format struct {
	Packs []Pack

	// Multiples allows the same card to appear more than once across the
	// draft.
	Multiples bool

	// Custom distinguishes compiled descriptors from the standard
	// packs-by-cards format.
	Custom bool
}

// Descriptor is the raw serialized format record consumed at draft
// creation: {"packs": [["tagA,tagB", ...], ...], "multiples": bool}.
// Packs may also be objects carrying custom steps:
// {"slots": [...], "steps": [{"action": "pick", "amount": 1}, ...]}.
type Descriptor struct {
	Packs     []DescriptorPack `json:"packs"`
	Multiples bool             `json:"multiples"`
}

// DescriptorPack is one pack of a raw descriptor.
type DescriptorPack struct {
	Slots []string         `json:"slots"`
	Steps []DescriptorStep `json:"steps,omitempty"`
}

// DescriptorStep is one step of a custom step list.
type DescriptorStep struct {
	Action string `json:"action"`
	Amount int    `json:"amount,omitempty"`
}

// UnmarshalJSON accepts both the plain array-of-strings pack shape and the
// object shape with custom steps.
func (p *DescriptorPack) UnmarshalJSON(data []byte) error {
	var slots []string
	if err := json.Unmarshal(data, &slots); err == nil {
		p.Slots = slots
		p.Steps = nil
		return nil
	}

	type packAlias DescriptorPack
	var alias packAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	*p = DescriptorPack(alias)
	return nil
}

// Parse decodes a raw descriptor from JSON.
func Parse(raw []byte) (*Descriptor, error) {
	var desc Descriptor
	if err := json.Unmarshal(raw, &desc); err != nil {
		return nil, fmt.Errorf("failed to parse format descriptor: %w", err)
	}
	return &desc, nil
}

// Compile normalizes a descriptor into a Format. Each slot's
// comma-separated alternatives are trimmed and lowercased; empty packs,
// empty slots, and empty alternatives are rejected.
func Compile(desc *Descriptor) (Format, error) {
	if desc == nil || len(desc.Packs) == 0 {
		return Format{}, fmt.Errorf("format descriptor has no packs")
	}

	f := Format{
		Packs:     make([]Pack, 0, len(desc.Packs)),
		Multiples: desc.Multiples,
		Custom:    true,
	}

	for packIdx, rawPack := range desc.Packs {
		if len(rawPack.Slots) == 0 {
			return Format{}, fmt.Errorf("format pack %d has no slots", packIdx+1)
		}

		pack := Pack{Slots: make([]Slot, 0, len(rawPack.Slots))}
		for slotIdx, rawSlot := range rawPack.Slots {
			slot, err := compileSlot(rawSlot)
			if err != nil {
				return Format{}, fmt.Errorf("format pack %d slot %d: %w", packIdx+1, slotIdx+1, err)
			}
			pack.Slots = append(pack.Slots, slot)
		}

		if len(rawPack.Steps) > 0 {
			steps, err := compileSteps(rawPack.Steps)
			if err != nil {
				return Format{}, fmt.Errorf("format pack %d: %w", packIdx+1, err)
			}
			pack.Steps = steps
		}

		f.Packs = append(f.Packs, pack)
	}

	// A step list selecting more cards than the pack holds would leave the
	// queue stuck on a selection step no seat can satisfy.
	for i := range f.Packs {
		if selected := f.SelectionsPerPack(i); selected > len(f.Packs[i].Slots) {
			return Format{}, fmt.Errorf("format pack %d: steps select %d cards but the pack has only %d slots",
				i+1, selected, len(f.Packs[i].Slots))
		}
	}

	return f, nil
}

// compileSlot splits and normalizes a slot's comma-separated alternatives.
func compileSlot(raw string) (Slot, error) {
	alternatives := splitAlternatives(raw)
	if len(alternatives) == 0 {
		return nil, fmt.Errorf("slot is empty")
	}

	slot := make(Slot, 0, len(alternatives))
	for _, alt := range alternatives {
		normalized := cards.NormalizeTag(alt)
		if normalized == "" {
			return nil, fmt.Errorf("slot contains an empty alternative in %q", raw)
		}
		slot = append(slot, normalized)
	}
	return slot, nil
}

func splitAlternatives(raw string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(raw); i++ {
		if i == len(raw) || raw[i] == ',' {
			out = append(out, raw[start:i])
			start = i + 1
		}
	}
	return out
}

// Standard returns the default format: packs x cards wildcard slots with
// default steps and no multiples.
func Standard(packs, cardsPerPack int) (Format, error) {
	if packs <= 0 || cardsPerPack <= 0 {
		return Format{}, fmt.Errorf("invalid standard format: %d packs x %d cards", packs, cardsPerPack)
	}

	f := Format{Packs: make([]Pack, 0, packs)}
	for i := 0; i < packs; i++ {
		pack := Pack{Slots: make([]Slot, 0, cardsPerPack)}
		for j := 0; j < cardsPerPack; j++ {
			pack.Slots = append(pack.Slots, Slot{Wildcard})
		}
		f.Packs = append(f.Packs, pack)
	}
	return f, nil
}
