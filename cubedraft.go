// Package cubedraft is a cube draft engine: it compiles draft format
// descriptors, assembles packs from a card pool, runs the multi-seat draft
// state machine with rating-service-driven bots, and constructs initial
// decks from finished pick lists. The package is a library consumed by a
// hosting application; it renders nothing and, outside the storage
// collaborator, performs no I/O.
package cubedraft

import (
	"math/rand"

	"github.com/cubeforge/cubedraft/internal/botclient"
	"github.com/cubeforge/cubedraft/internal/cards"
	"github.com/cubeforge/cubedraft/internal/deckbuild"
	"github.com/cubeforge/cubedraft/internal/engine"
	"github.com/cubeforge/cubedraft/internal/events"
	"github.com/cubeforge/cubedraft/internal/format"
	"github.com/cubeforge/cubedraft/internal/grid"
	"github.com/cubeforge/cubedraft/internal/packs"
)

// Core card and draft types re-exported for hosting applications.
type (
	// Card is one card record in a draft-scoped pool.
	Card = cards.Card

	// Ref is an index into a draft-scoped card list.
	Ref = cards.Ref

	// Format is a compiled draft format.
	Format = format.Format

	// FormatDescriptor is the raw serialized format record.
	FormatDescriptor = format.Descriptor

	// Step is one entry in a draft's step queue.
	Step = format.Step

	// Grid is the 2x8 deck layout used for mainboards and sideboards.
	Grid = grid.Grid

	// Location addresses one card position in a grid or pack.
	Location = grid.Location

	// Deck is the deck constructor output for one seat.
	Deck = deckbuild.Deck

	// Draft is a draft session.
	Draft = engine.Draft

	// Seat is one participant's state within a draft.
	Seat = engine.Seat

	// Owner identifies who controls a seat.
	Owner = engine.Owner

	// BotClient is the boundary interface to the card rating service.
	BotClient = botclient.Client

	// Event is a draft lifecycle notification.
	Event = events.Event

	// Observer receives draft lifecycle events.
	Observer = events.Observer
)

// NewDispatcher creates an event dispatcher for session observers.
func NewDispatcher() *events.Dispatcher {
	return events.NewDispatcher()
}

// ParseFormat decodes a raw format descriptor from JSON.
func ParseFormat(raw []byte) (*FormatDescriptor, error) {
	return format.Parse(raw)
}

// CompileFormat normalizes a descriptor into a Format.
func CompileFormat(desc *FormatDescriptor) (Format, error) {
	return format.Compile(desc)
}

// StandardFormat returns the default packs-by-cards format.
func StandardFormat(packCount, cardsPerPack int) (Format, error) {
	return format.Standard(packCount, cardsPerPack)
}

// CheckFormat verifies that a pool can satisfy every slot of a format
// without dealing any packs.
func CheckFormat(f Format, pool []Card) error {
	return packs.CheckFormat(f, pool)
}

// Asfans computes each pool card's expected per-pack frequency under the
// format.
func Asfans(f Format, pool []Card) (map[string]float64, error) {
	return packs.Asfans(f, pool)
}

// AssemblePacks deals packs for every seat from the pool. The rng seeds
// the deal; callers wanting reproducible drafts pass a seeded source.
func AssemblePacks(f Format, pool []Card, seats int, rng *rand.Rand) (*packs.Assembly, error) {
	return packs.Assemble(f, pool, seats, rng)
}

// BuildDeck constructs an initial deck from a finished pick list. A nil
// policy uses the pip-presence default.
func BuildDeck(picks []Ref, pool []Card, policy deckbuild.ColorPolicy) (*Deck, error) {
	return deckbuild.Build(picks, pool, policy)
}

// RecommendBasics suggests per-color basic land counts for a mainboard.
func RecommendBasics(mainboard Grid, pool []Card) (map[string]int, error) {
	return deckbuild.RecommendBasics(mainboard, pool)
}
