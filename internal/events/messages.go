package events

import (
	"github.com/cubeforge/cubedraft/internal/cards"
	"github.com/google/uuid"
)

// DraftCreated is the payload for TypeDraftCreated.
type DraftCreated struct {
	DraftID uuid.UUID
	CubeID  string
	Seats   int
	Packs   int
}

// PickApplied is the payload for TypePickApplied, emitted once per logical
// action after every seat has moved.
type PickApplied struct {
	DraftID    uuid.UUID
	Seat       int
	Card       cards.Ref
	PackNumber int
	PickNumber int
	Trashed    bool
}

// PackOpened is the payload for TypePackOpened.
type PackOpened struct {
	DraftID    uuid.UUID
	PackNumber int
}

// DraftCompleted is the payload for TypeDraftCompleted.
type DraftCompleted struct {
	DraftID uuid.UUID
}
