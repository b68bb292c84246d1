package packs

import "fmt"

// InsufficientTagPoolError indicates the pool cannot satisfy a slot: none
// of the slot's tag alternatives matched a remaining card. Assembly aborts
// and no draft is created.
type InsufficientTagPoolError struct {
	// Tag is the offending tag alternative.
	Tag string
}

func (e *InsufficientTagPoolError) Error() string {
	return fmt.Sprintf("insufficient tag pool: no cards remaining for tag %q", e.Tag)
}

// InsufficientPoolSizeError indicates a standard draft requires more cards
// than the pool holds.
type InsufficientPoolSizeError struct {
	Need int
	Have int
}

func (e *InsufficientPoolSizeError) Error() string {
	return fmt.Sprintf("insufficient pool size: need %d cards, have %d", e.Need, e.Have)
}
