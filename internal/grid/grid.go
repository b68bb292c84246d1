// Package grid implements the 2-row by 8-column stack layout used for
// mainboards and sideboards. Grids are immutable values: every operation
// returns a new grid, so the state machine and a renderer can hold the
// same grid without aliasing bugs.
package grid

import (
	"encoding/json"
	"fmt"

	"github.com/cubeforge/cubedraft/internal/cards"
)

// Grid dimensions. Row 0 holds creatures and row 1 everything else by
// convention; columns are indexed by converted mana cost clamped to 0-7.
const (
	Rows = 2
	Cols = 8
)

// Container identifies which card container a Location addresses.
type Container string

// Containers addressable by a Location.
const (
	ContainerPack      Container = "pack"
	ContainerDeck      Container = "deck"
	ContainerSideboard Container = "sideboard"
)

// Location addresses one card position. Index addresses a card within the
// stack at (Row, Col); Add ignores it and appends.
type Location struct {
	Container Container `json:"containerType"`
	Row       int       `json:"row"`
	Col       int       `json:"col"`
	Index     int       `json:"index"`
}

// LocationOutOfRangeError reports a grid operation against an invalid
// coordinate. This is a programming error in the caller and fails loudly.
type LocationOutOfRangeError struct {
	Loc Location
}

func (e *LocationOutOfRangeError) Error() string {
	return fmt.Sprintf("location out of range: row=%d col=%d index=%d", e.Loc.Row, e.Loc.Col, e.Loc.Index)
}

// Grid is an immutable 2x8 array of card reference stacks.
type Grid struct {
	cells [Rows][Cols][]cards.Ref
}

// New returns an empty grid.
func New() Grid {
	return Grid{}
}

// Stack returns the card stack at (row, col). The returned slice must not
// be mutated.
func (g Grid) Stack(row, col int) []cards.Ref {
	if row < 0 || row >= Rows || col < 0 || col >= Cols {
		return nil
	}
	return g.cells[row][col]
}

// Count sums the stack lengths across the grid.
func (g Grid) Count() int {
	total := 0
	for row := 0; row < Rows; row++ {
		for col := 0; col < Cols; col++ {
			total += len(g.cells[row][col])
		}
	}
	return total
}

// Refs returns every card reference in the grid, row-major.
func (g Grid) Refs() []cards.Ref {
	refs := make([]cards.Ref, 0, g.Count())
	for row := 0; row < Rows; row++ {
		for col := 0; col < Cols; col++ {
			refs = append(refs, g.cells[row][col]...)
		}
	}
	return refs
}

// Add appends a card reference to the stack at the location's row and
// column and returns the new grid. Coordinates are clamped so Add never
// fails.
func (g Grid) Add(loc Location, ref cards.Ref) Grid {
	row := clamp(loc.Row, 0, Rows-1)
	col := clamp(loc.Col, 0, Cols-1)

	stack := g.cells[row][col]
	updated := make([]cards.Ref, len(stack), len(stack)+1)
	copy(updated, stack)
	updated = append(updated, ref)

	g.cells[row][col] = updated
	return g
}

// Remove takes the card reference at the location out of the grid and
// returns it with the new grid.
func (g Grid) Remove(loc Location) (cards.Ref, Grid, error) {
	if loc.Row < 0 || loc.Row >= Rows || loc.Col < 0 || loc.Col >= Cols {
		return 0, g, &LocationOutOfRangeError{Loc: loc}
	}
	stack := g.cells[loc.Row][loc.Col]
	if loc.Index < 0 || loc.Index >= len(stack) {
		return 0, g, &LocationOutOfRangeError{Loc: loc}
	}

	ref := stack[loc.Index]
	updated := make([]cards.Ref, 0, len(stack)-1)
	updated = append(updated, stack[:loc.Index]...)
	updated = append(updated, stack[loc.Index+1:]...)

	g.cells[loc.Row][loc.Col] = updated
	return ref, g, nil
}

// Move removes the card at src and appends it at dst. Moving a card onto
// its own coordinate is a no-op; callers implementing a "click" gesture
// must supply a different target rather than rely on Move to reassign.
func (g Grid) Move(src, dst Location) (Grid, error) {
	if src.Row == dst.Row && src.Col == dst.Col {
		return g, nil
	}
	ref, removed, err := g.Remove(src)
	if err != nil {
		return g, err
	}
	return removed.Add(dst, ref), nil
}

// DefaultRowColumn returns the conventional placement for a card: row 0
// for creatures, row 1 otherwise, column by clamped converted mana cost.
func DefaultRowColumn(c cards.Card) (row, col int) {
	row = 1
	if c.IsCreature() {
		row = 0
	}
	col = clamp(c.CMC, 0, Cols-1)
	return row, col
}

// AddDefault appends a card at its conventional position.
func (g Grid) AddDefault(c cards.Card, ref cards.Ref) Grid {
	row, col := DefaultRowColumn(c)
	return g.Add(Location{Row: row, Col: col}, ref)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// MarshalJSON serializes the grid as nested arrays of card references,
// matching the shape persisted and handed to the hosting application.
func (g Grid) MarshalJSON() ([]byte, error) {
	rows := make([][][]cards.Ref, Rows)
	for row := 0; row < Rows; row++ {
		rows[row] = make([][]cards.Ref, Cols)
		for col := 0; col < Cols; col++ {
			stack := g.cells[row][col]
			if stack == nil {
				stack = []cards.Ref{}
			}
			rows[row][col] = stack
		}
	}
	return json.Marshal(rows)
}

// UnmarshalJSON restores a grid from its nested-array serialization.
func (g *Grid) UnmarshalJSON(data []byte) error {
	var rows [][][]cards.Ref
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}
	if len(rows) != Rows {
		return fmt.Errorf("grid has %d rows, want %d", len(rows), Rows)
	}
	var restored Grid
	for row := 0; row < Rows; row++ {
		if len(rows[row]) != Cols {
			return fmt.Errorf("grid row %d has %d columns, want %d", row, len(rows[row]), Cols)
		}
		for col := 0; col < Cols; col++ {
			stack := make([]cards.Ref, len(rows[row][col]))
			copy(stack, rows[row][col])
			restored.cells[row][col] = stack
		}
	}
	*g = restored
	return nil
}
