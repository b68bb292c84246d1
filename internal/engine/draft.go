// Package engine owns the draft session state machine: per-seat packs,
// picks and trash, the global step queue, and the transitions that advance
// a multi-seat draft from creation to completion. One logical action is
// applied atomically; on any error the prior state is left intact.
package engine

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/cubeforge/cubedraft/internal/cards"
	"github.com/cubeforge/cubedraft/internal/events"
	"github.com/cubeforge/cubedraft/internal/format"
	"github.com/cubeforge/cubedraft/internal/grid"
	"github.com/cubeforge/cubedraft/internal/packs"
)

// Owner identifies who controls a seat.
type Owner struct {
	// UserID is the human identity, empty for bot seats.
	UserID string

	// Name is the display name.
	Name string

	// Bot marks a seat whose decisions come from the rating service.
	Bot bool
}

// Seat is one participant's evolving state.
type Seat struct {
	Owner Owner

	// Pack holds the card references currently face-up for this seat.
	Pack []cards.Ref

	// Picks is the seat's pick order, most recent first.
	Picks []cards.Ref

	// Trashed is the seat's trash order, most recent first.
	Trashed []cards.Ref

	// Mainboard and Sideboard are the seat's evolving deck grids.
	Mainboard grid.Grid
	Sideboard grid.Grid

	// ratings is the last-fetched oracle-to-rating map for this seat,
	// nil until the first prediction resolves.
	ratings map[string]float64
}

// TotalHeld is the conservation quantity for a seat: pack plus picks plus
// trash. It never changes between re-deals of the seat's pack.
func (s *Seat) TotalHeld() int {
	return len(s.Pack) + len(s.Picks) + len(s.Trashed)
}

// Draft is a complete draft session. It is created by the pack assembler
// output, mutated exclusively through Apply until Completed is set, and
// immutable afterwards.
type Draft struct {
	ID     uuid.UUID
	CubeID string

	// Cards is the draft-scoped flat card list; refs index into it.
	Cards []cards.Card

	// InitialState is the per-seat initial pack allocation,
	// [seat][pack][card]. Used to reopen packs and for redrafts.
	InitialState [][][]cards.Ref

	Seats []Seat

	// Queue is the pending step queue; head at index 0.
	Queue []format.Step

	PackNumber int
	PickNumber int
	Completed  bool

	packCount    int
	rng          *rand.Rand
	dispatcher   *events.Dispatcher
	needsRatings bool
}

// Options configures draft creation.
type Options struct {
	CubeID string

	// Rng is the random source for bot fallback and random steps.
	// Defaults to a time-seeded source; tests inject a seeded one.
	Rng *rand.Rand

	// Dispatcher receives lifecycle events when non-nil.
	Dispatcher *events.Dispatcher
}

// New creates a draft from an assembly, opening the first pack for every
// seat and populating the step queue from the format.
func New(f format.Format, asm *packs.Assembly, owners []Owner, opts Options) (*Draft, error) {
	if asm == nil || len(asm.Packs) == 0 {
		return nil, fmt.Errorf("unable to create draft: empty assembly")
	}
	if len(owners) != len(asm.Packs) {
		return nil, fmt.Errorf("unable to create draft: %d owners for %d seats", len(owners), len(asm.Packs))
	}
	packCount := len(f.Packs)
	for seat, allocation := range asm.Packs {
		if len(allocation) != packCount {
			return nil, fmt.Errorf("unable to create draft: seat %d has %d packs, format has %d",
				seat, len(allocation), packCount)
		}
	}

	rng := opts.Rng
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	d := &Draft{
		ID:           uuid.New(),
		CubeID:       opts.CubeID,
		Cards:        asm.Cards,
		InitialState: asm.Packs,
		Seats:        make([]Seat, len(owners)),
		Queue:        f.StepQueue(),
		PackNumber:   1,
		PickNumber:   1,
		packCount:    packCount,
		rng:          rng,
		dispatcher:   opts.Dispatcher,
		needsRatings: true,
	}

	for i, owner := range owners {
		d.Seats[i] = Seat{
			Owner:     owner,
			Pack:      cloneRefs(asm.Packs[i][0]),
			Mainboard: grid.New(),
			Sideboard: grid.New(),
		}
	}

	d.emit(events.TypeDraftCreated, events.DraftCreated{
		DraftID: d.ID,
		CubeID:  d.CubeID,
		Seats:   len(d.Seats),
		Packs:   packCount,
	})
	return d, nil
}

// CurrentStep returns the head of the step queue.
func (d *Draft) CurrentStep() (format.Step, bool) {
	if len(d.Queue) == 0 {
		return format.Step{}, false
	}
	return d.Queue[0], true
}

// NeedsRatings reports whether the current packs' contents have no fresh
// prediction yet: at creation and after every pack open.
func (d *Draft) NeedsRatings() bool {
	return d.needsRatings
}

// SetSeatRatings installs the last-fetched ratings for a seat, keyed by
// oracle ID.
func (d *Draft) SetSeatRatings(seat int, ratings map[string]float64) {
	if seat < 0 || seat >= len(d.Seats) {
		return
	}
	d.Seats[seat].ratings = ratings
}

// RatingsResolved marks the outstanding prediction as settled, whether it
// succeeded or fell back.
func (d *Draft) RatingsResolved() {
	d.needsRatings = false
}

// SeatSnapshot is one seat's view for a prediction request.
type SeatSnapshot struct {
	Pack  []string
	Picks []string
}

// Snapshot returns every seat's pack and pick oracle IDs in seat order,
// the shape the rating service consumes.
func (d *Draft) Snapshot() []SeatSnapshot {
	snapshots := make([]SeatSnapshot, len(d.Seats))
	for i := range d.Seats {
		snapshots[i] = SeatSnapshot{
			Pack:  d.oracleIDs(d.Seats[i].Pack),
			Picks: d.oracleIDs(d.Seats[i].Picks),
		}
	}
	return snapshots
}

func (d *Draft) oracleIDs(refs []cards.Ref) []string {
	ids := make([]string, len(refs))
	for i, ref := range refs {
		ids[i] = d.Cards[ref].OracleID
	}
	return ids
}

func (d *Draft) emit(eventType string, data any) {
	if d.dispatcher == nil {
		return
	}
	d.dispatcher.Dispatch(events.Event{Type: eventType, Data: data})
}

func cloneRefs(refs []cards.Ref) []cards.Ref {
	out := make([]cards.Ref, len(refs))
	copy(out, refs)
	return out
}
