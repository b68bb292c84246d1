package engine

import (
	"fmt"

	"github.com/cubeforge/cubedraft/internal/cards"
	"github.com/cubeforge/cubedraft/internal/events"
	"github.com/cubeforge/cubedraft/internal/format"
)

// InvalidTransitionError reports an action the current queue state cannot
// accept. The draft state is unchanged when it is returned.
type InvalidTransitionError struct {
	Reason string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition: %s", e.Reason)
}

// Apply advances the draft by one logical action. The acting seat selects
// the card at packPos in its current pack; every other seat selects
// simultaneously, bots by their last-fetched ratings with a random
// fallback. After all seats move, any pass and end-of-pack steps at the
// head of the queue are consumed before Apply returns.
//
// For random steps packPos is ignored and every seat's selection is drawn
// from the draft's random source.
func (d *Draft) Apply(actingSeat, packPos int) error {
	if d.Completed {
		return &InvalidTransitionError{Reason: "draft is completed"}
	}
	step, ok := d.CurrentStep()
	if !ok {
		return &InvalidTransitionError{Reason: "step queue is exhausted"}
	}
	if !step.Selects() {
		return &InvalidTransitionError{Reason: fmt.Sprintf("current step %q does not accept an action", step.Action)}
	}
	if actingSeat < 0 || actingSeat >= len(d.Seats) {
		return &InvalidTransitionError{Reason: fmt.Sprintf("seat %d out of range", actingSeat)}
	}
	if !step.Random() {
		if packPos < 0 || packPos >= len(d.Seats[actingSeat].Pack) {
			return &InvalidTransitionError{
				Reason: fmt.Sprintf("pack position %d out of range for pack of %d", packPos, len(d.Seats[actingSeat].Pack)),
			}
		}
	}

	// A multi-card step stays at the head until its amount is spent.
	if step.Amount > 1 {
		d.Queue[0].Amount--
	} else {
		d.Queue = d.Queue[1:]
	}

	for i := range d.Seats {
		seat := &d.Seats[i]
		if len(seat.Pack) == 0 {
			continue
		}

		var pos int
		switch {
		case step.Random():
			pos = d.rng.Intn(len(seat.Pack))
		case i == actingSeat:
			pos = packPos
		default:
			pos = d.chooseForSeat(seat)
		}

		ref := seat.Pack[pos]
		seat.Pack = append(seat.Pack[:pos:pos], seat.Pack[pos+1:]...)
		if step.IsTrash() {
			seat.Trashed = append([]cards.Ref{ref}, seat.Trashed...)
		} else {
			seat.Picks = append([]cards.Ref{ref}, seat.Picks...)
		}

		d.emit(events.TypePickApplied, events.PickApplied{
			DraftID:    d.ID,
			Seat:       i,
			Card:       ref,
			PackNumber: d.PackNumber,
			PickNumber: d.PickNumber,
			Trashed:    step.IsTrash(),
		})
	}

	d.consumePadding()
	return nil
}

func (d *Draft) chooseForSeat(seat *Seat) int {
	best := -1
	var bestRating float64
	for pos, ref := range seat.Pack {
		rating, ok := seat.ratings[d.Cards[ref].OracleID]
		if !ok {
			continue
		}
		if best == -1 || rating > bestRating {
			best = pos
			bestRating = rating
		}
	}
	if best >= 0 {
		return best
	}
	return d.rng.Intn(len(seat.Pack))
}

// consumePadding advances through pass and end-of-pack steps until the
// queue head expects another selection or the draft completes.
func (d *Draft) consumePadding() {
	for len(d.Queue) > 0 {
		switch d.Queue[0].Action {
		case format.ActionPass:
			d.rotatePacks()
			d.PickNumber++
			d.Queue = d.Queue[1:]
		case format.ActionEndPack:
			d.Queue = d.Queue[1:]
			if d.PackNumber < d.packCount {
				d.openNextPack()
			} else {
				d.complete()
				return
			}
		default:
			return
		}
	}
	if !d.Completed {
		d.complete()
	}
}

// rotatePacks hands every seat's pack to its neighbor. Odd-numbered packs
// travel left, even-numbered packs travel right, so over a full draft
// every seat sees every original pack.
func (d *Draft) rotatePacks() {
	n := len(d.Seats)
	passLeft := d.PackNumber%2 == 1
	rotated := make([][]cards.Ref, n)
	for i := range d.Seats {
		if passLeft {
			rotated[i] = d.Seats[(i-1+n)%n].Pack
		} else {
			rotated[i] = d.Seats[(i+1)%n].Pack
		}
	}
	for i := range d.Seats {
		d.Seats[i].Pack = rotated[i]
	}
}

func (d *Draft) openNextPack() {
	next := d.PackNumber
	for i := range d.Seats {
		d.Seats[i].Pack = cloneRefs(d.InitialState[i][next])
		d.Seats[i].ratings = nil
	}
	d.PackNumber++
	d.PickNumber = 1
	d.needsRatings = true
	d.emit(events.TypePackOpened, events.PackOpened{
		DraftID:    d.ID,
		PackNumber: d.PackNumber,
	})
}

func (d *Draft) complete() {
	d.Completed = true
	d.emit(events.TypeDraftCompleted, events.DraftCompleted{DraftID: d.ID})
}
