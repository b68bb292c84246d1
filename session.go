package cubedraft

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/cubeforge/cubedraft/internal/botclient"
	"github.com/cubeforge/cubedraft/internal/deckbuild"
	"github.com/cubeforge/cubedraft/internal/engine"
	"github.com/cubeforge/cubedraft/internal/events"
	"github.com/cubeforge/cubedraft/internal/packs"
	"github.com/cubeforge/cubedraft/internal/storage"
)

// SessionConfig configures a draft session.
type SessionConfig struct {
	// CubeID identifies the cube being drafted.
	CubeID string

	// Bot is the rating service client. Nil disables predictions; bot
	// seats then select uniformly at random.
	Bot botclient.Client

	// Repo is the persistence collaborator. Nil disables archiving.
	Repo storage.DraftRepository

	// Dispatcher receives draft lifecycle events when non-nil.
	Dispatcher *events.Dispatcher

	// Rng seeds pack assembly and the random-selection fallback.
	// Defaults to a time-seeded source.
	Rng *rand.Rand

	// ColorPolicy derives deck colors at completion. Nil uses the
	// pip-presence default.
	ColorPolicy deckbuild.ColorPolicy
}

type pendingPick struct {
	packPos int
	gridded bool
}

// Session orchestrates one draft for a single human seat: it owns the
// engine state, fetches ratings for bot seats, and buffers the human's
// pick when a ratings request is still outstanding so bots never act on
// stale ratings and the step queue advances exactly once per action.
type Session struct {
	mu        sync.Mutex
	draft     *engine.Draft
	bot       botclient.Client
	repo      storage.DraftRepository
	policy    deckbuild.ColorPolicy
	humanSeat int
	fetching  bool
	pending   *pendingPick
}

// NewSession assembles packs, creates the draft, and starts the first
// ratings fetch. The human seat is the first non-bot owner.
func NewSession(ctx context.Context, f Format, pool []Card, owners []Owner, cfg SessionConfig) (*Session, error) {
	rng := cfg.Rng
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	asm, err := packs.Assemble(f, pool, len(owners), rng)
	if err != nil {
		return nil, err
	}
	draft, err := engine.New(f, asm, owners, engine.Options{
		CubeID:     cfg.CubeID,
		Rng:        rng,
		Dispatcher: cfg.Dispatcher,
	})
	if err != nil {
		return nil, err
	}

	humanSeat := 0
	for i, owner := range owners {
		if !owner.Bot {
			humanSeat = i
			break
		}
	}

	s := &Session{
		draft:     draft,
		bot:       cfg.Bot,
		repo:      cfg.Repo,
		policy:    cfg.ColorPolicy,
		humanSeat: humanSeat,
	}

	if s.repo != nil {
		cardsJSON, err := json.Marshal(draft.Cards)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize draft cards: %w", err)
		}
		record := &storage.DraftRecord{
			ID:        draft.ID.String(),
			CubeID:    cfg.CubeID,
			Seats:     len(owners),
			Packs:     len(f.Packs),
			CardsJSON: string(cardsJSON),
			CreatedAt: time.Now().UTC(),
		}
		if err := s.repo.CreateDraft(ctx, record); err != nil {
			return nil, fmt.Errorf("failed to archive draft: %w", err)
		}
	}

	s.mu.Lock()
	s.startFetchLocked(ctx)
	s.mu.Unlock()

	return s, nil
}

// Draft returns the underlying draft. Callers must treat it as read-only;
// all mutation goes through Submit.
func (s *Session) Draft() *engine.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// HumanSeat returns the seat index the session submits actions for.
func (s *Session) HumanSeat() int {
	return s.humanSeat
}

// Completed reports whether the draft has finished.
func (s *Session) Completed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Completed
}

// PendingPick returns the buffered pack position, if any.
func (s *Session) PendingPick() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return 0, false
	}
	return s.pending.packPos, true
}

// Submit applies the human seat's choice of the card at packPos. If a
// ratings request is outstanding the choice is buffered, reflected
// optimistically in the seat's mainboard, and committed when the request
// resolves; the buffered choice commits even if the request fails, with
// bot seats falling back to random selection.
func (s *Session) Submit(ctx context.Context, packPos int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft.Completed {
		return &engine.InvalidTransitionError{Reason: "draft is completed"}
	}

	if s.fetching {
		if s.pending != nil {
			return &engine.InvalidTransitionError{Reason: "an action is already pending"}
		}
		step, ok := s.draft.CurrentStep()
		if !ok || !step.Selects() {
			return &engine.InvalidTransitionError{Reason: "current step does not accept an action"}
		}
		if !step.Random() && (packPos < 0 || packPos >= len(s.draft.Seats[s.humanSeat].Pack)) {
			return &engine.InvalidTransitionError{
				Reason: fmt.Sprintf("pack position %d out of range", packPos),
			}
		}

		pending := &pendingPick{packPos: packPos}
		if !step.Random() && !step.IsTrash() {
			seat := &s.draft.Seats[s.humanSeat]
			ref := seat.Pack[packPos]
			seat.Mainboard = seat.Mainboard.AddDefault(s.draft.Cards[ref], ref)
			pending.gridded = true
		}
		s.pending = pending
		return nil
	}

	return s.applyLocked(ctx, packPos, false)
}

// applyLocked runs one engine transition for the human seat and keeps the
// seat's mainboard grid in sync with its picks.
func (s *Session) applyLocked(ctx context.Context, packPos int, skipGrid bool) error {
	step, _ := s.draft.CurrentStep()
	if err := s.draft.Apply(s.humanSeat, packPos); err != nil {
		return err
	}

	if !skipGrid && !step.IsTrash() {
		seat := &s.draft.Seats[s.humanSeat]
		if len(seat.Picks) > 0 {
			ref := seat.Picks[0]
			seat.Mainboard = seat.Mainboard.AddDefault(s.draft.Cards[ref], ref)
		}
	}

	// Refresh ratings after every applied action, not only at pack opens,
	// so bot seats never act on a stale pack snapshot.
	if !s.draft.Completed {
		s.startFetchLocked(ctx)
	}
	return nil
}

// startFetchLocked launches an asynchronous ratings request for the
// current packs. Callers hold s.mu.
func (s *Session) startFetchLocked(ctx context.Context) {
	if s.bot == nil {
		s.draft.RatingsResolved()
		return
	}
	if s.fetching {
		return
	}
	s.fetching = true

	snapshots := s.draft.Snapshot()
	req := botclient.Request{Inputs: make([]botclient.SeatState, len(snapshots))}
	for i, snap := range snapshots {
		req.Inputs[i] = botclient.SeatState{Pack: snap.Pack, Picks: snap.Picks}
	}

	go func() {
		resp, err := s.bot.Predict(ctx, req)

		s.mu.Lock()
		defer s.mu.Unlock()

		if err != nil {
			log.Printf("[Session] Prediction unavailable, bots fall back to random: %v", err)
		} else {
			for seat := range s.draft.Seats {
				s.draft.SetSeatRatings(seat, resp.SeatRatings(seat))
			}
		}
		s.draft.RatingsResolved()
		s.fetching = false

		if s.pending != nil {
			pending := s.pending
			s.pending = nil
			if err := s.applyLocked(ctx, pending.packPos, pending.gridded); err != nil {
				log.Printf("[Session] Failed to commit buffered pick: %v", err)
			}
		}
	}()
}

// Finish constructs every seat's deck from its finished pick list and
// hands the results to the persistence collaborator. It must be called
// exactly once, after the draft completes.
func (s *Session) Finish(ctx context.Context) ([]*Deck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.draft.Completed {
		return nil, &engine.InvalidTransitionError{Reason: "draft is not completed"}
	}

	decks := make([]*Deck, len(s.draft.Seats))
	for i := range s.draft.Seats {
		deck, err := deckbuild.Build(s.draft.Seats[i].Picks, s.draft.Cards, s.policy)
		if err != nil {
			return nil, fmt.Errorf("failed to build deck for seat %d: %w", i, err)
		}
		decks[i] = deck
	}

	if s.repo != nil {
		now := time.Now().UTC()
		if err := s.repo.MarkCompleted(ctx, s.draft.ID.String(), now); err != nil {
			return nil, fmt.Errorf("failed to mark draft completed: %w", err)
		}
		for i, deck := range decks {
			mainboard, err := json.Marshal(deck.Mainboard)
			if err != nil {
				return nil, fmt.Errorf("failed to serialize mainboard for seat %d: %w", i, err)
			}
			sideboard, err := json.Marshal(deck.Sideboard)
			if err != nil {
				return nil, fmt.Errorf("failed to serialize sideboard for seat %d: %w", i, err)
			}
			record := &storage.DeckRecord{
				DraftID:       s.draft.ID.String(),
				Seat:          i,
				OwnerName:     s.draft.Seats[i].Owner.Name,
				Bot:           s.draft.Seats[i].Owner.Bot,
				MainboardJSON: string(mainboard),
				SideboardJSON: string(sideboard),
				Colors:        strings.Join(deck.Colors, ""),
				CreatedAt:     now,
			}
			if err := s.repo.SaveDeck(ctx, record); err != nil {
				return nil, fmt.Errorf("failed to save deck for seat %d: %w", i, err)
			}
		}
	}

	return decks, nil
}
