package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// DraftRecord is one archived draft.
type DraftRecord struct {
	ID          string
	CubeID      string
	Seats       int
	Packs       int
	CardsJSON   string
	Completed   bool
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// DeckRecord is one seat's constructed deck. Grid columns hold the JSON
// serialization of the deck grids.
type DeckRecord struct {
	DraftID       string
	Seat          int
	OwnerName     string
	Bot           bool
	MainboardJSON string
	SideboardJSON string
	Colors        string
	CreatedAt     time.Time
}

// DraftRepository handles database operations for archived drafts.
type DraftRepository interface {
	// CreateDraft inserts a new draft record.
	CreateDraft(ctx context.Context, draft *DraftRecord) error

	// MarkCompleted sets a draft's completion flag and timestamp.
	MarkCompleted(ctx context.Context, draftID string, completedAt time.Time) error

	// GetDraft retrieves a draft by its ID.
	GetDraft(ctx context.Context, draftID string) (*DraftRecord, error)

	// ListDrafts retrieves all drafts for a cube, newest first.
	ListDrafts(ctx context.Context, cubeID string) ([]*DraftRecord, error)

	// SaveDeck inserts or replaces one seat's deck.
	SaveDeck(ctx context.Context, deck *DeckRecord) error

	// GetDeck retrieves one seat's deck.
	GetDeck(ctx context.Context, draftID string, seat int) (*DeckRecord, error)

	// GetDecks retrieves every deck of a draft in seat order.
	GetDecks(ctx context.Context, draftID string) ([]*DeckRecord, error)

	// DeleteDraft deletes a draft and its decks.
	DeleteDraft(ctx context.Context, draftID string) error
}

// draftRepository is the concrete implementation of DraftRepository.
type draftRepository struct {
	db *sql.DB
}

// NewDraftRepository creates a new draft repository.
func NewDraftRepository(db *sql.DB) DraftRepository {
	return &draftRepository{db: db}
}

// CreateDraft inserts a new draft record.
func (r *draftRepository) CreateDraft(ctx context.Context, draft *DraftRecord) error {
	query := `
		INSERT INTO drafts (
			id, cube_id, seats, packs, cards, completed, created_at, completed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		draft.ID,
		draft.CubeID,
		draft.Seats,
		draft.Packs,
		draft.CardsJSON,
		draft.Completed,
		draft.CreatedAt,
		draft.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create draft: %w", err)
	}

	return nil
}

// MarkCompleted sets a draft's completion flag and timestamp.
func (r *draftRepository) MarkCompleted(ctx context.Context, draftID string, completedAt time.Time) error {
	query := `UPDATE drafts SET completed = 1, completed_at = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, completedAt, draftID)
	if err != nil {
		return fmt.Errorf("failed to mark draft completed: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// GetDraft retrieves a draft by its ID.
func (r *draftRepository) GetDraft(ctx context.Context, draftID string) (*DraftRecord, error) {
	query := `
		SELECT id, cube_id, seats, packs, cards, completed, created_at, completed_at
		FROM drafts WHERE id = ?
	`

	var draft DraftRecord
	err := r.db.QueryRowContext(ctx, query, draftID).Scan(
		&draft.ID,
		&draft.CubeID,
		&draft.Seats,
		&draft.Packs,
		&draft.CardsJSON,
		&draft.Completed,
		&draft.CreatedAt,
		&draft.CompletedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}

	return &draft, nil
}

// ListDrafts retrieves all drafts for a cube, newest first.
func (r *draftRepository) ListDrafts(ctx context.Context, cubeID string) ([]*DraftRecord, error) {
	query := `
		SELECT id, cube_id, seats, packs, cards, completed, created_at, completed_at
		FROM drafts WHERE cube_id = ?
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, cubeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var drafts []*DraftRecord
	for rows.Next() {
		var draft DraftRecord
		if err := rows.Scan(
			&draft.ID,
			&draft.CubeID,
			&draft.Seats,
			&draft.Packs,
			&draft.CardsJSON,
			&draft.Completed,
			&draft.CreatedAt,
			&draft.CompletedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan draft: %w", err)
		}
		drafts = append(drafts, &draft)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate drafts: %w", err)
	}

	return drafts, nil
}

// SaveDeck inserts or replaces one seat's deck.
func (r *draftRepository) SaveDeck(ctx context.Context, deck *DeckRecord) error {
	query := `
		INSERT OR REPLACE INTO decks (
			draft_id, seat, owner_name, bot, mainboard, sideboard, colors, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		deck.DraftID,
		deck.Seat,
		deck.OwnerName,
		deck.Bot,
		deck.MainboardJSON,
		deck.SideboardJSON,
		deck.Colors,
		deck.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save deck: %w", err)
	}

	return nil
}

// GetDeck retrieves one seat's deck.
func (r *draftRepository) GetDeck(ctx context.Context, draftID string, seat int) (*DeckRecord, error) {
	query := `
		SELECT draft_id, seat, owner_name, bot, mainboard, sideboard, colors, created_at
		FROM decks WHERE draft_id = ? AND seat = ?
	`

	var deck DeckRecord
	err := r.db.QueryRowContext(ctx, query, draftID, seat).Scan(
		&deck.DraftID,
		&deck.Seat,
		&deck.OwnerName,
		&deck.Bot,
		&deck.MainboardJSON,
		&deck.SideboardJSON,
		&deck.Colors,
		&deck.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get deck: %w", err)
	}

	return &deck, nil
}

// GetDecks retrieves every deck of a draft in seat order.
func (r *draftRepository) GetDecks(ctx context.Context, draftID string) ([]*DeckRecord, error) {
	query := `
		SELECT draft_id, seat, owner_name, bot, mainboard, sideboard, colors, created_at
		FROM decks WHERE draft_id = ?
		ORDER BY seat ASC
	`

	rows, err := r.db.QueryContext(ctx, query, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to get decks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var decks []*DeckRecord
	for rows.Next() {
		var deck DeckRecord
		if err := rows.Scan(
			&deck.DraftID,
			&deck.Seat,
			&deck.OwnerName,
			&deck.Bot,
			&deck.MainboardJSON,
			&deck.SideboardJSON,
			&deck.Colors,
			&deck.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan deck: %w", err)
		}
		decks = append(decks, &deck)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate decks: %w", err)
	}

	return decks, nil
}

// DeleteDraft deletes a draft and its decks.
func (r *draftRepository) DeleteDraft(ctx context.Context, draftID string) error {
	query := `DELETE FROM drafts WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, draftID)
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}
