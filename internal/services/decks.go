package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"flash-gen/internal/models"
)

// ErrDeckNotFound is returned when a deck id or name does not exist.
var ErrDeckNotFound = errors.New("deck not found")

// DeckService manages the named decks generated cards are filed under.
type DeckService struct {
	db *sql.DB
}

func NewDeckService(db *sql.DB) *DeckService {
	return &DeckService{db: db}
}

func (s *DeckService) ListDecks(ctx context.Context) ([]models.Deck, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT d.id, d.name, d.language, COUNT(c.id), d.created_at, d.updated_at
		FROM decks d
		LEFT JOIN cards c ON c.deck_id = d.id
		GROUP BY d.id
		ORDER BY d.name ASC;
	`)
	if err != nil {
		return nil, fmt.Errorf("query decks: %w", err)
	}
	defer rows.Close()

	var out []models.Deck
	for rows.Next() {
		var deck models.Deck
		if err := rows.Scan(&deck.ID, &deck.Name, &deck.Language, &deck.CardCount, &deck.CreatedAt, &deck.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan deck: %w", err)
		}
		out = append(out, deck)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate decks: %w", err)
	}
	return out, nil
}

func (s *DeckService) GetDeck(ctx context.Context, id int64) (*models.Deck, error) {
	var deck models.Deck
	err := s.db.QueryRowContext(ctx, `
		SELECT d.id, d.name, d.language, (SELECT COUNT(*) FROM cards WHERE deck_id = d.id), d.created_at, d.updated_at
		FROM decks d WHERE d.id = ?;
	`, id).Scan(&deck.ID, &deck.Name, &deck.Language, &deck.CardCount, &deck.CreatedAt, &deck.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("deck %d: %w", id, ErrDeckNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select deck %d: %w", id, err)
	}
	return &deck, nil
}

// TouchDeck returns the deck called name, creating it when missing. A
// non-empty language replaces the stored one.
func (s *DeckService) TouchDeck(ctx context.Context, name, language string) (*models.Deck, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("touch deck: empty name")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	var deck models.Deck
	err = tx.QueryRowContext(ctx, `
		SELECT id, name, language, created_at, updated_at FROM decks WHERE name = ?;
	`, name).Scan(&deck.ID, &deck.Name, &deck.Language, &deck.CreatedAt, &deck.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		lang := language
		if lang == "" {
			lang = "french"
		}
		res, execErr := tx.ExecContext(ctx, `
			INSERT INTO decks (name, language, created_at, updated_at) VALUES (?, ?, ?, ?);
		`, name, lang, now, now)
		if execErr != nil {
			err = execErr
			return nil, fmt.Errorf("insert deck %s: %w", name, execErr)
		}
		id, _ := res.LastInsertId()
		deck = models.Deck{ID: id, Name: name, Language: lang, CreatedAt: now, UpdatedAt: now}
		err = nil
	} else if err != nil {
		return nil, fmt.Errorf("select deck %s: %w", name, err)
	}

	if language != "" && deck.Language != language {
		if _, err = tx.ExecContext(ctx, `
			UPDATE decks SET language = ?, updated_at = ? WHERE id = ?;
		`, language, now, deck.ID); err != nil {
			return nil, fmt.Errorf("update deck language: %w", err)
		}
		deck.Language = language
		deck.UpdatedAt = now
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit deck touch: %w", err)
	}
	return &deck, nil
}

// CardsForDeck lists the cards of a deck, most relevant first.
func (s *DeckService) CardsForDeck(ctx context.Context, deckID int64) ([]models.Card, error) {
	if _, err := s.GetDeck(ctx, deckID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, cardSelect+`
		WHERE c.deck_id = ?
		ORDER BY c.relevance_score DESC, c.id ASC;
	`, deckID)
	if err != nil {
		return nil, fmt.Errorf("query deck cards: %w", err)
	}
	defer rows.Close()

	var out []models.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deck cards: %w", err)
	}
	return out, nil
}
