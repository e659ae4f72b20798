package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	fsrs "github.com/open-spaced-repetition/go-fsrs"

	"flash-gen/internal/flashcards"
	"flash-gen/internal/models"
)

var (
	// ErrNoDueCards indicates that there are no cards ready to review.
	ErrNoDueCards = errors.New("no due cards")
	// ErrCardNotFound is returned when a card id does not exist.
	ErrCardNotFound = errors.New("card not found")
)

const workingQueueSize = 20

const cardSelect = `
	SELECT c.id, c.deck_id, c.source_document_id, c.question, c.answer, c.card_type, c.level,
		   c.relevance_score, c.due, c.stability, c.difficulty, c.elapsed_days, c.scheduled_days,
		   c.reps, c.lapses, c.state, c.last_review, c.working_queue_position, c.created_at, c.updated_at,
		   dk.name, d.original_name
	FROM cards c
	LEFT JOIN decks dk ON c.deck_id = dk.id
	LEFT JOIN documents d ON c.source_document_id = d.id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*models.Card, error) {
	card := &models.Card{}
	if err := row.Scan(
		&card.ID,
		&card.DeckID,
		&card.SourceDocumentID,
		&card.Question,
		&card.Answer,
		&card.CardType,
		&card.Level,
		&card.RelevanceScore,
		&card.Due,
		&card.Stability,
		&card.Difficulty,
		&card.ElapsedDays,
		&card.ScheduledDays,
		&card.Reps,
		&card.Lapses,
		&card.State,
		&card.LastReview,
		&card.WorkingQueuePosition,
		&card.CreatedAt,
		&card.UpdatedAt,
		&card.DeckName,
		&card.SourceDocumentRef,
	); err != nil {
		return nil, err
	}
	return card, nil
}

// FlashcardService orchestrates card scheduling and persistence with FSRS.
type FlashcardService struct {
	db     *sql.DB
	params fsrs.Parameters
	now    func() time.Time
}

func NewFlashcardService(db *sql.DB) *FlashcardService {
	return &FlashcardService{
		db:     db,
		params: fsrs.DefaultParam(),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// NextCard returns the next card to review. Cards in the working queue come
// first, then due cards, then the oldest unseen card.
func (s *FlashcardService) NextCard(ctx context.Context) (*models.Card, error) {
	card, err := scanCard(s.db.QueryRowContext(ctx, cardSelect+`
		WHERE c.working_queue_position IS NOT NULL
		ORDER BY c.working_queue_position ASC
		LIMIT 1;
	`))
	if err == nil {
		return card, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("query working queue: %w", err)
	}

	card, err = scanCard(s.db.QueryRowContext(ctx, cardSelect+`
		WHERE c.due IS NOT NULL AND c.due <= ? AND c.working_queue_position IS NULL AND c.reps > 0
		ORDER BY c.due ASC
		LIMIT 1;
	`, s.now()))
	if err == nil {
		return card, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("query due cards: %w", err)
	}

	card, err = scanCard(s.db.QueryRowContext(ctx, cardSelect+`
		WHERE c.reps = 0 AND c.working_queue_position IS NULL
		ORDER BY c.relevance_score DESC, c.created_at ASC, c.id ASC
		LIMIT 1;
	`))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoDueCards
		}
		return nil, fmt.Errorf("query unseen cards: %w", err)
	}
	return card, nil
}

func (s *FlashcardService) GetCard(ctx context.Context, id int64) (*models.Card, error) {
	card, err := scanCard(s.db.QueryRowContext(ctx, cardSelect+` WHERE c.id = ?;`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("card %d: %w", id, ErrCardNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load card %d: %w", id, err)
	}
	return card, nil
}

// ReviewCard updates the scheduling information based on the user's rating.
// Cards rated Again enter the working queue; any other rating removes them.
func (s *FlashcardService) ReviewCard(ctx context.Context, cardID int64, rating fsrs.Rating) (*models.Card, *models.ReviewLog, error) {
	if rating < fsrs.Again || rating > fsrs.Easy {
		return nil, nil, fmt.Errorf("rating %d not supported", rating)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	card, err := scanCard(tx.QueryRowContext(ctx, cardSelect+` WHERE c.id = ?;`, cardID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("card %d: %w", cardID, ErrCardNotFound)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load card %d: %w", cardID, err)
	}

	now := s.now()
	info := s.params.Repeat(card.ToFSRSCard(), now)[rating]
	card.ApplyFSRSCard(info.Card)
	card.UpdatedAt = now

	if rating == fsrs.Again {
		err = s.addToWorkingQueue(ctx, tx, cardID)
	} else {
		err = s.removeFromWorkingQueue(ctx, tx, cardID)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("update working queue: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `
		UPDATE cards
		SET due = ?, stability = ?, difficulty = ?, elapsed_days = ?, scheduled_days = ?,
		    reps = ?, lapses = ?, state = ?, last_review = ?, updated_at = ?
		WHERE id = ?;
	`,
		nullTimePtr(card.Due),
		card.Stability,
		card.Difficulty,
		card.ElapsedDays,
		card.ScheduledDays,
		card.Reps,
		card.Lapses,
		card.State,
		nullTimePtr(card.LastReview),
		card.UpdatedAt,
		card.ID,
	); err != nil {
		return nil, nil, fmt.Errorf("update card %d: %w", card.ID, err)
	}

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO review_logs (card_id, rating, scheduled_days, elapsed_days, state, reviewed_at)
		VALUES (?, ?, ?, ?, ?, ?);
	`, card.ID, info.ReviewLog.Rating, info.ReviewLog.ScheduledDays, info.ReviewLog.ElapsedDays, info.ReviewLog.State, now); err != nil {
		return nil, nil, fmt.Errorf("insert review log: %w", err)
	}

	if err = tx.QueryRowContext(ctx, `SELECT working_queue_position FROM cards WHERE id = ?;`, card.ID).Scan(&card.WorkingQueuePosition); err != nil {
		return nil, nil, fmt.Errorf("reload queue position: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit review: %w", err)
	}

	log := &models.ReviewLog{
		CardID:        card.ID,
		Rating:        int(info.ReviewLog.Rating),
		ScheduledDays: int(info.ReviewLog.ScheduledDays),
		ElapsedDays:   int(info.ReviewLog.ElapsedDays),
		State:         int(info.ReviewLog.State),
		ReviewedAt:    now,
	}
	return card, log, nil
}

// addToWorkingQueue appends a card to the working queue. When the queue is
// full the oldest entry leaves it.
func (s *FlashcardService) addToWorkingQueue(ctx context.Context, tx *sql.Tx, cardID int64) error {
	var existing sql.NullInt64
	if err := tx.QueryRowContext(ctx, "SELECT working_queue_position FROM cards WHERE id = ?", cardID).Scan(&existing); err != nil {
		return fmt.Errorf("check existing position: %w", err)
	}
	if existing.Valid {
		return nil
	}

	var maxPosition sql.NullInt64
	if err := tx.QueryRowContext(ctx, "SELECT MAX(working_queue_position) FROM cards WHERE working_queue_position IS NOT NULL").Scan(&maxPosition); err != nil {
		return fmt.Errorf("get max position: %w", err)
	}
	position := int64(1)
	if maxPosition.Valid {
		position = maxPosition.Int64 + 1
	}

	if position > workingQueueSize {
		if _, err := tx.ExecContext(ctx, `
			UPDATE cards SET working_queue_position = NULL
			WHERE id = (SELECT id FROM cards WHERE working_queue_position IS NOT NULL ORDER BY working_queue_position ASC LIMIT 1);
		`); err != nil {
			return fmt.Errorf("drop oldest queued card: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "UPDATE cards SET working_queue_position = working_queue_position - 1 WHERE working_queue_position IS NOT NULL"); err != nil {
			return fmt.Errorf("shift positions: %w", err)
		}
		position = workingQueueSize
	}

	if _, err := tx.ExecContext(ctx, "UPDATE cards SET working_queue_position = ? WHERE id = ?", position, cardID); err != nil {
		return fmt.Errorf("add card to queue: %w", err)
	}
	return nil
}

func (s *FlashcardService) removeFromWorkingQueue(ctx context.Context, tx *sql.Tx, cardID int64) error {
	var position sql.NullInt64
	if err := tx.QueryRowContext(ctx, "SELECT working_queue_position FROM cards WHERE id = ?", cardID).Scan(&position); err != nil {
		return fmt.Errorf("get card position: %w", err)
	}
	if !position.Valid {
		return nil
	}
	if _, err := tx.ExecContext(ctx, "UPDATE cards SET working_queue_position = NULL WHERE id = ?", cardID); err != nil {
		return fmt.Errorf("remove card from queue: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "UPDATE cards SET working_queue_position = working_queue_position - 1 WHERE working_queue_position > ?", position.Int64); err != nil {
		return fmt.Errorf("shift positions down: %w", err)
	}
	return nil
}

// BulkInsertCards stores generated cards in a deck, optionally linked to the
// document they came from. New cards are due immediately.
func (s *FlashcardService) BulkInsertCards(ctx context.Context, deckID int64, documentID sql.NullInt64, cards []flashcards.Card) ([]models.Card, error) {
	if len(cards) == 0 {
		return nil, nil
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

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO cards (deck_id, source_document_id, question, answer, card_type, level, relevance_score,
		                   due, state, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return nil, fmt.Errorf("prepare card insert: %w", err)
	}
	defer stmt.Close()

	now := s.now()
	stored := make([]models.Card, 0, len(cards))
	for _, proto := range cards {
		card := models.Card{
			DeckID:           deckID,
			SourceDocumentID: documentID,
			Question:         proto.Question,
			Answer:           proto.Answer,
			CardType:         string(proto.Type),
			Level:            string(proto.Difficulty),
			RelevanceScore:   proto.RelevanceScore,
			Due:              sql.NullTime{Time: now, Valid: true},
			State:            int(fsrs.New),
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		var res sql.Result
		if res, err = stmt.ExecContext(ctx,
			card.DeckID,
			nullInt64Ptr(card.SourceDocumentID),
			card.Question,
			card.Answer,
			card.CardType,
			card.Level,
			card.RelevanceScore,
			nullTimePtr(card.Due),
			card.State,
			card.CreatedAt,
			card.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("insert card %q: %w", card.Question, err)
		}
		card.ID, _ = res.LastInsertId()
		stored = append(stored, card)
	}

	if _, err = tx.ExecContext(ctx, `UPDATE decks SET updated_at = ? WHERE id = ?;`, now, deckID); err != nil {
		return nil, fmt.Errorf("touch deck %d: %w", deckID, err)
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit bulk insert: %w", err)
	}
	return stored, nil
}

// ListCards returns the most recently created cards, restricted to one deck
// when deckID is positive.
func (s *FlashcardService) ListCards(ctx context.Context, deckID int64, limit int) ([]models.Card, error) {
	if limit <= 0 {
		limit = 100
	}
	query := cardSelect
	args := []any{}
	if deckID > 0 {
		query += ` WHERE c.deck_id = ?`
		args = append(args, deckID)
	}
	query += ` ORDER BY c.created_at DESC, c.id DESC LIMIT ?;`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query cards: %w", err)
	}
	defer rows.Close()

	var out []models.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		out = append(out, *card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cards: %w", err)
	}
	return out, nil
}

// Stats summarizes the review queue.
func (s *FlashcardService) Stats(ctx context.Context) (models.ReviewStats, error) {
	now := s.now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var stats models.ReviewStats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN reps > 0 AND due IS NOT NULL AND due <= ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN reps = 0 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN working_queue_position IS NOT NULL THEN 1 ELSE 0 END), 0)
		FROM cards;
	`, now).Scan(&stats.TotalCards, &stats.DueCards, &stats.NewCards, &stats.WorkingQueue)
	if err != nil {
		return models.ReviewStats{}, fmt.Errorf("count cards: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM review_logs WHERE reviewed_at >= ?;
	`, startOfDay).Scan(&stats.ReviewsToday); err != nil {
		return models.ReviewStats{}, fmt.Errorf("count reviews: %w", err)
	}
	return stats, nil
}

func nullTimePtr(t sql.NullTime) any {
	if t.Valid {
		return t.Time
	}
	return nil
}

func nullInt64Ptr(v sql.NullInt64) any {
	if v.Valid {
		return v.Int64
	}
	return nil
}
