package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"flash-gen/internal/db"
	"flash-gen/internal/flashcards"
	"flash-gen/internal/models"
)

// ErrEmptyDocument is returned when a document has no extractable text.
var ErrEmptyDocument = errors.New("document has no text")

// ProgressCallback is called during document processing to report progress
type ProgressCallback func(step, message string, current, total int)

// IngestRequest describes where generated cards go and how they are made.
type IngestRequest struct {
	Deck    string
	Options flashcards.Options
}

// IngestResult is the outcome of generating cards into a deck.
type IngestResult struct {
	Deck      *models.Deck
	Mode      flashcards.Mode
	Truncated bool
	Pages     int
	Generated []flashcards.Card
	Cards     []models.Card
}

// IngestionService coordinates text extraction, card generation and persistence.
type IngestionService struct {
	documents *DocumentService
	text      *TextService
	generator *flashcards.Generator
	decks     *DeckService
	cards     *FlashcardService
	logger    *slog.Logger
}

func NewIngestionService(
	documents *DocumentService,
	text *TextService,
	generator *flashcards.Generator,
	decks *DeckService,
	cards *FlashcardService,
	logger *slog.Logger,
) *IngestionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &IngestionService{
		documents: documents,
		text:      text,
		generator: generator,
		decks:     decks,
		cards:     cards,
		logger:    logger,
	}
}

func (s *IngestionService) ProcessDocument(ctx context.Context, doc *models.Document, req IngestRequest) (*IngestResult, error) {
	return s.ProcessDocumentWithProgress(ctx, doc, req, nil)
}

func (s *IngestionService) ProcessDocumentWithProgress(ctx context.Context, doc *models.Document, req IngestRequest, progress ProgressCallback) (*IngestResult, error) {
	report := func(step, message string, current int) {
		if progress != nil {
			progress(step, message, current, 100)
		}
	}

	report("extract", fmt.Sprintf("Reading %s", doc.OriginalName), 0)
	extraction, err := s.text.Extract(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", doc.OriginalName, err)
	}
	if extraction.Pages > 0 {
		if err := s.documents.UpdatePageCount(ctx, doc.ID, extraction.Pages); err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(extraction.Text) == "" {
		return nil, fmt.Errorf("%s: %w", doc.OriginalName, ErrEmptyDocument)
	}

	report("generate", "Generating flashcards", 40)
	result, err := s.GenerateIntoDeck(ctx, extraction.Text, req, sql.NullInt64{Int64: doc.ID, Valid: true})
	if err != nil {
		return nil, err
	}
	result.Pages = extraction.Pages

	report("complete", fmt.Sprintf("Saved %d cards to %s", len(result.Cards), result.Deck.Name), 100)
	s.logger.Info("document ingested",
		"document_id", doc.ID,
		"deck", result.Deck.Name,
		"mode", result.Mode,
		"cards", len(result.Cards),
	)
	return result, nil
}

// GenerateIntoDeck runs the generator over text and stores the cards in the
// requested deck, falling back to the default deck.
func (s *IngestionService) GenerateIntoDeck(ctx context.Context, text string, req IngestRequest, documentID sql.NullInt64) (*IngestResult, error) {
	generated := s.generator.GenerateWithMeta(text, req.Options)

	name := strings.TrimSpace(req.Deck)
	if name == "" {
		name = db.DefaultDeck
	}
	deck, err := s.decks.TouchDeck(ctx, name, string(req.Options.Language))
	if err != nil {
		return nil, fmt.Errorf("touch deck %s: %w", name, err)
	}

	stored, err := s.cards.BulkInsertCards(ctx, deck.ID, documentID, generated.Cards)
	if err != nil {
		return nil, fmt.Errorf("insert cards for deck %s: %w", name, err)
	}
	if fresh, err := s.decks.GetDeck(ctx, deck.ID); err == nil {
		deck = fresh
	}

	return &IngestResult{
		Deck:      deck,
		Mode:      generated.Mode,
		Truncated: generated.Truncated,
		Generated: generated.Cards,
		Cards:     stored,
	}, nil
}
