package services

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	fsrs "github.com/open-spaced-repetition/go-fsrs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flash-gen/internal/db"
	"flash-gen/internal/flashcards"
	"flash-gen/internal/logging"
	"flash-gen/internal/models"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "cards.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sampleCards() []flashcards.Card {
	return []flashcards.Card{
		{Question: "Qu'est-ce que la photosynthèse?", Answer: "un processus biologique", Type: flashcards.TypeDefinition, Difficulty: flashcards.DifficultyMedium, RelevanceScore: 0.9},
		{Question: "Qui est Marie Curie?", Answer: "Marie Curie a découvert le radium.", Type: flashcards.TypeEntity, Difficulty: flashcards.DifficultyEasy, RelevanceScore: 0.4},
	}
}

func TestFormatFor(t *testing.T) {
	tests := map[string]models.DocumentFormat{
		"notes.pdf":      models.FormatPDF,
		"NOTES.PDF":      models.FormatPDF,
		"readme.md":      models.FormatMarkdown,
		"guide.markdown": models.FormatMarkdown,
		"page.html":      models.FormatHTML,
		"page.htm":       models.FormatHTML,
		"words.txt":      models.FormatText,
		"noext":          models.FormatText,
	}
	for name, want := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, want, FormatFor(name))
		})
	}
}

func TestDocumentServiceCreate(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)
	svc := NewDocumentService(conn, filepath.Join(t.TempDir(), "uploads"))

	doc, err := svc.Create(ctx, "cours.md", "", strings.NewReader("# Titre\n"))
	require.NoError(t, err)
	assert.Equal(t, models.FormatMarkdown, doc.Format)
	assert.Equal(t, ".md", filepath.Ext(doc.StoredPath))
	assert.FileExists(t, doc.StoredPath)

	require.NoError(t, svc.UpdatePageCount(ctx, doc.ID, 3))
	loaded, err := svc.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "cours.md", loaded.OriginalName)
	assert.Equal(t, 3, loaded.PageCount)

	_, err = svc.Create(ctx, "x.bin", models.DocumentFormat("binary"), strings.NewReader(""))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = svc.GetByID(ctx, 999)
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestDeckServiceTouchDeck(t *testing.T) {
	ctx := context.Background()
	svc := NewDeckService(openTestDB(t))

	decks, err := svc.ListDecks(ctx)
	require.NoError(t, err)
	require.Len(t, decks, 1)
	assert.Equal(t, db.DefaultDeck, decks[0].Name)

	first, err := svc.TouchDeck(ctx, "  Biologie ", "")
	require.NoError(t, err)
	assert.Equal(t, "Biologie", first.Name)
	assert.Equal(t, "french", first.Language)

	again, err := svc.TouchDeck(ctx, "Biologie", "english")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, "english", again.Language)

	_, err = svc.TouchDeck(ctx, "   ", "")
	assert.Error(t, err)

	_, err = svc.GetDeck(ctx, 12345)
	assert.ErrorIs(t, err, ErrDeckNotFound)

	_, err = svc.CardsForDeck(ctx, 12345)
	assert.ErrorIs(t, err, ErrDeckNotFound)
}

func TestFlashcardServiceReviewCycle(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)
	decks := NewDeckService(conn)
	svc := NewFlashcardService(conn)

	_, err := svc.NextCard(ctx)
	require.ErrorIs(t, err, ErrNoDueCards)

	deck, err := decks.TouchDeck(ctx, "Sciences", "french")
	require.NoError(t, err)
	stored, err := svc.BulkInsertCards(ctx, deck.ID, sql.NullInt64{}, sampleCards())
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.NotZero(t, stored[0].ID)
	assert.Equal(t, "medium", stored[0].Level)

	next, err := svc.NextCard(ctx)
	require.NoError(t, err)
	assert.Equal(t, stored[0].ID, next.ID, "unseen cards are served by relevance")
	assert.Equal(t, "Sciences", next.DeckName.String)

	reviewed, log, err := svc.ReviewCard(ctx, next.ID, fsrs.Again)
	require.NoError(t, err)
	assert.Equal(t, 1, reviewed.Reps)
	assert.True(t, reviewed.WorkingQueuePosition.Valid)
	assert.Equal(t, int(fsrs.Again), log.Rating)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalCards)
	assert.Equal(t, 1, stats.NewCards)
	assert.Equal(t, 1, stats.WorkingQueue)
	assert.Equal(t, 1, stats.ReviewsToday)

	next, err = svc.NextCard(ctx)
	require.NoError(t, err)
	assert.Equal(t, stored[0].ID, next.ID, "working queue comes first")

	reviewed, _, err = svc.ReviewCard(ctx, next.ID, fsrs.Good)
	require.NoError(t, err)
	assert.False(t, reviewed.WorkingQueuePosition.Valid)

	next, err = svc.NextCard(ctx)
	require.NoError(t, err)
	assert.Equal(t, stored[1].ID, next.ID)

	_, _, err = svc.ReviewCard(ctx, 9999, fsrs.Good)
	assert.ErrorIs(t, err, ErrCardNotFound)

	cards, err := decks.CardsForDeck(ctx, deck.ID)
	require.NoError(t, err)
	assert.Len(t, cards, 2)

	listed, err := svc.ListCards(ctx, deck.ID, 1)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestWorkingQueueIsBounded(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)
	svc := NewFlashcardService(conn)
	deck, err := NewDeckService(conn).TouchDeck(ctx, "Queue", "")
	require.NoError(t, err)

	protos := make([]flashcards.Card, workingQueueSize+2)
	for i := range protos {
		protos[i] = flashcards.Card{Question: "q", Answer: "a", Type: flashcards.TypeConcept}
	}
	stored, err := svc.BulkInsertCards(ctx, deck.ID, sql.NullInt64{}, protos)
	require.NoError(t, err)

	for _, card := range stored {
		_, _, err := svc.ReviewCard(ctx, card.ID, fsrs.Again)
		require.NoError(t, err)
	}

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, workingQueueSize, stats.WorkingQueue)

	first, err := svc.GetCard(ctx, stored[0].ID)
	require.NoError(t, err)
	assert.False(t, first.WorkingQueuePosition.Valid, "oldest entry leaves a full queue")
}

func TestMarkdownText(t *testing.T) {
	source := []byte("# Les fruits\n\nLa pomme est un fruit.\nElle pousse sur un arbre.\n\n- pomme\n- poire\n\n```go\nfmt.Println()\n```\n")

	got := markdownText(source)

	assert.Equal(t, "Les fruits\nLa pomme est un fruit.\nElle pousse sur un arbre.\npomme\npoire", got)
}

func TestTextServiceExtract(t *testing.T) {
	svc := NewTextService(nil)
	dir := t.TempDir()

	plain := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(plain, []byte("chat - cat\nchien - dog"), 0o644))
	got, err := svc.ExtractFile(plain, "")
	require.NoError(t, err)
	assert.Equal(t, "chat - cat\nchien - dog", got.Text)
	assert.Equal(t, 1, got.Pages)

	_, err = svc.ExtractBytes([]byte("x"), "x.bin", models.DocumentFormat("binary"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = svc.ExtractFile(filepath.Join(dir, "missing.txt"), "")
	assert.Error(t, err)
}

func TestTextServiceExtractHTML(t *testing.T) {
	page := `<!DOCTYPE html><html><head><title>Cellules</title></head><body>
<nav><a href="/">Accueil</a></nav>
<article>
<h1>La cellule</h1>
<p>La cellule est l'unité fondamentale de la vie. Tous les organismes vivants sont constitués d'une ou de plusieurs cellules, qui assurent les fonctions essentielles du métabolisme.</p>
<p>La mitose est un processus de division cellulaire qui produit deux cellules filles identiques. Elle se déroule en plusieurs phases successives appelées prophase, métaphase, anaphase et télophase.</p>
<p>Les mitochondries produisent l'énergie de la cellule sous forme d'ATP. Elles possèdent leur propre ADN, ce qui suggère une origine bactérienne ancienne selon la théorie endosymbiotique.</p>
</article>
</body></html>`

	got, err := NewTextService(nil).ExtractBytes([]byte(page), "cellule.html", models.FormatHTML)

	require.NoError(t, err)
	assert.Contains(t, got.Text, "La mitose est un processus de division cellulaire")
	assert.NotContains(t, got.Text, "<p>")
}

func TestIngestionProcessDocument(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)
	documents := NewDocumentService(conn, filepath.Join(t.TempDir(), "uploads"))
	decks := NewDeckService(conn)
	cards := NewFlashcardService(conn)
	generator := flashcards.NewGenerator(flashcards.GeneratorConfig{Logger: logging.Discard()})
	ingest := NewIngestionService(documents, NewTextService(nil), generator, decks, cards, logging.Discard())

	body := "# Biologie\n\nLa photosynthèse est un processus biologique qui transforme la lumière en énergie chimique.\n\nLa mitose est un mécanisme de division cellulaire qui produit deux cellules identiques.\n"
	doc, err := documents.Create(ctx, "bio.md", "", strings.NewReader(body))
	require.NoError(t, err)

	var steps []string
	opts := flashcards.DefaultOptions()
	opts.Mode = flashcards.ModeDefinitions
	result, err := ingest.ProcessDocumentWithProgress(ctx, doc, IngestRequest{Deck: "Biologie", Options: opts}, func(step, _ string, _, _ int) {
		steps = append(steps, step)
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"extract", "generate", "complete"}, steps)
	assert.Equal(t, "Biologie", result.Deck.Name)
	assert.Equal(t, flashcards.ModeDefinitions, result.Mode)
	require.NotEmpty(t, result.Cards)
	assert.Equal(t, len(result.Cards), result.Deck.CardCount)
	for _, card := range result.Cards {
		assert.Equal(t, doc.ID, card.SourceDocumentID.Int64)
	}

	empty, err := documents.Create(ctx, "empty.txt", "", strings.NewReader("   \n"))
	require.NoError(t, err)
	_, err = ingest.ProcessDocument(ctx, empty, IngestRequest{Options: opts})
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestGenerateIntoDefaultDeck(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)
	generator := flashcards.NewGenerator(flashcards.GeneratorConfig{Logger: logging.Discard()})
	ingest := NewIngestionService(nil, nil, generator, NewDeckService(conn), NewFlashcardService(conn), nil)

	opts := flashcards.DefaultOptions()
	opts.Mode = flashcards.ModeVocabularyPairs
	result, err := ingest.GenerateIntoDeck(ctx, "chat - cat\nchien - dog\nmaison - house", IngestRequest{Options: opts}, sql.NullInt64{})

	require.NoError(t, err)
	assert.Equal(t, db.DefaultDeck, result.Deck.Name)
	assert.Len(t, result.Cards, 3)
	assert.False(t, result.Cards[0].SourceDocumentID.Valid)
}
