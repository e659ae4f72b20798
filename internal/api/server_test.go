package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flash-gen/internal/db"
	"flash-gen/internal/flashcards"
	"flash-gen/internal/logging"
	"flash-gen/internal/models"
	"flash-gen/internal/services"
)

const pairsText = "chat - cat\nchien - dog\nmaison - house"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "cards.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	logger := logging.Discard()
	generator := flashcards.NewGenerator(flashcards.GeneratorConfig{Logger: logger})
	decks := services.NewDeckService(conn)
	cards := services.NewFlashcardService(conn)
	documents := services.NewDocumentService(conn, filepath.Join(t.TempDir(), "uploads"))
	ingestion := services.NewIngestionService(documents, services.NewTextService(nil), generator, decks, cards, logger)

	ctx, cancel := context.WithCancel(context.Background())
	pool := NewWorkerPool(2, 4, nil)
	pool.Start(ctx)
	t.Cleanup(func() {
		pool.Close()
		cancel()
	})

	return NewServer(Deps{
		Generator:  generator,
		Flashcards: cards,
		Decks:      decks,
		Documents:  documents,
		Ingestion:  ingestion,
		Pool:       pool,
		Logger:     logger,
	})
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodGet, "/api/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("Content-Type"))
}

func TestGenerate(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/generate", map[string]any{"text": pairsText})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[generateResponse](t, rec)
	assert.Equal(t, flashcards.ModeVocabularyPairs, resp.Mode)
	assert.False(t, resp.Truncated)
	require.Len(t, resp.Flashcards, 3)
	assert.Equal(t, "chat", resp.Flashcards[0].Question)
	assert.Equal(t, "cat", resp.Flashcards[0].Answer)
	assert.Nil(t, resp.Deck)
}

func TestGenerateRejectsInvalidRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"text":`},
		{name: "missing text", body: `{"max_cards": 5}`},
		{name: "zero max cards", body: `{"text":"abc","max_cards":0}`},
		{name: "unknown language", body: `{"text":"abc","language":"german"}`},
		{name: "unknown mode", body: `{"text":"abc","mode":"poetry"}`},
	}
	s := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			s.Handler().ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "error")
		})
	}
}

func TestGenerateIntoDeckAndReview(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/generate", map[string]any{
		"text":     pairsText,
		"deck":     "Anglais",
		"language": "English",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[generateResponse](t, rec)
	require.NotNil(t, resp.Deck)
	assert.Equal(t, "Anglais", resp.Deck.Name)
	assert.Equal(t, "english", resp.Deck.Language)
	assert.Equal(t, 3, resp.Stored)
	assert.Equal(t, 3, resp.Deck.CardCount)

	rec = doJSON(t, s, http.MethodGet, "/api/decks", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decks := decode[struct {
		Decks []models.Deck `json:"decks"`
	}](t, rec)
	require.Len(t, decks.Decks, 2)
	assert.Equal(t, "Anglais", decks.Decks[0].Name)
	assert.Equal(t, db.DefaultDeck, decks.Decks[1].Name)

	rec = doJSON(t, s, http.MethodGet, fmt.Sprintf("/api/decks/%d/cards", resp.Deck.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	deckCards := decode[struct {
		Cards []map[string]any `json:"cards"`
	}](t, rec)
	assert.Len(t, deckCards.Cards, 3)

	assert.Equal(t, http.StatusNotFound, doJSON(t, s, http.MethodGet, "/api/decks/999/cards", nil).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(t, s, http.MethodGet, "/api/decks/abc/cards", nil).Code)

	rec = doJSON(t, s, http.MethodGet, "/api/cards/next", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	next := decode[struct {
		Card map[string]any `json:"card"`
	}](t, rec)
	require.NotNil(t, next.Card)
	id := int64(next.Card["id"].(float64))
	assert.Equal(t, "Anglais", next.Card["deck"])

	rec = doJSON(t, s, http.MethodPost, fmt.Sprintf("/api/cards/%d/review", id), map[string]string{"rating": "again"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, s, http.MethodPost, fmt.Sprintf("/api/cards/%d/review", id), map[string]string{"rating": "bogus"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/api/cards/999/review", map[string]string{"rating": "good"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/api/cards/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[models.ReviewStats](t, rec)
	assert.Equal(t, 3, stats.TotalCards)
	assert.Equal(t, 2, stats.NewCards)
	assert.Equal(t, 1, stats.WorkingQueue)
	assert.Equal(t, 1, stats.ReviewsToday)
}

func TestNextCardWhenEmpty(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodGet, "/api/cards/next", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"card":null`)
}

func uploadRequest(t *testing.T, fields map[string]string, files map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for name, content := range files {
		part, err := mw.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/documents/jobs", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestDocumentJob(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, uploadRequest(t,
		map[string]string{"deck": "Vocabulaire", "max_cards": "5"},
		map[string]string{"mots.txt": pairsText},
	))
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	created := decode[GenerationJob](t, rec)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "Vocabulaire", created.Deck)
	require.Len(t, created.Files, 1)

	var job GenerationJob
	require.Eventually(t, func() bool {
		rec := doJSON(t, s, http.MethodGet, "/api/documents/jobs/"+created.ID, nil)
		if rec.Code != http.StatusOK {
			return false
		}
		job = decode[GenerationJob](t, rec)
		return job.Status == JobStatusComplete || job.Status == JobStatusFailed
	}, 5*time.Second, 20*time.Millisecond)

	assert.Equal(t, JobStatusComplete, job.Status, job.Error)
	require.Len(t, job.Results, 1)
	assert.Equal(t, 3, job.Results[0].CardCount)
	assert.Equal(t, "Vocabulaire", job.Results[0].Deck)
	assert.Equal(t, string(flashcards.ModeVocabularyPairs), job.Results[0].Mode)
	assert.Equal(t, 100, job.Files[0].Percent)
}

func TestDocumentJobFailures(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, uploadRequest(t, map[string]string{"deck": "x"}, nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, uploadRequest(t, map[string]string{"max_cards": "many"}, map[string]string{"a.txt": "x"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, uploadRequest(t, nil, map[string]string{"vide.txt": "   "}))
	require.Equal(t, http.StatusAccepted, rec.Code)
	created := decode[GenerationJob](t, rec)

	require.Eventually(t, func() bool {
		job, ok := s.jobs.GetJob(created.ID)
		return ok && job.Status == JobStatusFailed
	}, 5*time.Second, 20*time.Millisecond)
	job, _ := s.jobs.GetJob(created.ID)
	assert.Equal(t, FileStatusError, job.Files[0].Status)

	assert.Equal(t, http.StatusNotFound, doJSON(t, s, http.MethodGet, "/api/documents/jobs/missing", nil).Code)
}
