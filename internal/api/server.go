package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	fsrs "github.com/open-spaced-repetition/go-fsrs"

	"flash-gen/internal/flashcards"
	"flash-gen/internal/models"
	"flash-gen/internal/services"
)

const (
	maxMultipartMemory = 8 << 20 // 8 MB
	maxJSONBody        = 1 << 20
)

// Deps are the collaborators the HTTP layer delegates to.
type Deps struct {
	Generator  *flashcards.Generator
	Flashcards *services.FlashcardService
	Decks      *services.DeckService
	Documents  *services.DocumentService
	Ingestion  *services.IngestionService
	Pool       *WorkerPool
	Logger     *slog.Logger
	// MaxCards is used when a request leaves max_cards unset.
	MaxCards int
}

type Server struct {
	router     chi.Router
	generator  *flashcards.Generator
	flashcards *services.FlashcardService
	decks      *services.DeckService
	documents  *services.DocumentService
	ingestion  *services.IngestionService
	pool       *WorkerPool
	jobs       *JobManager
	logger     *slog.Logger
	validate   *validator.Validate
	maxCards   int
}

func NewServer(deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxCards := deps.MaxCards
	if maxCards <= 0 {
		maxCards = flashcards.DefaultOptions().MaxCards
	}
	s := &Server{
		router:     chi.NewRouter(),
		generator:  deps.Generator,
		flashcards: deps.Flashcards,
		decks:      deps.Decks,
		documents:  deps.Documents,
		ingestion:  deps.Ingestion,
		pool:       deps.Pool,
		jobs:       NewJobManager(),
		logger:     logger,
		validate:   validator.New(),
		maxCards:   maxCards,
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := s.router
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/generate", s.handleGenerate)

		r.Get("/decks", s.handleListDecks)
		r.Get("/decks/{id}/cards", s.handleDeckCards)

		r.Post("/documents/jobs", s.handleCreateJob)
		r.Get("/documents/jobs/{id}", s.handleJobStatus)

		r.Get("/cards/next", s.handleNextCard)
		r.Get("/cards/stats", s.handleStats)
		r.Post("/cards/{id}/review", s.handleReview)
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type generateRequest struct {
	Text             string `json:"text" validate:"required"`
	MaxCards         *int   `json:"max_cards" validate:"omitempty,gt=0,lte=500"`
	DifficultyLevels *bool  `json:"difficulty_levels"`
	Language         string `json:"language" validate:"omitempty,oneof=french english"`
	Mode             string `json:"mode" validate:"omitempty,oneof=auto comprehension vocabulary vocabulary_pairs structured_list definitions"`
	Deck             string `json:"deck" validate:"omitempty,max=100"`
}

func (req generateRequest) options(defaultMax int) flashcards.Options {
	opts := flashcards.DefaultOptions()
	opts.MaxCards = defaultMax
	if req.MaxCards != nil {
		opts.MaxCards = *req.MaxCards
	}
	if req.DifficultyLevels != nil {
		opts.DifficultyLevels = *req.DifficultyLevels
	}
	opts.Language = flashcards.Language(req.Language)
	if req.Mode != "" {
		opts.Mode = flashcards.Mode(req.Mode)
	}
	return opts
}

type generateResponse struct {
	Mode       flashcards.Mode   `json:"mode"`
	Truncated  bool              `json:"truncated"`
	Flashcards []flashcards.Card `json:"flashcards"`
	Deck       *models.Deck      `json:"deck,omitempty"`
	Stored     int               `json:"stored,omitempty"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.Language = strings.ToLower(strings.TrimSpace(req.Language))
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	opts := req.options(s.maxCards)

	if strings.TrimSpace(req.Deck) == "" {
		res := s.generator.GenerateWithMeta(req.Text, opts)
		writeJSON(w, http.StatusOK, generateResponse{
			Mode:       res.Mode,
			Truncated:  res.Truncated,
			Flashcards: res.Cards,
		})
		return
	}

	result, err := s.ingestion.GenerateIntoDeck(r.Context(), req.Text, services.IngestRequest{
		Deck:    req.Deck,
		Options: opts,
	}, sql.NullInt64{})
	if err != nil {
		s.logger.Error("generate into deck failed", "deck", req.Deck, "error", err)
		writeError(w, http.StatusInternalServerError, "could not store flashcards")
		return
	}
	writeJSON(w, http.StatusOK, generateResponse{
		Mode:       result.Mode,
		Truncated:  result.Truncated,
		Flashcards: result.Generated,
		Deck:       result.Deck,
		Stored:     len(result.Cards),
	})
}

func (s *Server) handleListDecks(w http.ResponseWriter, r *http.Request) {
	decks, err := s.decks.ListDecks(r.Context())
	if err != nil {
		s.logger.Error("list decks failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if decks == nil {
		decks = []models.Deck{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"decks": decks})
}

func (s *Server) handleDeckCards(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	cards, err := s.decks.CardsForDeck(r.Context(), id)
	if errors.Is(err, services.ErrDeckNotFound) {
		writeError(w, http.StatusNotFound, "deck not found")
		return
	}
	if err != nil {
		s.logger.Error("list deck cards failed", "deck_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]map[string]any, 0, len(cards))
	for _, card := range cards {
		out = append(out, cardJSON(card))
	}
	writeJSON(w, http.StatusOK, map[string]any{"cards": out})
}

func (s *Server) handleNextCard(w http.ResponseWriter, r *http.Request) {
	card, err := s.flashcards.NextCard(r.Context())
	if err != nil {
		if errors.Is(err, services.ErrNoDueCards) {
			writeJSON(w, http.StatusOK, map[string]any{
				"card":    nil,
				"message": "No cards due. Come back later!",
			})
			return
		}
		s.logger.Error("next card failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"card": cardJSON(*card)})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.flashcards.Stats(r.Context())
	if err != nil {
		s.logger.Error("card stats failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type reviewRequest struct {
	Rating string `json:"rating" validate:"required"`
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req reviewRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	rating, err := parseRating(req.Rating)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	card, log, err := s.flashcards.ReviewCard(r.Context(), id, rating)
	if errors.Is(err, services.ErrCardNotFound) {
		writeError(w, http.StatusNotFound, "card not found")
		return
	}
	if err != nil {
		s.logger.Error("review failed", "card_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"card": cardJSON(*card),
		"review": map[string]any{
			"rating":         log.Rating,
			"scheduled_days": log.ScheduledDays,
			"elapsed_days":   log.ElapsedDays,
			"state":          log.State,
			"reviewed_at":    log.ReviewedAt.Format(timeLayout),
		},
	})
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	form := r.MultipartForm
	files := form.File["files"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "no files uploaded")
		return
	}

	req := generateRequest{
		Language: strings.ToLower(strings.TrimSpace(r.FormValue("language"))),
		Mode:     strings.TrimSpace(r.FormValue("mode")),
		Deck:     strings.TrimSpace(r.FormValue("deck")),
	}
	if raw := strings.TrimSpace(r.FormValue("max_cards")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "max_cards must be an integer")
			return
		}
		req.MaxCards = &n
	}
	if raw := strings.TrimSpace(r.FormValue("difficulty_levels")); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "difficulty_levels must be a boolean")
			return
		}
		req.DifficultyLevels = &b
	}
	// The text comes from the files, so only the options are validated here.
	if err := s.validate.StructExcept(req, "Text"); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	ingest := services.IngestRequest{Deck: req.Deck, Options: req.options(s.maxCards)}

	// Uploads are stored before responding: the multipart temp files do not
	// outlive the request.
	docs := make([]*models.Document, 0, len(files))
	names := make([]string, 0, len(files))
	for _, file := range files {
		doc, err := s.storeUpload(r.Context(), file)
		if err != nil {
			s.logger.Error("store upload failed", "file", file.Filename, "error", err)
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		docs = append(docs, doc)
		names = append(names, file.Filename)
	}

	job := s.jobs.CreateJob(req.Deck, names)
	err := s.pool.Submit(r.Context(), func(ctx context.Context) error {
		return s.runJob(ctx, job.ID, docs, ingest)
	})
	if err != nil {
		s.jobs.MarkFailed(job.ID, err.Error())
		writeError(w, http.StatusServiceUnavailable, "generation queue unavailable")
		return
	}

	writeJSON(w, http.StatusAccepted, job)
}

func (s *Server) storeUpload(ctx context.Context, file *multipart.FileHeader) (*models.Document, error) {
	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("open file %s: %w", file.Filename, err)
	}
	defer src.Close()

	doc, err := s.documents.Create(ctx, file.Filename, "", src)
	if err != nil {
		return nil, fmt.Errorf("create document %s: %w", file.Filename, err)
	}
	return doc, nil
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	job, ok := s.jobs.GetJob(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) runJob(ctx context.Context, jobID string, docs []*models.Document, req services.IngestRequest) error {
	s.jobs.MarkProcessing(jobID)
	var failed int
	for idx, doc := range docs {
		progress := func(step, message string, current, total int) {
			s.jobs.UpdateFileProgress(jobID, idx, step, message, current, total)
		}
		result := DocumentResult{
			DocumentID: doc.ID,
			Name:       doc.OriginalName,
			Status:     FileStatusError,
		}
		out, err := s.ingestion.ProcessDocumentWithProgress(ctx, doc, req, progress)
		if err != nil {
			failed++
			s.jobs.MarkFileError(jobID, idx, err.Error(), result)
			continue
		}
		result.Pages = out.Pages
		result.Deck = out.Deck.Name
		result.Mode = string(out.Mode)
		result.Truncated = out.Truncated
		result.CardCount = len(out.Cards)
		result.Status = "ok"
		s.jobs.MarkFileComplete(jobID, idx, result)
	}
	s.jobs.MarkCompleted(jobID)
	if failed > 0 {
		return fmt.Errorf("job %s: %d of %d files failed", jobID, failed, len(docs))
	}
	return nil
}

const timeLayout = time.RFC3339

func cardJSON(card models.Card) map[string]any {
	return map[string]any{
		"id":              card.ID,
		"deck_id":         card.DeckID,
		"deck":            nullString(card.DeckName),
		"source":          nullString(card.SourceDocumentRef),
		"question":        card.Question,
		"answer":          card.Answer,
		"type":            card.CardType,
		"difficulty":      card.Level,
		"relevance_score": card.RelevanceScore,
		"due":             nullTimeToString(card.Due),
		"state":           card.State,
		"stability":       card.Stability,
		"reps":            card.Reps,
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func parseRating(raw string) (fsrs.Rating, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "again", "1":
		return fsrs.Again, nil
	case "hard", "2":
		return fsrs.Hard, nil
	case "good", "3":
		return fsrs.Good, nil
	case "easy", "4":
		return fsrs.Easy, nil
	default:
		return 0, fmt.Errorf("unknown rating %q", raw)
	}
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return "invalid request: " + strings.Join(parts, ", ")
}

func nullTimeToString(t sql.NullTime) *string {
	if t.Valid {
		str := t.Time.Format(timeLayout)
		return &str
	}
	return nil
}

func nullString(v sql.NullString) *string {
	if v.Valid {
		str := v.String
		return &str
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
