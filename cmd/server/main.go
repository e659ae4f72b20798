package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flash-gen/internal/api"
	"flash-gen/internal/config"
	"flash-gen/internal/db"
	"flash-gen/internal/flashcards"
	"flash-gen/internal/keywords"
	"flash-gen/internal/logging"
	"flash-gen/internal/nlp"
	"flash-gen/internal/services"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.Setup(cfg.LogLevel, os.Stderr)

	if err := cfg.EnsureDirs(); err != nil {
		return err
	}
	conn, err := db.Open(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer conn.Close()

	genCfg := flashcards.GeneratorConfig{
		Language: flashcards.Language(cfg.Language),
		Keywords: keywords.NewTFIDF(),
		Logger:   logger,
	}
	if cfg.NLPEnabled {
		genCfg.Analyzer = nlp.New(logger, cfg.PunktModelDir)
	}
	generator := flashcards.NewGenerator(genCfg)

	flashcardService := services.NewFlashcardService(conn)
	deckService := services.NewDeckService(conn)
	documentService := services.NewDocumentService(conn, cfg.UploadDir)
	textService := services.NewTextService(services.NewPDFService())
	ingestionService := services.NewIngestionService(documentService, textService, generator, deckService, flashcardService, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool := api.NewWorkerPool(cfg.Workers, 0, func(err error) {
		logger.Warn("generation job finished with errors", "error", err)
	})
	pool.Start(ctx)
	defer pool.Close()

	server := api.NewServer(api.Deps{
		Generator:  generator,
		Flashcards: flashcardService,
		Decks:      deckService,
		Documents:  documentService,
		Ingestion:  ingestionService,
		Pool:       pool,
		Logger:     logger,
		MaxCards:   cfg.MaxCards,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      server.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr, "language", cfg.Language, "nlp", cfg.NLPEnabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
