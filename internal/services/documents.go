package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"flash-gen/internal/models"
)

var (
	// ErrUnsupportedFormat is returned for documents no extractor can read.
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrDocumentNotFound is returned when a document id does not exist.
	ErrDocumentNotFound = errors.New("document not found")
)

// FormatFor picks the document format from a file name's extension. Unknown
// extensions are read as plain text.
func FormatFor(name string) models.DocumentFormat {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return models.FormatPDF
	case ".md", ".markdown":
		return models.FormatMarkdown
	case ".html", ".htm", ".xhtml":
		return models.FormatHTML
	default:
		return models.FormatText
	}
}

func validFormat(format models.DocumentFormat) bool {
	switch format {
	case models.FormatText, models.FormatMarkdown, models.FormatHTML, models.FormatPDF:
		return true
	}
	return false
}

type DocumentService struct {
	db        *sql.DB
	uploadDir string
}

func NewDocumentService(db *sql.DB, uploadDir string) *DocumentService {
	return &DocumentService{db: db, uploadDir: uploadDir}
}

// Create stores src under a generated file name and records it. An empty
// format is derived from the original name.
func (s *DocumentService) Create(ctx context.Context, original string, format models.DocumentFormat, src io.Reader) (*models.Document, error) {
	if format == "" {
		format = FormatFor(original)
	}
	if !validFormat(format) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure upload dir: %w", err)
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(original))
	storedPath := filepath.Join(s.uploadDir, name)
	out, err := os.Create(storedPath)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return nil, fmt.Errorf("write file: %w", err)
	}

	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (original_name, stored_path, format, page_count, uploaded_at)
		VALUES (?, ?, ?, 0, ?);
	`, original, storedPath, format, now)
	if err != nil {
		return nil, fmt.Errorf("insert document: %w", err)
	}
	id, _ := res.LastInsertId()

	return &models.Document{
		ID:           id,
		OriginalName: original,
		StoredPath:   storedPath,
		Format:       format,
		UploadedAt:   now,
	}, nil
}

func (s *DocumentService) UpdatePageCount(ctx context.Context, id int64, pages int) error {
	if _, err := s.db.ExecContext(ctx, `
		UPDATE documents SET page_count = ? WHERE id = ?;
	`, pages, id); err != nil {
		return fmt.Errorf("update page count: %w", err)
	}
	return nil
}

func (s *DocumentService) GetByID(ctx context.Context, id int64) (*models.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, original_name, stored_path, format, page_count, uploaded_at
		FROM documents WHERE id = ?;
	`, id)
	var doc models.Document
	if err := row.Scan(
		&doc.ID,
		&doc.OriginalName,
		&doc.StoredPath,
		&doc.Format,
		&doc.PageCount,
		&doc.UploadedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("document %d: %w", id, ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("scan document: %w", err)
	}
	return &doc, nil
}
