package services

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"flash-gen/internal/models"
)

// Extraction is the text read from a document.
type Extraction struct {
	Text  string
	Pages int
}

// TextService reads plain text out of stored documents.
type TextService struct {
	pdf *PDFService
}

func NewTextService(pdf *PDFService) *TextService {
	if pdf == nil {
		pdf = NewPDFService()
	}
	return &TextService{pdf: pdf}
}

// Extract dispatches on the document format.
func (s *TextService) Extract(ctx context.Context, doc *models.Document) (Extraction, error) {
	if err := ctx.Err(); err != nil {
		return Extraction{}, err
	}
	return s.ExtractFile(doc.StoredPath, doc.Format)
}

// ExtractFile reads path as format. An empty format is derived from the
// file extension.
func (s *TextService) ExtractFile(path string, format models.DocumentFormat) (Extraction, error) {
	if format == "" {
		format = FormatFor(path)
	}
	if format == models.FormatPDF {
		text, pages, err := s.pdf.ExtractText(path)
		if err != nil {
			return Extraction{}, err
		}
		return Extraction{Text: text, Pages: pages}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Extraction{}, fmt.Errorf("read document: %w", err)
	}
	return s.ExtractBytes(data, filepath.Base(path), format)
}

// ExtractBytes converts in-memory content of a non-PDF format.
func (s *TextService) ExtractBytes(data []byte, name string, format models.DocumentFormat) (Extraction, error) {
	switch format {
	case models.FormatText, "":
		return Extraction{Text: string(data), Pages: 1}, nil
	case models.FormatMarkdown:
		return Extraction{Text: markdownText(data), Pages: 1}, nil
	case models.FormatHTML:
		text, err := htmlText(bytes.NewReader(data), name)
		if err != nil {
			return Extraction{}, err
		}
		return Extraction{Text: text, Pages: 1}, nil
	default:
		return Extraction{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}
