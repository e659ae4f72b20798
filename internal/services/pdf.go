package services

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
)

type PDFService struct{}

func NewPDFService() *PDFService {
	return &PDFService{}
}

// ExtractText returns the plain text layer of a PDF and its page count.
// Scanned PDFs without a text layer yield empty text.
func (s *PDFService) ExtractText(path string) (string, int, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	numPages := r.NumPage()
	if numPages == 0 {
		return "", 0, fmt.Errorf("pdf has no pages")
	}

	plain, err := r.GetPlainText()
	if err != nil {
		return "", numPages, fmt.Errorf("read pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", numPages, fmt.Errorf("copy pdf text: %w", err)
	}
	return buf.String(), numPages, nil
}
