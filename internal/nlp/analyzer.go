// Package nlp provides the natural language capabilities used by the
// flashcard generator: Punkt sentence segmentation and English tagging and
// entity recognition.
package nlp

import (
	"log/slog"

	"flash-gen/internal/flashcards"
)

// Analyzer combines Punkt and Prose into a flashcards.Analyzer.
type Analyzer struct {
	punkt *Punkt
	prose *Prose
}

var _ flashcards.Analyzer = (*Analyzer)(nil)

// New builds the analyzer. modelDir optionally holds Punkt models named
// <language>.json.
func New(logger *slog.Logger, modelDir string) *Analyzer {
	return &Analyzer{
		punkt: NewPunkt(logger, modelDir),
		prose: NewProse(logger),
	}
}

func (a *Analyzer) SegmentSentences(text string, lang flashcards.Language) ([]string, bool) {
	return a.punkt.Segment(text, lang)
}

func (a *Analyzer) TagTokens(text string, lang flashcards.Language) ([]flashcards.Token, bool) {
	return a.prose.Tag(text, lang)
}

func (a *Analyzer) FindEntities(text string, lang flashcards.Language) ([]flashcards.Entity, bool) {
	return a.prose.Entities(text, lang)
}
