package nlp

import (
	"embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/neurosnap/sentences"
	sentencesdata "github.com/neurosnap/sentences/data"

	"flash-gen/internal/flashcards"
)

//go:embed models/*.json
var bundledModels embed.FS

// Punkt segments sentences with Punkt models. A <language>.json file in the
// model directory takes precedence over the English model shipped with the
// sentences package and the French parameters bundled here. Models are
// loaded on first use and cached per language.
type Punkt struct {
	logger   *slog.Logger
	modelDir string

	mu      sync.RWMutex
	models  map[flashcards.Language]*sentences.DefaultSentenceTokenizer
	missing map[flashcards.Language]bool
}

// NewPunkt creates a segmenter. modelDir may be empty.
func NewPunkt(logger *slog.Logger, modelDir string) *Punkt {
	if logger == nil {
		logger = slog.Default()
	}
	return &Punkt{
		logger:   logger,
		modelDir: modelDir,
		models:   make(map[flashcards.Language]*sentences.DefaultSentenceTokenizer),
		missing:  make(map[flashcards.Language]bool),
	}
}

// Segment splits text into trimmed sentences. It reports false when no model
// exists for lang.
func (p *Punkt) Segment(text string, lang flashcards.Language) ([]string, bool) {
	tokenizer := p.model(lang)
	if tokenizer == nil {
		return nil, false
	}
	var out []string
	for _, s := range tokenizer.Tokenize(text) {
		if t := strings.TrimSpace(s.Text); t != "" {
			out = append(out, t)
		}
	}
	return out, true
}

func (p *Punkt) model(lang flashcards.Language) *sentences.DefaultSentenceTokenizer {
	p.mu.RLock()
	tokenizer, ok := p.models[lang]
	missing := p.missing[lang]
	p.mu.RUnlock()
	if ok || missing {
		return tokenizer
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if tokenizer, ok := p.models[lang]; ok {
		return tokenizer
	}
	if p.missing[lang] {
		return nil
	}

	training, err := p.training(lang)
	if err != nil {
		p.logger.Debug("no punkt model", "language", lang, "error", err)
		p.missing[lang] = true
		return nil
	}
	storage, err := sentences.LoadTraining(training)
	if err != nil {
		p.logger.Warn("load punkt model", "language", lang, "error", err)
		p.missing[lang] = true
		return nil
	}
	tokenizer = sentences.NewSentenceTokenizer(storage)
	p.models[lang] = tokenizer
	return tokenizer
}

func (p *Punkt) training(lang flashcards.Language) ([]byte, error) {
	name := string(lang) + ".json"
	if strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("invalid language %q", lang)
	}
	if p.modelDir != "" {
		data, err := os.ReadFile(filepath.Join(p.modelDir, name))
		if err == nil {
			return data, nil
		}
		if !os.IsNotExist(err) {
			p.logger.Warn("read punkt model", "language", lang, "error", err)
		}
	}
	if data, err := bundledModels.ReadFile("models/" + name); err == nil {
		return data, nil
	}
	// asset names differ between releases of the sentences package
	if data, err := sentencesdata.Asset(name); err == nil {
		return data, nil
	}
	return sentencesdata.Asset("data/" + name)
}
