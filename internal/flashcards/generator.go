package flashcards

import (
	"log/slog"
	"strings"
)

// GeneratorConfig holds the collaborators of a Generator. Every field is
// optional.
type GeneratorConfig struct {
	// Language used when a call leaves Options.Language empty. Defaults to
	// French.
	Language Language
	Analyzer Analyzer
	Keywords KeywordExtractor
	Logger   *slog.Logger
}

// Generator turns text into flashcards. It holds no per-call state and is
// safe for concurrent use.
type Generator struct {
	language Language
	analyzer Analyzer
	keywords KeywordExtractor
	logger   *slog.Logger
}

func NewGenerator(cfg GeneratorConfig) *Generator {
	g := &Generator{
		language: cfg.Language,
		analyzer: cfg.Analyzer,
		keywords: cfg.Keywords,
		logger:   cfg.Logger,
	}
	if g.language != English {
		g.language = French
	}
	if g.analyzer == nil {
		g.analyzer = NopAnalyzer{}
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	return g
}

// Generate returns at most opts.MaxCards cards for text. It never fails:
// inputs that yield nothing produce an empty slice.
func (g *Generator) Generate(text string, opts Options) []Card {
	return g.GenerateWithMeta(text, opts).Cards
}

// GenerateWithMeta is Generate, also reporting the mode that was used and
// whether the input was cut to the size limit.
func (g *Generator) GenerateWithMeta(text string, opts Options) Result {
	lang := g.resolveLanguage(opts.Language)
	mode := resolveMode(opts.Mode)
	res := Result{Cards: []Card{}, Mode: mode}

	if opts.MaxCards <= 0 || strings.TrimSpace(text) == "" {
		return res
	}

	text, res.Truncated = truncateRunes(text, maxTextRunes)
	if res.Truncated {
		g.logger.Debug("input truncated", "limit", maxTextRunes)
	}

	if mode == ModeAuto || mode == ModeComprehension {
		if detected, ok := DetectContentType(text); ok {
			g.logger.Debug("content type detected", "requested", mode, "mode", detected)
			mode = detected
		}
	}
	if mode == ModeAuto {
		mode = ModeComprehension
	}
	res.Mode = mode

	var cards []Card
	switch mode {
	case ModeVocabulary:
		cards = vocabulary(text, g.analyzer, lang, opts.MaxCards, opts.DifficultyLevels)
	case ModeVocabularyPairs:
		cards = vocabularyPairs(text, opts.MaxCards, opts.DifficultyLevels)
	case ModeStructuredList:
		cards = structuredList(text, lang, opts.MaxCards, opts.DifficultyLevels)
	case ModeDefinitions:
		sentences := splitSentences(text, g.analyzer, lang)
		cards = definitionsOnly(sentences, g.keywords, lang, opts.MaxCards)
		if opts.DifficultyLevels {
			labelDifficulty(cards)
		}
	default:
		sentences := splitSentences(text, g.analyzer, lang)
		cards = comprehension(text, sentences, g.analyzer, g.keywords, lang)
		rank(cards)
		if len(cards) > opts.MaxCards {
			cards = cards[:opts.MaxCards]
		}
		if opts.DifficultyLevels {
			labelDifficulty(cards)
		}
	}

	if len(cards) > opts.MaxCards {
		cards = cards[:opts.MaxCards]
	}
	res.Cards = completeCards(cards)
	g.logger.Debug("flashcards generated", "mode", mode, "language", lang, "count", len(res.Cards))
	return res
}

func (g *Generator) resolveLanguage(lang Language) Language {
	switch Language(strings.ToLower(string(lang))) {
	case French:
		return French
	case English:
		return English
	default:
		return g.language
	}
}

func resolveMode(mode Mode) Mode {
	switch mode {
	case "":
		return ModeAuto
	case ModeAuto, ModeComprehension, ModeVocabulary, ModeVocabularyPairs, ModeStructuredList, ModeDefinitions:
		return mode
	default:
		return ModeComprehension
	}
}

// completeCards drops cards whose question or answer is blank.
func completeCards(cards []Card) []Card {
	out := make([]Card, 0, len(cards))
	for _, c := range cards {
		c.Question = strings.TrimSpace(c.Question)
		c.Answer = strings.TrimSpace(c.Answer)
		if c.Question == "" || c.Answer == "" {
			continue
		}
		out = append(out, c)
	}
	return out
}
