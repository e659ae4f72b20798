package flashcards

import (
	"math"

	"github.com/go-playground/validator/v10"
)

// CardType names the extraction strategy that produced a card.
type CardType string

const (
	TypeDefinition     CardType = "definition"
	TypeEntity         CardType = "entity"
	TypeConcept        CardType = "concept"
	TypeReasoning      CardType = "reasoning"
	TypeNumericFact    CardType = "numeric_fact"
	TypeVocabulary     CardType = "vocabulary"
	TypeVocabularyPair CardType = "vocabulary_pair"
	TypeStructuredList CardType = "structured_list"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Language selects question templates and stopword sets.
type Language string

const (
	French  Language = "french"
	English Language = "english"
)

// Mode selects the generation strategy.
type Mode string

const (
	ModeAuto            Mode = "auto"
	ModeComprehension   Mode = "comprehension"
	ModeVocabulary      Mode = "vocabulary"
	ModeVocabularyPairs Mode = "vocabulary_pairs"
	ModeStructuredList  Mode = "structured_list"
	ModeDefinitions     Mode = "definitions"
)

// Card is a generated flashcard. Score is the provisional value assigned by
// an extractor; RelevanceScore is the final ranking value in [0, 1].
type Card struct {
	Question       string     `json:"question" yaml:"question"`
	Answer         string     `json:"answer" yaml:"answer"`
	Type           CardType   `json:"type" yaml:"type"`
	Difficulty     Difficulty `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
	RelevanceScore float64    `json:"relevance_score" yaml:"relevance_score"`
	Score          float64    `json:"-" yaml:"-"`
}

// Options configures a single generation call.
type Options struct {
	Language         Language `json:"language" validate:"omitempty,oneof=french english"`
	MaxCards         int      `json:"max_cards" validate:"gt=0,lte=500"`
	DifficultyLevels bool     `json:"difficulty_levels"`
	Mode             Mode     `json:"mode" validate:"omitempty,oneof=auto comprehension vocabulary vocabulary_pairs structured_list definitions"`
}

// DefaultOptions mirrors the defaults of the generate_flashcards entry point.
func DefaultOptions() Options {
	return Options{
		MaxCards:         10,
		DifficultyLevels: true,
		Mode:             ModeAuto,
	}
}

var validate = validator.New()

// Validate reports option values a caller should reject before generating.
// Generate itself tolerates invalid options and normalizes them.
func (o Options) Validate() error {
	return validate.Struct(o)
}

// Result is the output of GenerateWithMeta.
type Result struct {
	Cards     []Card `json:"flashcards" yaml:"flashcards"`
	Mode      Mode   `json:"mode" yaml:"mode"`
	Truncated bool   `json:"truncated" yaml:"truncated"`
}

func roundScore(v float64) float64 {
	if v > 1 {
		v = 1
	}
	if v < 0 {
		v = 0
	}
	return math.Round(v*100) / 100
}
