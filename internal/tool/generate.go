// Package tool exposes flashcard generation as Model Context Protocol tools.
package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"flash-gen/internal/flashcards"
)

// MetadataGenerateFlashcards describes the generate_flashcards tool.
var MetadataGenerateFlashcards = &mcp.Tool{
	Name: "generate_flashcards",
	Description: "Generate question/answer flashcards from study text with rule-based extraction. " +
		"The mode is detected from the text layout unless one is given: vocabulary lists become " +
		"term/translation cards, dash or bullet lists become category cards, prose becomes " +
		"definition, entity, concept, reasoning and numeric cards ranked by relevance.",
	InputSchema: map[string]any{
		"type":     "object",
		"required": []string{"text"},
		"properties": map[string]any{
			"text": map[string]any{
				"type":        "string",
				"description": "Source text to turn into flashcards",
			},
			"max_cards": map[string]any{
				"type":        "integer",
				"description": "Maximum number of cards to return. Defaults to 10.",
				"minimum":     1,
				"maximum":     500,
			},
			"difficulty_levels": map[string]any{
				"type":        "boolean",
				"description": "Label cards easy, medium or hard. Defaults to true.",
			},
			"language": map[string]any{
				"type":        "string",
				"description": "Language of question templates and stopwords.",
				"enum":        []string{"french", "english"},
			},
			"mode": map[string]any{
				"type":        "string",
				"description": "Generation strategy. auto detects vocabulary and list layouts.",
				"enum": []string{
					string(flashcards.ModeAuto),
					string(flashcards.ModeComprehension),
					string(flashcards.ModeVocabulary),
					string(flashcards.ModeVocabularyPairs),
					string(flashcards.ModeStructuredList),
					string(flashcards.ModeDefinitions),
				},
			},
		},
	},
}

// InputGenerateFlashcards is the input for the GenerateFlashcards tool.
type InputGenerateFlashcards struct {
	Text             string `json:"text"`
	MaxCards         int    `json:"max_cards,omitempty"`
	DifficultyLevels *bool  `json:"difficulty_levels,omitempty"`
	Language         string `json:"language,omitempty"`
	Mode             string `json:"mode,omitempty"`
}

// OutputGenerateFlashcards is the output for the GenerateFlashcards tool.
type OutputGenerateFlashcards struct {
	Flashcards []flashcards.Card `json:"flashcards"`
	// Mode is the strategy actually used after detection.
	Mode      string `json:"mode"`
	Truncated bool   `json:"truncated"`
	Count     int    `json:"count"`
}

// Flashcards serves the generation tools from a shared generator.
type Flashcards struct {
	generator *flashcards.Generator
}

func NewFlashcards(generator *flashcards.Generator) *Flashcards {
	return &Flashcards{generator: generator}
}

func (f *Flashcards) options(input InputGenerateFlashcards) (flashcards.Options, error) {
	opts := flashcards.DefaultOptions()
	if input.MaxCards != 0 {
		opts.MaxCards = input.MaxCards
	}
	if input.DifficultyLevels != nil {
		opts.DifficultyLevels = *input.DifficultyLevels
	}
	opts.Language = flashcards.Language(strings.ToLower(strings.TrimSpace(input.Language)))
	if input.Mode != "" {
		opts.Mode = flashcards.Mode(input.Mode)
	}
	if err := opts.Validate(); err != nil {
		return flashcards.Options{}, fmt.Errorf("invalid options: %w", err)
	}
	return opts, nil
}

// GenerateFlashcards runs the generator over the provided text.
func (f *Flashcards) GenerateFlashcards(ctx context.Context, _ *mcp.CallToolRequest, input InputGenerateFlashcards) (*mcp.CallToolResult, OutputGenerateFlashcards, error) {
	if strings.TrimSpace(input.Text) == "" {
		return nil, OutputGenerateFlashcards{}, fmt.Errorf("text is required")
	}
	opts, err := f.options(input)
	if err != nil {
		return nil, OutputGenerateFlashcards{}, err
	}
	if err := ctx.Err(); err != nil {
		return nil, OutputGenerateFlashcards{}, err
	}

	res := f.generator.GenerateWithMeta(input.Text, opts)
	return nil, OutputGenerateFlashcards{
		Flashcards: res.Cards,
		Mode:       string(res.Mode),
		Truncated:  res.Truncated,
		Count:      len(res.Cards),
	}, nil
}

// NewServer builds an MCP server with the flashcard tools registered.
func NewServer(generator *flashcards.Generator, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "flashgen", Version: version}, nil)
	tools := NewFlashcards(generator)
	mcp.AddTool(server, MetadataGenerateFlashcards, tools.GenerateFlashcards)
	return server
}
