package flashcards

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankSingleCard(t *testing.T) {
	cards := []Card{{Question: "q", Answer: "a", Type: TypeConcept, Score: 0.6}}
	rank(cards)
	assert.Equal(t, 0.6, cards[0].RelevanceScore)

	cards = []Card{{Question: "q", Answer: "a", Type: TypeConcept}}
	rank(cards)
	assert.Equal(t, 0.5, cards[0].RelevanceScore)
}

func TestRankFormula(t *testing.T) {
	long := strings.TrimSpace(strings.Repeat("word ", 60))
	medium := "one two three four five six seven eight nine ten eleven twelve"
	cards := []Card{
		{Question: "Tell me", Answer: long, Type: TypeConcept, Score: 0.6},
		{Question: "Why?", Answer: medium, Type: TypeReasoning, Score: 0.5},
		{Question: "What is machine learning?", Answer: "a field", Type: TypeDefinition, Score: 0.9},
	}

	rank(cards)

	require.Len(t, cards, 3)
	assert.Equal(t, TypeDefinition, cards[0].Type)
	assert.Equal(t, 1.0, cards[0].RelevanceScore)
	assert.Equal(t, TypeReasoning, cards[1].Type)
	assert.Equal(t, 0.88, cards[1].RelevanceScore)
	assert.Equal(t, TypeConcept, cards[2].Type)
	assert.Equal(t, 0.8, cards[2].RelevanceScore)
}

func TestRankStableOnTies(t *testing.T) {
	cards := []Card{
		{Question: "Tell me", Answer: "first", Type: TypeConcept, Score: 0.6},
		{Question: "Tell me", Answer: "second", Type: TypeConcept, Score: 0.6},
		{Question: "Tell me", Answer: "third", Type: "custom", Score: 0.1},
	}

	rank(cards)

	assert.Equal(t, "first", cards[0].Answer)
	assert.Equal(t, "second", cards[1].Answer)
	assert.Equal(t, "third", cards[2].Answer)
	assert.Equal(t, 0.2, cards[2].RelevanceScore)
}

func TestQuestionQuality(t *testing.T) {
	tests := []struct {
		question string
		want     float64
	}{
		{"Tell me", 0.5},
		{"Tell me more about it", 0.7},
		{"Pourquoi?", 0.9},
		{"Qu'est-ce que la photosynthèse ?", 1.0},
		{"Where is Paris located?", 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			assert.InDelta(t, tt.want, questionQuality(tt.question), 1e-9)
		})
	}
}

func TestCardDifficulty(t *testing.T) {
	long := strings.TrimSpace(strings.Repeat("word ", 45))
	mid := strings.TrimSpace(strings.Repeat("word ", 25))
	longQuestion := "What does the text say about this particular and rather long topic?"

	tests := []struct {
		name string
		card Card
		want Difficulty
	}{
		{"short definition", Card{Question: "What is X?", Answer: "a thing", Type: TypeDefinition}, DifficultyEasy},
		{"short concept", Card{Question: "What is X?", Answer: "a thing", Type: TypeConcept}, DifficultyEasy},
		{"short reasoning", Card{Question: "Why?", Answer: "because", Type: TypeReasoning}, DifficultyMedium},
		{"mid answer entity", Card{Question: "Who is X?", Answer: mid, Type: TypeEntity}, DifficultyEasy},
		{"long answer concept", Card{Question: "What?", Answer: long, Type: TypeConcept}, DifficultyMedium},
		{"long everything reasoning", Card{Question: longQuestion, Answer: long, Type: TypeReasoning}, DifficultyHard},
		{"unknown type", Card{Question: longQuestion, Answer: mid, Type: "custom"}, DifficultyMedium},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cardDifficulty(tt.card))
		})
	}
}
