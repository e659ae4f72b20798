package flashcards

var typeDifficultyBase = map[CardType]int{
	TypeDefinition:  0,
	TypeNumericFact: 0,
	TypeEntity:      0,
	TypeConcept:     1,
	TypeReasoning:   2,
}

// labelDifficulty sets Difficulty from answer length, question length and
// card type.
func labelDifficulty(cards []Card) {
	for i := range cards {
		cards[i].Difficulty = cardDifficulty(cards[i])
	}
}

func cardDifficulty(c Card) Difficulty {
	score := 0
	switch n := wordCount(c.Answer); {
	case n > 40:
		score += 2
	case n > 20:
		score++
	}
	if wordCount(c.Question) > 10 {
		score++
	}
	base, known := typeDifficultyBase[c.Type]
	if !known {
		base = 1
	}
	score += base

	switch {
	case score <= 1:
		return DifficultyEasy
	case score <= 3:
		return DifficultyMedium
	default:
		return DifficultyHard
	}
}
