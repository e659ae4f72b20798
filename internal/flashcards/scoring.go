package flashcards

import (
	"sort"
	"strings"
)

var typeBonus = map[CardType]float64{
	TypeDefinition:  0.3,
	TypeNumericFact: 0.25,
	TypeEntity:      0.2,
	TypeConcept:     0.15,
	TypeReasoning:   0.1,
}

var interrogatives = phraseMatcher(
	"qu'est-ce", "que", "quel", "quelle", "quels", "quelles", "qui", "quoi", "où", "quand",
	"comment", "pourquoi", "combien",
	"what", "which", "who", "whom", "where", "when", "why", "how",
)

// rank assigns RelevanceScore to every card and sorts them by it, highest
// first. Ties keep extraction order. The score is a fixed heuristic over the
// card type, the wording of the question and the answer length.
func rank(cards []Card) {
	if len(cards) < 2 {
		for i := range cards {
			base := cards[i].Score
			if base == 0 {
				base = 0.5
			}
			cards[i].RelevanceScore = roundScore(base)
		}
		return
	}

	for i := range cards {
		c := &cards[i]
		total := c.Score
		if total == 0 {
			total = 0.5
		}
		total += typeBonus[c.Type]
		total += 0.2 * questionQuality(c.Question)
		switch n := wordCount(c.Answer); {
		case n >= 10 && n <= 50:
			total += 0.1
		case n > 50:
			total -= 0.05
		}
		c.RelevanceScore = roundScore(total)
	}
	sort.SliceStable(cards, func(i, j int) bool {
		return cards[i].RelevanceScore > cards[j].RelevanceScore
	})
}

func questionQuality(question string) float64 {
	q := 0.5
	if interrogatives.MatchString(question) {
		q += 0.3
	}
	if n := wordCount(question); n >= 4 && n <= 15 {
		q += 0.2
	}
	if strings.ContainsRune(question, '?') {
		q += 0.1
	}
	if q > 1 {
		q = 1
	}
	return q
}
