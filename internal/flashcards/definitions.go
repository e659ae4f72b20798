package flashcards

import (
	"fmt"
	"regexp"
	"strings"
)

// French-only patterns used by the definitions mode. The colon form comes
// last so that "X est une Y: Z" keeps its verb split.
var frenchDefinitionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(.+?)\s+(?:est|sont)\s+((?:(?:un|une|le|la|les|des)\s+|l['’]).+)$`),
	regexp.MustCompile(`(?i)^(.+?)\s+(?:se définit comme|se définissent comme|désigne|désignent|signifie|signifient)\s+(.+)$`),
	regexp.MustCompile(`(?i)^(.+?)\s+(?:correspond à|correspondent à|consiste à|consiste en|représente|représentent)\s+(.+)$`),
	regexp.MustCompile(`(?i)^on appelle\s+(.+?)\s+((?:(?:un|une|le|la|les|des)\s+|l['’]).+)$`),
	regexp.MustCompile(`(?i)^(.+?),\s*c'est-à-dire\s+(.+)$`),
	regexp.MustCompile(`(?i)^(.+?)\s*:\s*(.+)$`),
}

var conditionalOpeners = wordSet("si", "quand", "lorsque", "alors")

// definitionsOnly extracts definition cards and stops as soon as the cap is
// reached. Short results are padded with concept cards.
func definitionsOnly(sentences []string, keywords KeywordExtractor, lang Language, maxCards int) []Card {
	phrases := phrasesFor(lang)
	cards := []Card{}
	for _, s := range sentences {
		term, definition, ok := matchDefinition(frenchDefinitionPatterns, s)
		if !ok || !acceptDefinition(term, definition) {
			continue
		}
		cards = append(cards, Card{
			Question:       fmt.Sprintf(phrases.definitionOnly, term),
			Answer:         definition,
			Type:           TypeDefinition,
			Score:          0.9,
			RelevanceScore: 0.9,
		})
		if len(cards) >= maxCards {
			return cards
		}
	}

	if float64(len(cards)) < float64(maxCards)/2 {
		remaining := maxCards - len(cards)
		concepts := conceptCards(sentences, keywords, lang)
		if len(concepts) > remaining {
			concepts = concepts[:remaining]
		}
		for _, c := range concepts {
			c.RelevanceScore = roundScore(c.Score)
			cards = append(cards, c)
		}
	}
	return cards
}

func acceptDefinition(term, definition string) bool {
	if n := runeLen(term); n < 5 || n > 100 {
		return false
	}
	if n := runeLen(definition); n < 20 || n > 300 {
		return false
	}
	first := strings.ToLower(firstWords(term, 1))
	_, conditional := conditionalOpeners[first]
	return !conditional
}
