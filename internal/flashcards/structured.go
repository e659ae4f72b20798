package flashcards

import (
	"fmt"
	"strings"
)

var shortDefinitionMarkers = wordSet(
	"a", "an", "the", "to", "is", "are", "was", "were",
	"le", "la", "les", "un", "une", "des",
)

// structuredList turns category/items lines into list cards. The card cap is
// checked once per line.
func structuredList(text string, lang Language, maxCards int, withDifficulty bool) []Card {
	phrases := phrasesFor(lang)
	cards := []Card{}
	for _, line := range nonEmptyLines(text) {
		if len(cards) >= maxCards {
			break
		}
		var card Card
		var ok bool
		switch {
		case strings.Count(line, "-") >= 3:
			card, ok = dashListCard(line, phrases)
		case isBulletStructured(line):
			card, ok = bulletListCard(line, phrases)
		default:
			card, ok = shortDefinitionCard(line, phrases)
		}
		if !ok {
			continue
		}
		if withDifficulty {
			card.Difficulty = listDifficulty(card.Answer)
		}
		cards = append(cards, card)
	}
	return cards
}

func dashListCard(line string, phrases phrasebook) (Card, bool) {
	var parts []string
	for _, p := range strings.Split(line, "-") {
		p = strings.TrimSpace(p)
		if runeLen(p) > 2 {
			parts = append(parts, p)
		}
	}
	if len(parts) < 3 {
		return Card{}, false
	}

	category, items := parts[0], parts[1:]
	var answer []string
	if head := strings.Fields(category); len(head) >= 3 {
		category = strings.Join(head[:2], " ")
		answer = append(answer, "- "+strings.Join(head[2:], " ")+":")
	}
	for _, item := range items {
		answer = append(answer, "- "+item)
	}
	return listCard(category, answer, phrases), true
}

func bulletListCard(line string, phrases phrasebook) (Card, bool) {
	bullet := "•"
	if !strings.Contains(line, bullet) {
		bullet = "♦"
	}
	parts := strings.Split(line, bullet)
	category := strings.TrimSpace(parts[0])
	if category == "" {
		return Card{}, false
	}
	var answer []string
	for _, item := range parts[1:] {
		if item = strings.TrimSpace(item); item != "" {
			answer = append(answer, "- "+item)
		}
	}
	if len(answer) < 2 {
		return Card{}, false
	}
	return listCard(category, answer, phrases), true
}

func listCard(category string, answer []string, phrases phrasebook) Card {
	return Card{
		Question:       fmt.Sprintf(phrases.category, category),
		Answer:         strings.Join(answer, "\n"),
		Type:           TypeStructuredList,
		Score:          0.9,
		RelevanceScore: 0.9,
	}
}

// shortDefinitionCard handles lines such as "to withdraw to take money out
// of an account", where the term is followed by an article or copula.
func shortDefinitionCard(line string, phrases phrasebook) (Card, bool) {
	words := strings.Fields(line)
	if len(words) < 6 || len(words) > 25 {
		return Card{}, false
	}
	if !startsLower(line) && !(startsUpper(line) && strings.Contains(line, " ")) {
		return Card{}, false
	}
	for at := 1; at <= 4 && at < len(words); at++ {
		if !inSet(shortDefinitionMarkers, words[at]) {
			continue
		}
		definition := words[at:]
		if len(definition) < 3 {
			continue
		}
		term := strings.Join(words[:at], " ")
		return Card{
			Question:       fmt.Sprintf(phrases.shortMeaning, term),
			Answer:         strings.Join(definition, " "),
			Type:           TypeDefinition,
			Score:          0.8,
			RelevanceScore: 0.8,
		}, true
	}
	return Card{}, false
}

func listDifficulty(answer string) Difficulty {
	marks := strings.Count(answer, "\n") + strings.Count(answer, "•") + strings.Count(answer, "-")
	switch {
	case marks <= 3:
		return DifficultyEasy
	case marks <= 6:
		return DifficultyMedium
	default:
		return DifficultyHard
	}
}
