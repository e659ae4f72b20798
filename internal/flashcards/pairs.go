package flashcards

import (
	"regexp"
	"strings"
)

var (
	pairSeparators   = []string{" - ", " – ", " → ", " -> "}
	doubleSpaceSplit = regexp.MustCompile(`\s{2,}`)
)

// vocabularyPairs extracts term/translation cards from bilingual word lists,
// either one pair per line or a term line followed by its translation line.
func vocabularyPairs(text string, maxCards int, withDifficulty bool) []Card {
	lines := contentLines(text)
	if isConsecutiveLayout(lines) {
		return consecutivePairs(lines, maxCards, withDifficulty)
	}
	return sameLinePairs(lines, maxCards, withDifficulty)
}

func hasExplicitSeparator(line string) bool {
	if strings.Contains(line, "\t") {
		return true
	}
	for _, sep := range pairSeparators {
		if strings.Contains(line, sep) {
			return true
		}
	}
	return false
}

func isConsecutivePair(first, second string) bool {
	if first == "" || second == "" {
		return false
	}
	if hasExplicitSeparator(first) || hasExplicitSeparator(second) {
		return false
	}
	for _, line := range []string{first, second} {
		if runeLen(line) >= 150 {
			return false
		}
		if n := wordCount(line); n < 1 || n > 15 {
			return false
		}
	}
	if endsSentence(first) {
		return false
	}
	return hasFrenchAccent(second) || wordCount(first) <= 5
}

func isConsecutiveLayout(lines []string) bool {
	if len(lines) <= 5 {
		return false
	}
	var matches int
	for i := 0; i+1 < len(lines); i++ {
		if isConsecutivePair(lines[i], lines[i+1]) {
			matches++
		}
	}
	return float64(matches)/float64(len(lines)-1) > 0.5
}

func consecutivePairs(lines []string, maxCards int, withDifficulty bool) []Card {
	cards := []Card{}
	for i := 0; i+1 < len(lines) && len(cards) < maxCards; {
		first, second := lines[i], lines[i+1]
		if !isConsecutivePair(first, second) {
			i++
			continue
		}
		card := Card{
			Question:       first,
			Answer:         second,
			Type:           TypeVocabularyPair,
			Score:          1.0,
			RelevanceScore: 1.0,
		}
		if withDifficulty {
			card.Difficulty = pairDifficulty(wordCount(first)+wordCount(second), 8)
		}
		cards = append(cards, card)
		i += 2
	}
	return cards
}

func sameLinePairs(lines []string, maxCards int, withDifficulty bool) []Card {
	cards := []Card{}
	for _, line := range lines {
		if len(cards) >= maxCards {
			break
		}
		term, translation, ok := splitPair(line)
		if !ok || !validPairSide(term) || !validPairSide(translation) {
			continue
		}
		card := Card{
			Question:       term,
			Answer:         translation,
			Type:           TypeVocabularyPair,
			Score:          1.0,
			RelevanceScore: 1.0,
		}
		if withDifficulty {
			card.Difficulty = pairDifficulty(wordCount(term)+wordCount(translation), 6)
		}
		cards = append(cards, card)
	}
	return cards
}

// splitPair tries, in order: a tab, a separator token, a run of two or more
// spaces and finally the language boundary heuristic.
func splitPair(line string) (string, string, bool) {
	if before, after, found := strings.Cut(line, "\t"); found {
		return strings.TrimSpace(before), strings.TrimSpace(after), true
	}
	for _, sep := range pairSeparators {
		if before, after, found := strings.Cut(line, sep); found {
			return strings.TrimSpace(before), strings.TrimSpace(after), true
		}
	}
	if loc := doubleSpaceSplit.FindStringIndex(line); loc != nil {
		return strings.TrimSpace(line[:loc[0]]), strings.TrimSpace(line[loc[1]:]), true
	}
	words := strings.Fields(line)
	if len(words) < 2 {
		return "", "", false
	}
	at := languageBoundary(words)
	return strings.Join(words[:at], " "), strings.Join(words[at:], " "), true
}

func validPairSide(side string) bool {
	n := wordCount(side)
	return hasLetter(side) && n >= 1 && n <= 10
}

func pairDifficulty(words, mediumMax int) Difficulty {
	switch {
	case words <= 3:
		return DifficultyEasy
	case words <= mediumMax:
		return DifficultyMedium
	default:
		return DifficultyHard
	}
}
