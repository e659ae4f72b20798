package flashcards

import "strings"

const (
	pairLikeThreshold   = 0.6
	structuredThreshold = 0.4
)

// DetectContentType inspects the line structure of text and returns the mode
// it should be generated with, or false when the requested mode stands.
// Vocabulary pairs are checked before structured lists since many structured
// lists also contain dashes.
func DetectContentType(text string) (Mode, bool) {
	lines := nonEmptyLines(text)
	if len(lines) < 3 {
		return "", false
	}

	var valid, pairLike, structured int
	for _, line := range lines {
		if isMetadataLine(line) {
			continue
		}
		valid++
		if isPairLikeLine(line) {
			pairLike++
		}
		if isDashStructured(line) || isBulletStructured(line) {
			structured++
		}
	}
	if valid == 0 {
		return "", false
	}

	if float64(pairLike)/float64(valid) > pairLikeThreshold {
		return ModeVocabularyPairs, true
	}
	if valid >= 3 && float64(structured)/float64(valid) > structuredThreshold {
		return ModeStructuredList, true
	}
	return "", false
}

func isPairLikeLine(line string) bool {
	if runeLen(line) >= 100 {
		return false
	}
	words := wordCount(line)
	if words < 2 || words > 10 {
		return false
	}
	if strings.ContainsAny(line, ".!?") {
		return false
	}
	return hasAccent(line) || words <= 4
}

func isDashStructured(line string) bool {
	return strings.Count(line, "-")+strings.Count(line, "–") >= 3
}

func isBulletStructured(line string) bool {
	return strings.ContainsAny(line, "•♦")
}
