package flashcards

import "strings"

var (
	dutchArticles = wordSet("de", "het", "een")

	dutchVerbs = wordSet(
		"zijn", "hebben", "worden", "gaan", "komen", "maken", "doen", "zeggen", "geven", "nemen",
		"zien", "weten", "kunnen", "moeten", "willen", "zullen", "mogen", "staan", "liggen", "zitten",
		"houden", "brengen", "denken", "vinden", "werken", "kijken", "spelen", "lopen", "wonen",
		"betalen", "kopen", "afzetten", "inloggen", "aanmelden", "uitloggen", "opzoeken", "invullen",
		"afspreken",
	)

	dutchPrepositions = wordSet(
		"in", "op", "aan", "met", "van", "voor", "naar", "bij", "uit", "over", "door", "om", "tot",
		"onder", "tegen", "zonder", "achter", "na", "tussen",
	)
)

func inSet(set map[string]struct{}, word string) bool {
	_, ok := set[strings.ToLower(word)]
	return ok
}

// languageBoundary returns the index of the first word of the translation in
// a line holding a Dutch term followed by its French translation. The sweep
// keeps the first split with the highest score, and falls back to an even
// split when no position scores at least 2.
func languageBoundary(words []string) int {
	best, bestScore := 0, 0.0
	for i := 1; i < len(words); i++ {
		score := boundaryScore(words, i)
		if best == 0 || score > bestScore {
			best, bestScore = i, score
		}
	}
	if best == 0 || bestScore < 2 {
		return len(words) / 2
	}
	return best
}

func boundaryScore(words []string, i int) float64 {
	left, right := words[:i], words[i:]
	leftText, rightText := strings.Join(left, " "), strings.Join(right, " ")
	last := left[len(left)-1]
	next := right[0]

	var score float64
	if hasFrenchAccent(rightText) {
		score += 3
	}
	if startsWithFrenchAccent(next) {
		score += 2
	}
	if inSet(dutchArticles, last) {
		score -= 3
	}
	if i >= 2 && inSet(dutchArticles, words[i-2]) {
		score += 2
	}

	if inSet(dutchVerbs, last) {
		if inSet(dutchPrepositions, next) {
			score--
		} else {
			score += 2
		}
	}

	if inSet(dutchPrepositions, last) {
		switch {
		case hasFrenchAccent(next):
			score += 3
		case i >= 2 && inSet(dutchVerbs, words[i-2]):
			score += 2
		default:
			score--
		}
	}

	if abs(runeLen(leftText)-runeLen(rightText)) < 10 {
		score += 0.5
	}
	if abs(len(left)-len(right)) <= 1 {
		score++
	}
	return score
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
