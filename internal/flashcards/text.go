package flashcards

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxTextRunes bounds the input processed by a single call.
const maxTextRunes = 50000

const (
	frenchAccents = "àâäéèêëïîôöùûüÿçœæÀÂÄÉÈÊËÏÎÔÖÙÛÜŸÇŒÆ"
	// latin diacritics found in French and Dutch word lists
	latinAccents = frenchAccents + "áíóúñÁÍÓÚÑ"
)

var (
	sentenceBoundary = regexp.MustCompile(`[.!?]+(?:\s+|$)`)
	wordPattern      = regexp.MustCompile(`[\p{L}\p{N}]+`)

	metadataPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^(?:page|p\.|pagina)\s*\d+(?:\s*(?:/|of|sur|van)\s*\d+)?$`),
		regexp.MustCompile(`^\d+(?:\s*/\s*\d+)?$`),
		regexp.MustCompile(`(?i)(?:©|copyright|\(c\)\s*\d{4}|tous droits réservés|all rights reserved|alle rechten voorbehouden)`),
		regexp.MustCompile(`(?i)^(?:vocabulaire|vocabulary|woordenlijst|woordenschat|liste de vocabulaire|word list)\s*:?$`),
		regexp.MustCompile(`(?i)^(?:chapitre|chapter|hoofdstuk|leçon|lesson|unité|unit|module)\s+\d+\s*:?.{0,40}$`),
		regexp.MustCompile(`^[-=_*~.•]{3,}$`),
	}
)

func truncateRunes(s string, limit int) (string, bool) {
	if utf8.RuneCountInString(s) <= limit {
		return s, false
	}
	runes := []rune(s)
	return string(runes[:limit]), true
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

// splitSentences segments text with the analyzer when it can, and with a
// terminal punctuation split otherwise. Sentences of 10 runes or fewer are
// dropped.
func splitSentences(text string, analyzer Analyzer, lang Language) []string {
	raw, ok := analyzer.SegmentSentences(text, lang)
	if !ok {
		raw = sentenceBoundary.Split(text, -1)
	}
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.Join(strings.Fields(s), " ")
		if runeLen(s) > 10 {
			out = append(out, s)
		}
	}
	return out
}

func nonEmptyLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func isMetadataLine(line string) bool {
	for _, re := range metadataPatterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// contentLines returns trimmed, non-empty lines that are not page markers,
// copyright notices or list headers.
func contentLines(text string) []string {
	var out []string
	for _, line := range nonEmptyLines(text) {
		if !isMetadataLine(line) {
			out = append(out, line)
		}
	}
	return out
}

func hasAccent(s string) bool {
	return strings.ContainsAny(s, latinAccents)
}

func hasFrenchAccent(s string) bool {
	return strings.ContainsAny(s, frenchAccents)
}

func startsWithFrenchAccent(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return r != utf8.RuneError && strings.ContainsRune(frenchAccents, r)
}

func hasLetter(s string) bool {
	return strings.IndexFunc(s, unicode.IsLetter) >= 0
}

func endsSentence(s string) bool {
	return strings.HasSuffix(s, ".") || strings.HasSuffix(s, "!") || strings.HasSuffix(s, "?")
}

func startsLower(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsLower(r)
}

func startsUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}

// lowerWords tokenizes text into lowercase letter/digit runs.
func lowerWords(text string) []string {
	return wordPattern.FindAllString(strings.ToLower(text), -1)
}

// phraseMatcher compiles a case-insensitive matcher for whole words or
// phrases. Boundaries are Unicode aware, unlike \b.
func phraseMatcher(phrases ...string) *regexp.Regexp {
	quoted := make([]string, len(phrases))
	for i, p := range phrases {
		quoted[i] = regexp.QuoteMeta(p)
	}
	return regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}])(?:` + strings.Join(quoted, "|") + `)(?:[^\p{L}\p{N}]|$)`)
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func firstWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}
