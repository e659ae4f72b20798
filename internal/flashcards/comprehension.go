package flashcards

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

const (
	maxDefinitionCards = 10
	maxEntityCards     = 5
	maxConceptCards    = 5
	maxReasoningCards  = 3
	maxNumericCards    = 3
	maxConceptTerms    = 10
)

// Ordered, first match wins. Group 1 is the term, group 2 the definition.
var definitionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(.+?)\s+(?:est|sont)\s+((?:(?:un|une|le|la|les|des)\s+|l['’]).+)$`),
	regexp.MustCompile(`(?i)^(.+?)\s+(?:se définit comme|désigne|signifie|correspond à|consiste à|consiste en)\s+(.+)$`),
	regexp.MustCompile(`(?i)^on appelle\s+(.+?)\s+((?:(?:un|une|le|la|les|des)\s+|l['’]).+)$`),
	regexp.MustCompile(`(?i)^(.+?),\s*c'est-à-dire\s+(.+)$`),
	regexp.MustCompile(`(?i)^(.+?)\s+(?:is|are)\s+((?:a|an|the)\s+.+)$`),
	regexp.MustCompile(`(?i)^(.+?)\s+(?:is defined as|refers to|means|consists of)\s+(.+)$`),
	regexp.MustCompile(`(?i)^(.+?),\s*(?:that is|i\.e\.),?\s+(.+)$`),
}

var causalMarkers = phraseMatcher(
	"car", "parce que", "donc", "ainsi", "permet", "grâce à", "à cause de",
	"because", "since", "therefore", "thus", "so", "as a result", "due to", "thanks to",
)

var (
	hasDigit       = regexp.MustCompile(`\d`)
	leadingNumber  = regexp.MustCompile(`\d+(?:[.,]\d+)*`)
	numericSignals = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:[$€£]\s?\d|\d(?:[\d\s.,]*\d)?\s?(?:€|\$|£|euros?|dollars?|eur\b|usd\b))`),
		regexp.MustCompile(`\d+(?:[.,]\d+)?\s?%`),
		regexp.MustCompile(`\b(?:1\d{3}|20\d{2})\b`),
		regexp.MustCompile(`(?i)\d+\s*(?:ans|an|années|année|mois|semaines|semaine|jours|jour|heures|heure|h|minutes|min|years|year|months|month|weeks|week|days|day|hours|hour)(?:[^\p{L}]|$)`),
		regexp.MustCompile(`(?i)\d+\s*(?:-|–|à|to)\s*\d+`),
	}
	salaryWords = phraseMatcher("salaire", "salaires", "pay", "salary", "wage", "wages")
	priceWords  = phraseMatcher("prix", "price", "prices", "cost", "costs", "coût", "coûts")
	rateWords   = phraseMatcher("rate", "hour", "hourly", "taux", "heure")
)

func definitionCards(sentences []string, lang Language) []Card {
	phrases := phrasesFor(lang)
	var cards []Card
	for _, s := range sentences {
		if len(cards) >= maxDefinitionCards {
			break
		}
		if n := wordCount(s); n < 5 || n > 50 {
			continue
		}
		term, definition, ok := matchDefinition(definitionPatterns, s)
		if !ok {
			continue
		}
		if n := wordCount(term); n < 2 || n > 12 {
			continue
		}
		if wordCount(definition) < 3 || runeLen(definition) >= 300 {
			continue
		}
		cards = append(cards, Card{
			Question: fmt.Sprintf(phrases.definition, term),
			Answer:   definition,
			Type:     TypeDefinition,
			Score:    0.9,
		})
	}
	return cards
}

// matchDefinition applies patterns in order and stops at the first match,
// even when the captured parts are later rejected by the caller.
func matchDefinition(patterns []*regexp.Regexp, sentence string) (string, string, bool) {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(sentence); m != nil {
			return strings.TrimSpace(m[1]), strings.TrimSpace(m[2]), true
		}
	}
	return "", "", false
}

func entityCards(text string, sentences []string, analyzer Analyzer, lang Language) []Card {
	entities, ok := analyzer.FindEntities(text, lang)
	if !ok {
		return nil
	}
	phrases := phrasesFor(lang)
	seen := make(map[string]bool)
	var cards []Card
	for _, ent := range entities {
		if len(cards) >= maxEntityCards {
			break
		}
		name := strings.TrimSpace(ent.Text)
		key := strings.ToLower(name)
		if name == "" || seen[key] {
			continue
		}
		seen[key] = true

		tmpl, ok := phrases.entity[ent.Label]
		if !ok {
			continue
		}
		context := ""
		for _, s := range sentences {
			if strings.Contains(s, name) && wordCount(s) > 10 {
				context = s
				break
			}
		}
		if context == "" {
			continue
		}
		cards = append(cards, Card{
			Question: fmt.Sprintf(tmpl, name),
			Answer:   context,
			Type:     TypeEntity,
			Score:    0.8,
		})
	}
	return cards
}

type termCount struct {
	term  string
	count int
}

// keyTerms ranks candidate concept terms. TF-IDF is used when an extractor is
// configured and there are enough sentences to compare; otherwise words and
// bigrams seen at least twice are ranked by frequency.
func keyTerms(sentences []string, keywords KeywordExtractor, lang Language) []string {
	stop := stopwordsFor(lang)
	if keywords != nil && len(sentences) >= 3 {
		if terms := keywords.Keywords(sentences, stop, maxConceptTerms); len(terms) > 0 {
			return terms
		}
	}

	counts := make(map[string]int)
	var order []string
	add := func(term string) {
		if counts[term] == 0 {
			order = append(order, term)
		}
		counts[term]++
	}
	for _, s := range sentences {
		words := lowerWords(s)
		for i, w := range words {
			if _, isStop := stop[w]; !isStop && runeLen(w) > 4 {
				add(w)
			}
			if i+1 < len(words) {
				_, stopA := stop[w]
				_, stopB := stop[words[i+1]]
				bigram := w + " " + words[i+1]
				if !stopA && !stopB && runeLen(bigram) >= 8 {
					add(bigram)
				}
			}
		}
	}

	ranked := make([]termCount, 0, len(order))
	for _, term := range order {
		if counts[term] >= 2 {
			ranked = append(ranked, termCount{term, counts[term]})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].count > ranked[j].count })

	terms := make([]string, 0, maxConceptTerms)
	for _, tc := range ranked {
		if len(terms) == maxConceptTerms {
			break
		}
		terms = append(terms, tc.term)
	}
	return terms
}

func conceptCards(sentences []string, keywords KeywordExtractor, lang Language) []Card {
	phrases := phrasesFor(lang)
	var cards []Card
	for _, term := range keyTerms(sentences, keywords, lang) {
		if len(cards) >= maxConceptCards {
			break
		}
		longest := ""
		for _, s := range sentences {
			if containsFold(s, term) && runeLen(s) > runeLen(longest) {
				longest = s
			}
		}
		if longest == "" {
			continue
		}
		cards = append(cards, Card{
			Question: fmt.Sprintf(phrases.concept, term),
			Answer:   longest,
			Type:     TypeConcept,
			Score:    0.6,
		})
	}
	return cards
}

func reasoningCards(sentences []string, analyzer Analyzer, lang Language) []Card {
	phrases := phrasesFor(lang)
	var cards []Card
	for _, s := range sentences {
		if len(cards) >= maxReasoningCards {
			break
		}
		n := wordCount(s)
		if n < 8 || n > 40 || !causalMarkers.MatchString(s) {
			continue
		}
		cards = append(cards, Card{
			Question: whyQuestion(s, n, analyzer, lang, phrases),
			Answer:   s,
			Type:     TypeReasoning,
			Score:    0.5,
		})
	}
	return cards
}

func whyQuestion(sentence string, words int, analyzer Analyzer, lang Language, phrases phrasebook) string {
	if tokens, ok := analyzer.TagTokens(sentence, lang); ok {
		for _, tok := range tokens {
			if tok.Dep == "nsubj" || tok.Dep == "nsubjpass" {
				return fmt.Sprintf(phrases.whySubject, tok.Text)
			}
		}
	}
	context := 3
	if words >= 10 {
		context = 5
	}
	return fmt.Sprintf(phrases.whyContext, firstWords(sentence, context))
}

func numericCards(sentences []string, lang Language) []Card {
	phrases := phrasesFor(lang)
	var cards []Card
	for _, s := range sentences {
		if len(cards) >= maxNumericCards {
			break
		}
		if n := wordCount(s); n < 5 || n > 35 || !hasDigit.MatchString(s) {
			continue
		}
		if !hasNumericSignal(s) || leadingNumber.FindString(s) == "" {
			continue
		}
		cards = append(cards, Card{
			Question: fmt.Sprintf(numericTemplate(s, phrases), firstWords(s, 6)),
			Answer:   s,
			Type:     TypeNumericFact,
			Score:    0.7,
		})
	}
	return cards
}

func hasNumericSignal(s string) bool {
	for _, re := range numericSignals {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

func numericTemplate(s string, phrases phrasebook) string {
	switch {
	case salaryWords.MatchString(s):
		return phrases.salary
	case priceWords.MatchString(s):
		return phrases.price
	case rateWords.MatchString(s):
		return phrases.hourlyRate
	default:
		return phrases.numeric
	}
}

// comprehension runs the five sentence extractors and concatenates their
// output in a fixed order.
func comprehension(text string, sentences []string, analyzer Analyzer, keywords KeywordExtractor, lang Language) []Card {
	var cards []Card
	cards = append(cards, definitionCards(sentences, lang)...)
	cards = append(cards, entityCards(text, sentences, analyzer, lang)...)
	cards = append(cards, conceptCards(sentences, keywords, lang)...)
	cards = append(cards, reasoningCards(sentences, analyzer, lang)...)
	cards = append(cards, numericCards(sentences, lang)...)
	return cards
}
