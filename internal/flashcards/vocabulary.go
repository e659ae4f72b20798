package flashcards

import (
	"sort"
	"strings"
)

var vocabularyPOS = wordSet("NOUN", "VERB", "ADJ", "PROPN")

type vocabEntry struct {
	word     string
	pos      string
	sentence string
	count    int
}

// vocabulary builds one card per content lemma, most frequent first. It
// needs a part-of-speech tagger and returns no cards without one.
func vocabulary(text string, analyzer Analyzer, lang Language, maxCards int, withDifficulty bool) []Card {
	tokens, ok := analyzer.TagTokens(text, lang)
	if !ok {
		return []Card{}
	}
	stop := stopwordsFor(lang)

	entries := make(map[string]*vocabEntry)
	var order []*vocabEntry
	for _, tok := range tokens {
		if _, keep := vocabularyPOS[tok.POS]; !keep || tok.Stop || tok.Punct {
			continue
		}
		if runeLen(tok.Text) <= 3 || inSet(stop, tok.Text) {
			continue
		}
		lemma := strings.ToLower(tok.Lemma)
		if lemma == "" {
			lemma = strings.ToLower(tok.Text)
		}
		if _, common := commonFrenchVerbs[lemma]; common {
			continue
		}
		if e, seen := entries[lemma]; seen {
			e.count++
			continue
		}
		e := &vocabEntry{word: tok.Text, pos: tok.POS, sentence: strings.TrimSpace(tok.Sentence), count: 1}
		entries[lemma] = e
		order = append(order, e)
	}
	sort.SliceStable(order, func(i, j int) bool { return order[i].count > order[j].count })

	cards := []Card{}
	for _, e := range order {
		if len(cards) >= maxCards {
			break
		}
		if e.sentence == "" {
			continue
		}
		card := Card{
			Question:       e.word,
			Answer:         e.sentence,
			Type:           TypeVocabulary,
			Score:          roundScore(float64(e.count) * 0.1),
			RelevanceScore: roundScore(float64(e.count) * 0.1),
		}
		if withDifficulty {
			card.Difficulty = frequencyDifficulty(e.count)
		}
		cards = append(cards, card)
	}
	return cards
}

func frequencyDifficulty(count int) Difficulty {
	switch {
	case count > 3:
		return DifficultyEasy
	case count > 1:
		return DifficultyMedium
	default:
		return DifficultyHard
	}
}
