package nlp

import (
	"log/slog"
	"strings"

	"github.com/jdkato/prose/v2"

	"flash-gen/internal/flashcards"
)

// Prose tags tokens and extracts named entities with the English models of
// prose. Other languages are reported as unavailable.
type Prose struct {
	logger *slog.Logger
}

func NewProse(logger *slog.Logger) *Prose {
	if logger == nil {
		logger = slog.Default()
	}
	return &Prose{logger: logger}
}

var pennToUniversal = map[string]string{
	"NN": "NOUN", "NNS": "NOUN",
	"NNP": "PROPN", "NNPS": "PROPN",
	"VB": "VERB", "VBD": "VERB", "VBG": "VERB", "VBN": "VERB", "VBP": "VERB", "VBZ": "VERB", "MD": "AUX",
	"JJ": "ADJ", "JJR": "ADJ", "JJS": "ADJ",
	"RB": "ADV", "RBR": "ADV", "RBS": "ADV", "WRB": "ADV",
	"PRP": "PRON", "PRP$": "PRON", "WP": "PRON", "WP$": "PRON",
	"DT": "DET", "PDT": "DET", "WDT": "DET",
	"IN": "ADP", "TO": "PART", "RP": "PART", "POS": "PART",
	"CC": "CCONJ", "CD": "NUM", "UH": "INTJ", "EX": "PRON",
	".": "PUNCT", ",": "PUNCT", ":": "PUNCT", "``": "PUNCT", "''": "PUNCT",
	"(": "PUNCT", ")": "PUNCT", "-LRB-": "PUNCT", "-RRB-": "PUNCT", "#": "SYM", "$": "SYM", "SYM": "SYM",
}

var entityLabels = map[string]string{
	"PERSON": "PER",
	"GPE":    "LOC",
	"LOC":    "LOC",
	"ORG":    "ORG",
	"EVENT":  "EVENT",
	"DATE":   "DATE",
}

func universalTag(penn string) string {
	if tag, ok := pennToUniversal[penn]; ok {
		return tag
	}
	return "X"
}

// Tag returns the tokens of every sentence in text. The first noun, proper
// noun or pronoun before the first verb of a sentence is marked as its
// nominal subject.
func (p *Prose) Tag(text string, lang flashcards.Language) ([]flashcards.Token, bool) {
	if lang != flashcards.English {
		return nil, false
	}
	doc, err := prose.NewDocument(text, prose.WithExtraction(false))
	if err != nil {
		p.logger.Warn("tag text", "error", err)
		return nil, false
	}

	var out []flashcards.Token
	for _, sent := range doc.Sentences() {
		sentDoc, err := prose.NewDocument(sent.Text, prose.WithSegmentation(false), prose.WithExtraction(false))
		if err != nil {
			continue
		}
		subjectFound, verbSeen := false, false
		for _, tok := range sentDoc.Tokens() {
			pos := universalTag(tok.Tag)
			t := flashcards.Token{
				Text:     tok.Text,
				Lemma:    lemma(tok.Text, tok.Tag),
				POS:      pos,
				Sentence: sent.Text,
				Punct:    pos == "PUNCT",
			}
			switch {
			case pos == "VERB" || pos == "AUX":
				verbSeen = true
			case !verbSeen && !subjectFound && (pos == "NOUN" || pos == "PROPN" || pos == "PRON"):
				t.Dep = "nsubj"
				subjectFound = true
			}
			out = append(out, t)
		}
	}
	return out, true
}

// lemma folds plural nouns and third person verbs onto their base form.
// Other inflections are only lowercased.
func lemma(word, penn string) string {
	w := strings.ToLower(word)
	switch penn {
	case "NNS", "NNPS", "VBZ":
	default:
		return w
	}
	switch {
	case len(w) > 4 && strings.HasSuffix(w, "ies"):
		return strings.TrimSuffix(w, "ies") + "y"
	case strings.HasSuffix(w, "sses"), strings.HasSuffix(w, "xes"), strings.HasSuffix(w, "zes"),
		strings.HasSuffix(w, "ches"), strings.HasSuffix(w, "shes"):
		return strings.TrimSuffix(w, "es")
	case strings.HasSuffix(w, "ss"), strings.HasSuffix(w, "us"), strings.HasSuffix(w, "is"):
		return w
	case len(w) > 3 && strings.HasSuffix(w, "s"):
		return strings.TrimSuffix(w, "s")
	}
	return w
}

// Entities returns the named entities of text with labels mapped to PER,
// LOC, ORG, EVENT and DATE. Unknown labels are passed through.
func (p *Prose) Entities(text string, lang flashcards.Language) ([]flashcards.Entity, bool) {
	if lang != flashcards.English {
		return nil, false
	}
	doc, err := prose.NewDocument(text, prose.WithSegmentation(false))
	if err != nil {
		p.logger.Warn("extract entities", "error", err)
		return nil, false
	}
	var out []flashcards.Entity
	for _, ent := range doc.Entities() {
		label, ok := entityLabels[ent.Label]
		if !ok {
			label = ent.Label
		}
		out = append(out, flashcards.Entity{Text: ent.Text, Label: label})
	}
	return out, true
}
