package flashcards

// Token is a tagged word produced by an Analyzer. POS uses universal tags
// (NOUN, VERB, ADJ, PROPN, PUNCT, ...). Dep carries a dependency label such
// as "nsubj" when the analyzer parses syntax, and is empty otherwise.
type Token struct {
	Text     string
	Lemma    string
	POS      string
	Dep      string
	Sentence string
	Stop     bool
	Punct    bool
}

// Entity is a named entity. Label is one of PER, LOC, ORG, EVENT, DATE or an
// analyzer specific label, which produces no card.
type Entity struct {
	Text  string
	Label string
}

// Analyzer is the optional natural language capability. Each method reports
// false when the capability is unavailable for the language, in which case
// the generator uses its fallback path.
type Analyzer interface {
	SegmentSentences(text string, lang Language) ([]string, bool)
	TagTokens(text string, lang Language) ([]Token, bool)
	FindEntities(text string, lang Language) ([]Entity, bool)
}

// KeywordExtractor ranks 1-3 word terms across a set of documents.
type KeywordExtractor interface {
	Keywords(docs []string, stopwords map[string]struct{}, limit int) []string
}

// NopAnalyzer is an Analyzer with every capability unavailable.
type NopAnalyzer struct{}

func (NopAnalyzer) SegmentSentences(string, Language) ([]string, bool) { return nil, false }
func (NopAnalyzer) TagTokens(string, Language) ([]Token, bool)         { return nil, false }
func (NopAnalyzer) FindEntities(string, Language) ([]Entity, bool)     { return nil, false }
