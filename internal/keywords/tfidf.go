// Package keywords ranks the important terms of a small corpus.
package keywords

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]{2,}`)

// TFIDF scores 1 to MaxN word n-grams by TF-IDF weight summed over all
// documents. The zero value is not usable; use NewTFIDF.
type TFIDF struct {
	MaxN int
}

func NewTFIDF() *TFIDF {
	return &TFIDF{MaxN: 3}
}

// Keywords returns up to limit terms ordered by importance. Each document is
// a row; rows are L2 normalized before summing so long sentences do not
// dominate. Ties are broken alphabetically.
func (t *TFIDF) Keywords(docs []string, stopwords map[string]struct{}, limit int) []string {
	if limit <= 0 || len(docs) == 0 {
		return nil
	}

	rows := make([]map[string]float64, 0, len(docs))
	df := make(map[string]int)
	for _, doc := range docs {
		tf := make(map[string]float64)
		for _, term := range t.terms(doc, stopwords) {
			tf[term]++
		}
		for term := range tf {
			df[term]++
		}
		rows = append(rows, tf)
	}
	if len(df) == 0 {
		return nil
	}

	n := float64(len(docs))
	totals := make(map[string]float64, len(df))
	for _, tf := range rows {
		var norm float64
		for term, count := range tf {
			w := count * (math.Log((1+n)/(1+float64(df[term]))) + 1)
			tf[term] = w
			norm += w * w
		}
		if norm == 0 {
			continue
		}
		norm = math.Sqrt(norm)
		for term, w := range tf {
			totals[term] += w / norm
		}
	}

	ranked := make([]string, 0, len(totals))
	for term := range totals {
		ranked = append(ranked, term)
	}
	sort.Slice(ranked, func(i, j int) bool {
		a, b := totals[ranked[i]], totals[ranked[j]]
		if math.Abs(a-b) > 1e-12 {
			return a > b
		}
		return ranked[i] < ranked[j]
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// terms tokenizes doc, drops stopwords and emits the n-grams of the
// remaining token sequence.
func (t *TFIDF) terms(doc string, stopwords map[string]struct{}) []string {
	var tokens []string
	for _, tok := range tokenPattern.FindAllString(strings.ToLower(doc), -1) {
		if _, stop := stopwords[tok]; !stop {
			tokens = append(tokens, tok)
		}
	}

	maxN := t.MaxN
	if maxN < 1 {
		maxN = 1
	}
	var out []string
	for n := 1; n <= maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}
