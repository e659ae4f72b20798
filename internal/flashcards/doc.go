// Package flashcards turns raw study text into question/answer flashcards
// using rule-based heuristics: regex definition matching, keyword frequency,
// causal and numeric sentence selection, bilingual vocabulary pair splitting
// and structured list parsing.
//
// The pipeline is synchronous and free of side effects. Natural language
// processing and keyword ranking are optional capabilities supplied through
// the Analyzer and KeywordExtractor interfaces; without them the generator
// falls back to simpler heuristics instead of failing.
package flashcards
