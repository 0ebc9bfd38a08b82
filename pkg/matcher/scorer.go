package matcher

import (
	"strings"
	"unicode"
)

// Scorer rates how well a trigger phrase fits a query. Higher is more
// relevant; zero or below means no match.
type Scorer interface {
	Score(query, trigger string) float64
}

// KeywordScorer counts significant words shared between the query and
// the trigger phrase, case-insensitively. This is a heuristic, not a
// guarantee: it has no notion of meaning, only word overlap, and exists
// to be replaced by something better behind the Scorer interface.
type KeywordScorer struct{}

// Score returns the number of significant query words that also appear
// in the trigger phrase.
func (KeywordScorer) Score(query, trigger string) float64 {
	queryWords := significantWords(query)
	triggerWords := significantWords(trigger)
	if len(queryWords) == 0 || len(triggerWords) == 0 {
		return 0
	}

	shared := 0
	for w := range queryWords {
		if _, ok := triggerWords[w]; ok {
			shared++
		}
	}
	return float64(shared)
}

// stopwords are words too common to signal intent.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "but": {},
	"i": {}, "we": {}, "you": {}, "my": {}, "your": {}, "it": {}, "this": {}, "that": {},
	"to": {}, "of": {}, "in": {}, "on": {}, "for": {}, "with": {}, "from": {}, "into": {},
	"is": {}, "are": {}, "be": {}, "was": {}, "do": {}, "does": {}, "can": {}, "should": {},
	"need": {}, "needs": {}, "want": {}, "wants": {}, "how": {}, "what": {}, "use": {}, "using": {}, "when": {},
}

// significantWords tokenizes text into a lowercased set, dropping
// stopwords and single letters. A trailing "s" is trimmed so that
// "stores" meets "store" and "actions" meets "action"; crude, but it
// covers the plural/singular drift between queries and trigger phrases.
func significantWords(text string) map[string]struct{} {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		if len(w) < 2 {
			continue
		}
		if _, ok := stopwords[w]; ok {
			continue
		}
		if len(w) > 3 && strings.HasSuffix(w, "s") {
			w = strings.TrimSuffix(w, "s")
		}
		set[w] = struct{}{}
	}
	return set
}
