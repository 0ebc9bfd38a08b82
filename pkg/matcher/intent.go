package matcher

import (
	"sort"

	"github.com/rulebookdev/rulebook/pkg/corpus"
	"github.com/rulebookdev/rulebook/pkg/document"
)

// IntentMatcher scores skill documents against a task description. The
// scoring strategy is pluggable; the default keyword scorer can be
// swapped for something smarter without touching the matching contract.
type IntentMatcher struct {
	scorer Scorer
}

// IntentOption configures an IntentMatcher.
type IntentOption func(*IntentMatcher)

// WithScorer replaces the default keyword scorer.
func WithScorer(s Scorer) IntentOption {
	return func(m *IntentMatcher) {
		m.scorer = s
	}
}

// NewIntentMatcher creates an intent matcher, defaulting to
// KeywordScorer.
func NewIntentMatcher(opts ...IntentOption) *IntentMatcher {
	m := &IntentMatcher{scorer: KeywordScorer{}}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Match scores every intent-scoped skill against the task description
// and returns those with a positive score, ordered by score descending,
// name as tiebreak. Zero matches is a valid result.
func (m *IntentMatcher) Match(c *corpus.Corpus, taskDescription string) []Match {
	var matches []Match
	for _, d := range c.ByClass(document.ClassSkill) {
		if d.Scope() != document.ScopeIntent {
			continue
		}
		score := m.scorer.Score(taskDescription, d.Trigger())
		if score <= 0 {
			continue
		}
		matches = append(matches, Match{Document: d, Score: score})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Document.Name < matches[j].Document.Name
	})

	return matches
}

// MatchByIntent matches with the default keyword scorer.
func MatchByIntent(c *corpus.Corpus, taskDescription string) []Match {
	return NewIntentMatcher().Match(c, taskDescription)
}
