// Package matcher decides which documents of a corpus snapshot apply to
// a query: a file path tested against glob scopes, or a task description
// scored against skill trigger phrases. Matching is a pure read over an
// immutable snapshot and never fails; an empty result is the normal
// answer for an out-of-scope query.
package matcher

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/rulebookdev/rulebook/pkg/corpus"
	"github.com/rulebookdev/rulebook/pkg/document"
)

// Match is one applicable document for a query.
type Match struct {
	Document *document.Document
	// Pattern is the glob that matched for path queries; empty for
	// always-apply documents and intent matches.
	Pattern string
	// Score is the intent relevance; zero for path matches.
	Score float64
}

// MatchByPath returns the documents whose scope applies to filePath,
// ordered: always-apply documents first (by name), then glob matches by
// pattern specificity descending, name as tiebreak.
func MatchByPath(c *corpus.Corpus, filePath string) []Match {
	path := normalizePath(filePath)

	var always, scoped []Match
	for _, d := range c.Documents() {
		switch d.Scope() {
		case document.ScopeAlways:
			always = append(always, Match{Document: d})
		case document.ScopeGlob:
			if pattern, ok := bestPattern(d.Globs, path); ok {
				scoped = append(scoped, Match{Document: d, Pattern: pattern})
			}
		}
	}

	sort.Slice(always, func(i, j int) bool {
		return always[i].Document.Name < always[j].Document.Name
	})
	sort.Slice(scoped, func(i, j int) bool {
		si, sj := specificity(scoped[i].Pattern), specificity(scoped[j].Pattern)
		if si != sj {
			return si > sj
		}
		return scoped[i].Document.Name < scoped[j].Document.Name
	})

	return append(always, scoped...)
}

// bestPattern returns the most specific of the document's patterns that
// matches the path. Patterns were validated at load time, so a match
// error here is impossible and treated as a non-match.
func bestPattern(globs []string, path string) (string, bool) {
	best := ""
	found := false
	for _, pattern := range globs {
		ok, err := doublestar.Match(pattern, path)
		if err != nil || !ok {
			continue
		}
		if !found || specificity(pattern) > specificity(best) {
			best = pattern
			found = true
		}
	}
	return best, found
}

// specificity measures how narrowly a pattern targets paths: the number
// of path segments it spells out. "src/lib/**" beats "src/**" for a
// file both cover.
func specificity(pattern string) int {
	if pattern == "" {
		return 0
	}
	return strings.Count(pattern, "/") + 1
}

// normalizePath converts the query path to slash-separated relative
// form, matching how patterns are written in frontmatter.
func normalizePath(path string) string {
	p := filepath.ToSlash(path)
	p = strings.TrimPrefix(p, "./")
	return p
}
