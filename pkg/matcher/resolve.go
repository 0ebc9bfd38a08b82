package matcher

import "github.com/rulebookdev/rulebook/pkg/document"

// Conflict groups matches whose documents share a class and name:
// divergent copies of the same guidance that both matched one query.
type Conflict struct {
	Class   document.Class
	Name    string
	Matches []Match
}

// ResolveConflicts surfaces duplicate-name groups among the given
// matches. The match order is returned unchanged and duplicates are
// never collapsed; automatic resolution risks silently applying the
// wrong guidance, so the caller decides.
func ResolveConflicts(matches []Match) ([]Match, []Conflict) {
	byKey := make(map[string][]Match)
	var keys []string
	for _, m := range matches {
		key := string(m.Document.Class) + "/" + m.Document.Name
		if _, seen := byKey[key]; !seen {
			keys = append(keys, key)
		}
		byKey[key] = append(byKey[key], m)
	}

	var conflicts []Conflict
	for _, key := range keys {
		group := byKey[key]
		if len(group) < 2 {
			continue
		}
		conflicts = append(conflicts, Conflict{
			Class:   group[0].Document.Class,
			Name:    group[0].Document.Name,
			Matches: group,
		})
	}

	return matches, conflicts
}
