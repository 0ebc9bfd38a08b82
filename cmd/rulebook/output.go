package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rulebookdev/rulebook/pkg/matcher"
	"github.com/rulebookdev/rulebook/pkg/presenter"
)

// matchOutput is the JSON form of a match for CLI output.
type matchOutput struct {
	Name        string  `json:"name"`
	Class       string  `json:"class"`
	Description string  `json:"description"`
	Pattern     string  `json:"pattern,omitempty"`
	Score       float64 `json:"score,omitempty"`
	Path        string  `json:"path"`
}

func printMatches(matches []matcher.Match, conflicts []matcher.Conflict, asJSON bool) error {
	if asJSON {
		out := make([]matchOutput, 0, len(matches))
		for _, m := range matches {
			out = append(out, matchOutput{
				Name:        m.Document.Name,
				Class:       string(m.Document.Class),
				Description: m.Document.Description,
				Pattern:     m.Pattern,
				Score:       m.Score,
				Path:        m.Document.Path,
			})
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	if len(matches) == 0 {
		presenter.Info("no documents matched")
		return nil
	}

	for _, m := range matches {
		presenter.Info(fmt.Sprintf("%-30s %s", m.Document.Name, annotation(m)))
	}

	for _, c := range conflicts {
		var paths []string
		for _, m := range c.Matches {
			paths = append(paths, m.Document.Path)
		}
		presenter.Warning(fmt.Sprintf("conflicting copies of %s %q matched: %s",
			c.Class, c.Name, strings.Join(paths, ", ")))
	}

	return nil
}

func annotation(m matcher.Match) string {
	switch {
	case m.Score > 0:
		return fmt.Sprintf("score=%.0f", m.Score)
	case m.Pattern != "":
		return m.Pattern
	default:
		return "(always apply)"
	}
}
