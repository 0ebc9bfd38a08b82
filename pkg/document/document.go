// Package document defines the guidance document model: a markdown unit
// with a YAML frontmatter header (name, description, optional globs and
// alwaysApply) and an opaque body. Documents are grouped into classes
// (rules, skills, commands) derived from their corpus subdirectory.
package document

import (
	"fmt"
	"strings"
)

// Class identifies the kind of guidance document. Names must be unique
// within a class, not across the whole corpus.
type Class string

const (
	// ClassRule is a path-scoped guideline, typically bound to glob patterns.
	ClassRule Class = "rule"
	// ClassSkill is an intent-scoped capability matched by task description.
	ClassSkill Class = "skill"
	// ClassCommand is a templated procedure invoked by name.
	ClassCommand Class = "command"
)

// Classes lists all document classes in their canonical load order.
var Classes = []Class{ClassRule, ClassSkill, ClassCommand}

// Dir returns the corpus subdirectory holding documents of this class.
func (c Class) Dir() string {
	return string(c) + "s"
}

// ClassFromDir maps a corpus subdirectory name back to its class.
func ClassFromDir(dir string) (Class, bool) {
	for _, c := range Classes {
		if c.Dir() == dir {
			return c, true
		}
	}
	return "", false
}

// Scope describes how a document is activated.
type Scope int

const (
	// ScopeIntent means the document has no glob patterns and is matched
	// against a task description via its trigger phrase.
	ScopeIntent Scope = iota
	// ScopeGlob means the document is bound to file paths by glob patterns.
	ScopeGlob
	// ScopeAlways means the document applies to every path query.
	ScopeAlways
)

func (s Scope) String() string {
	switch s {
	case ScopeGlob:
		return "glob"
	case ScopeAlways:
		return "always"
	default:
		return "intent"
	}
}

// Metadata is the typed form of a document's frontmatter header.
type Metadata struct {
	Name        string   `mapstructure:"name"`
	Description string   `mapstructure:"description"`
	Globs       []string `mapstructure:"globs"`
	AlwaysApply bool     `mapstructure:"alwaysApply"`
}

// Document is a single loaded guidance document. Instances are immutable
// once returned by the parser.
type Document struct {
	Name        string   // Unique name within the class, from frontmatter
	Description string   // Free-text summary, may embed a "Use when ..." trigger
	Class       Class    // Derived from the corpus subdirectory
	Globs       []string // Path patterns binding the document to files
	AlwaysApply bool     // Applies to every path query when true
	Body        string   // Markdown body with the frontmatter stripped
	Path        string   // Source file path, for error reporting
}

// Scope classifies how the document is activated. alwaysApply wins over
// glob patterns when both are present.
func (d *Document) Scope() Scope {
	switch {
	case d.AlwaysApply:
		return ScopeAlways
	case len(d.Globs) > 0:
		return ScopeGlob
	default:
		return ScopeIntent
	}
}

// triggerMarker introduces the trigger clause inside a description.
const triggerMarker = "use when"

// Trigger returns the intent trigger phrase: the portion of the
// description following "Use when". When the description carries no such
// clause the whole description is returned, so intent scoring always has
// text to work with.
func (d *Document) Trigger() string {
	lower := strings.ToLower(d.Description)
	idx := strings.Index(lower, triggerMarker)
	if idx < 0 {
		return d.Description
	}
	trigger := d.Description[idx+len(triggerMarker):]
	return strings.TrimSpace(strings.TrimLeft(trigger, " :,"))
}

// ParseError reports a malformed document header. Loading aborts on the
// first corpus scan that produces one; documents are never silently
// skipped.
type ParseError struct {
	Path   string // Offending file
	Reason string // What is missing or malformed
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}
