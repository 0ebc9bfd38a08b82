// Package corpus loads a directory tree of guidance documents into an
// immutable, deterministically ordered snapshot. Loading is strict:
// malformed headers and duplicate names abort the load rather than
// silently dropping or overriding documents.
package corpus

import (
	"github.com/google/uuid"

	"github.com/rulebookdev/rulebook/pkg/document"
)

// Corpus is an immutable snapshot of loaded documents. All methods are
// pure reads and safe for concurrent use.
type Corpus struct {
	id      string
	docs    []*document.Document
	byClass map[document.Class][]*document.Document
	byKey   map[string]*document.Document
}

// newCorpus builds a snapshot from documents already sorted by path.
// When duplicates are allowed, the first document by path order wins
// name lookup; all duplicates stay in Documents() so the matcher can
// surface the conflict.
func newCorpus(docs []*document.Document) *Corpus {
	c := &Corpus{
		id:      uuid.NewString(),
		docs:    docs,
		byClass: make(map[document.Class][]*document.Document),
		byKey:   make(map[string]*document.Document),
	}

	for _, d := range docs {
		c.byClass[d.Class] = append(c.byClass[d.Class], d)
		key := docKey(d.Class, d.Name)
		if _, exists := c.byKey[key]; !exists {
			c.byKey[key] = d
		}
	}

	return c
}

func docKey(class document.Class, name string) string {
	return string(class) + "/" + name
}

// ID returns the snapshot identifier, used for log correlation across
// reloads.
func (c *Corpus) ID() string {
	return c.id
}

// Documents returns all documents sorted by source path. The returned
// slice is shared and must not be mutated.
func (c *Corpus) Documents() []*document.Document {
	return c.docs
}

// ByClass returns the documents of one class sorted by source path.
func (c *Corpus) ByClass(class document.Class) []*document.Document {
	return c.byClass[class]
}

// Get looks up a document by class and name.
func (c *Corpus) Get(class document.Class, name string) (*document.Document, bool) {
	d, ok := c.byKey[docKey(class, name)]
	return d, ok
}

// Len returns the number of loaded documents.
func (c *Corpus) Len() int {
	return len(c.docs)
}
