package corpus

import (
	"context"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/rulebookdev/rulebook/pkg/logger"
)

// Store holds the current corpus snapshot and swaps it atomically on
// reload. Readers in flight keep the snapshot they started with; no
// reader ever observes a partially loaded corpus.
type Store struct {
	loader  *Loader
	current atomic.Pointer[Corpus]
}

// NewStore creates a store backed by the given loader. Call Load before
// serving queries.
func NewStore(loader *Loader) *Store {
	return &Store{loader: loader}
}

// Load performs the initial corpus load.
func (s *Store) Load(ctx context.Context) (*Corpus, error) {
	return s.Reload(ctx)
}

// Reload loads a fresh snapshot and swaps it in. A failed reload leaves
// the previous snapshot serving, so a corpus edit that introduces a
// parse error never takes down running queries.
func (s *Store) Reload(ctx context.Context) (*Corpus, error) {
	c, err := s.loader.Load(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "corpus reload failed; previous snapshot retained")
	}

	old := s.current.Swap(c)
	if old != nil {
		logger.G(ctx).WithFields(map[string]interface{}{
			"old_corpus_id": old.ID(),
			"new_corpus_id": c.ID(),
		}).Info("corpus snapshot swapped")
	}
	return c, nil
}

// Snapshot returns the current corpus, or nil before the first
// successful Load.
func (s *Store) Snapshot() *Corpus {
	return s.current.Load()
}
