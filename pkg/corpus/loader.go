package corpus

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"

	"github.com/rulebookdev/rulebook/pkg/document"
	"github.com/rulebookdev/rulebook/pkg/logger"
	"github.com/rulebookdev/rulebook/pkg/telemetry"
)

const documentExt = ".md"

// Loader scans a corpus root for guidance documents. The root contains
// one subdirectory per document class (rules/, skills/, commands/);
// missing subdirectories are fine, malformed documents are not.
type Loader struct {
	root            string
	allowDuplicates bool
}

// Option configures a Loader.
type Option func(*Loader)

// WithAllowDuplicates keeps duplicate-name documents in the corpus
// instead of failing the load. Every duplicate is logged and stays
// visible to the matcher, which surfaces the conflict per query.
func WithAllowDuplicates() Option {
	return func(l *Loader) {
		l.allowDuplicates = true
	}
}

// NewLoader creates a loader for the given corpus root.
func NewLoader(root string, opts ...Option) *Loader {
	l := &Loader{root: root}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load is a convenience wrapper that scans root once with default
// options.
func Load(ctx context.Context, root string) (*Corpus, error) {
	return NewLoader(root).Load(ctx)
}

// Load scans the corpus tree and returns an immutable snapshot. Every
// parse failure and duplicate name is collected before returning, so a
// single run reports everything that needs fixing; on any error no
// corpus is returned.
func (l *Loader) Load(ctx context.Context) (*Corpus, error) {
	if _, err := os.Stat(l.root); err != nil {
		return nil, errors.Wrapf(err, "corpus root %q is not readable", l.root)
	}

	var c *Corpus
	err := telemetry.WithSpan(ctx, "corpus.load", func(ctx context.Context) error {
		var docs []*document.Document
		var loadErrs *multierror.Error

		for _, class := range document.Classes {
			classDocs, errs := l.loadClass(class)
			docs = append(docs, classDocs...)
			loadErrs = multierror.Append(loadErrs, errs.WrappedErrors()...)
		}

		// Directory traversal order is not part of the contract; sort by
		// path so two loads of the same tree produce identical snapshots.
		sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })

		dupErrs := l.checkDuplicates(ctx, docs)
		loadErrs = multierror.Append(loadErrs, dupErrs...)

		if err := loadErrs.ErrorOrNil(); err != nil {
			return err
		}

		c = newCorpus(docs)
		telemetry.SetAttributes(ctx,
			attribute.String("corpus.id", c.ID()),
			attribute.Int("corpus.documents", c.Len()),
		)
		logger.G(ctx).WithFields(map[string]interface{}{
			"corpus_id": c.ID(),
			"documents": c.Len(),
			"root":      l.root,
		}).Debug("corpus loaded")
		return nil
	}, attribute.String("corpus.root", l.root))
	if err != nil {
		return nil, err
	}

	return c, nil
}

// loadClass walks one class subdirectory and parses every markdown
// file. Parse failures are collected, not returned early, so the
// caller can report all of them at once.
func (l *Loader) loadClass(class document.Class) ([]*document.Document, *multierror.Error) {
	dir := filepath.Join(l.root, class.Dir())
	if _, err := os.Stat(dir); err != nil {
		return nil, nil
	}

	var docs []*document.Document
	var errs *multierror.Error

	walkErr := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), documentExt) {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrapf(err, "failed to read %s", path)
		}

		doc, err := document.Parse(path, class, content)
		if err != nil {
			errs = multierror.Append(errs, err)
			return nil
		}

		// Validate patterns now so matching can never fail later.
		for _, pattern := range doc.Globs {
			if !doublestar.ValidatePattern(pattern) {
				errs = multierror.Append(errs, &document.ParseError{
					Path:   path,
					Reason: fmt.Sprintf("invalid glob pattern %q", pattern),
				})
				return nil
			}
		}

		docs = append(docs, doc)
		return nil
	})
	if walkErr != nil {
		errs = multierror.Append(errs, walkErr)
	}

	return docs, errs
}

// checkDuplicates finds documents sharing a name within one class.
// docs must already be path-sorted so reported paths are deterministic.
func (l *Loader) checkDuplicates(ctx context.Context, docs []*document.Document) []error {
	paths := make(map[string][]string)
	meta := make(map[string]*document.Document)
	for _, d := range docs {
		key := docKey(d.Class, d.Name)
		paths[key] = append(paths[key], d.Path)
		meta[key] = d
	}

	keys := make([]string, 0, len(paths))
	for key := range paths {
		if len(paths[key]) > 1 {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	var errs []error
	for _, key := range keys {
		d := meta[key]
		if l.allowDuplicates {
			logger.G(ctx).WithFields(map[string]interface{}{
				"class": d.Class,
				"name":  d.Name,
				"paths": paths[key],
			}).Warn("duplicate document name kept in corpus")
			continue
		}
		errs = append(errs, &DuplicateNameError{Class: d.Class, Name: d.Name, Paths: paths[key]})
	}

	return errs
}
