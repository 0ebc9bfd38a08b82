package corpus

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"github.com/rulebookdev/rulebook/pkg/logger"
)

// reloadDebounce coalesces bursts of filesystem events (editors write
// several times per save) into a single reload.
const reloadDebounce = 250 * time.Millisecond

// Watcher triggers a store reload whenever a document under the corpus
// root changes.
type Watcher struct {
	store *Store
	root  string
	fsw   *fsnotify.Watcher
}

// NewWatcher creates a watcher over the corpus root. fsnotify does not
// recurse, so every existing directory under the root is registered;
// directories created later are picked up from their create events.
func NewWatcher(store *Store, root string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create filesystem watcher")
	}

	w := &Watcher{store: store, root: root, fsw: fsw}

	walkErr := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return fsw.Add(path)
		}
		return nil
	})
	if walkErr != nil {
		fsw.Close()
		return nil, errors.Wrapf(walkErr, "failed to watch corpus root %q", root)
	}

	return w, nil
}

// Start runs the watch loop until the context is cancelled or the
// watcher is closed.
func (w *Watcher) Start(ctx context.Context) {
	go w.loop(ctx)
}

func (w *Watcher) loop(ctx context.Context) {
	log := logger.G(ctx).WithField("root", w.root)

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			if event.Op.Has(fsnotify.Create) {
				// A new subdirectory needs its own watch.
				_ = w.fsw.Add(event.Name)
			}
			log.WithFields(map[string]interface{}{
				"path": event.Name,
				"op":   event.Op.String(),
			}).Debug("corpus change detected")
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
				fire = timer.C
			} else {
				timer.Reset(reloadDebounce)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.WithError(err).Warn("filesystem watcher error")

		case <-fire:
			timer = nil
			fire = nil
			if _, err := w.store.Reload(ctx); err != nil {
				log.WithError(err).Error("corpus reload failed")
			}
		}
	}
}

// relevant filters out events for files the loader would ignore.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if strings.HasSuffix(event.Name, documentExt) {
		return true
	}
	// Directory events matter for watch registration and removals; the
	// cheap heuristic is "no extension".
	return filepath.Ext(event.Name) == ""
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
