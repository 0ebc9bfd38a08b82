package corpus

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulebookdev/rulebook/pkg/document"
)

func TestStoreLoadAndSnapshot(t *testing.T) {
	root := sampleCorpus(t)
	store := NewStore(NewLoader(root))

	assert.Nil(t, store.Snapshot())

	c, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Same(t, c, store.Snapshot())
}

func TestStoreReloadSwapsSnapshot(t *testing.T) {
	root := sampleCorpus(t)
	store := NewStore(NewLoader(root))

	first, err := store.Load(context.Background())
	require.NoError(t, err)

	writeDoc(t, root, "rules/new-rule.md", `---
name: new-rule
description: Added after initial load
globs:
  - "docs/**"
---

Body.
`)

	second, err := store.Reload(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, first.ID(), second.ID())
	assert.Equal(t, first.Len()+1, second.Len())
	assert.Same(t, second, store.Snapshot())

	// The old snapshot stays intact for readers still holding it.
	_, ok := first.Get(document.ClassRule, "new-rule")
	assert.False(t, ok)
}

func TestStoreFailedReloadKeepsOldSnapshot(t *testing.T) {
	root := sampleCorpus(t)
	store := NewStore(NewLoader(root))

	first, err := store.Load(context.Background())
	require.NoError(t, err)

	writeDoc(t, root, "rules/broken.md", "no frontmatter here\n")

	_, err = store.Reload(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "previous snapshot retained")
	assert.Same(t, first, store.Snapshot())
}

func TestWatcherReloadsOnChange(t *testing.T) {
	root := sampleCorpus(t)
	store := NewStore(NewLoader(root))

	first, err := store.Load(context.Background())
	require.NoError(t, err)

	watcher, err := NewWatcher(store, root)
	require.NoError(t, err)
	defer watcher.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	watcher.Start(ctx)

	writeDoc(t, root, "rules/watched.md", `---
name: watched
description: Added while watching
globs:
  - "watched/**"
---

Body.
`)

	require.Eventually(t, func() bool {
		snap := store.Snapshot()
		return snap.ID() != first.ID() && snap.Len() == first.Len()+1
	}, 5*time.Second, 50*time.Millisecond)
}

func TestWatcherKeepsServingAfterBadEdit(t *testing.T) {
	root := sampleCorpus(t)
	store := NewStore(NewLoader(root))

	first, err := store.Load(context.Background())
	require.NoError(t, err)

	watcher, err := NewWatcher(store, root)
	require.NoError(t, err)
	defer watcher.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	watcher.Start(ctx)

	badPath := filepath.Join(root, "rules", "broken.md")
	require.NoError(t, os.WriteFile(badPath, []byte("no frontmatter\n"), 0o644))

	// The reload fails, the old snapshot keeps serving.
	time.Sleep(3 * reloadDebounce)
	assert.Same(t, first, store.Snapshot())

	require.NoError(t, os.Remove(badPath))
	require.Eventually(t, func() bool {
		return store.Snapshot().ID() != first.ID()
	}, 5*time.Second, 50*time.Millisecond)
}
