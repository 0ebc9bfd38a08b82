package corpus

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulebookdev/rulebook/pkg/document"
)

func writeDoc(t *testing.T, root, relPath, content string) {
	t.Helper()
	path := filepath.Join(root, relPath)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func sampleCorpus(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	writeDoc(t, root, "rules/typescript-style.md", `---
name: typescript-style
description: TypeScript conventions
globs:
  - "src/**/*.ts"
---

Prefer explicit return types.
`)
	writeDoc(t, root, "rules/project-conventions.md", `---
name: project-conventions
description: Baseline conventions
alwaysApply: true
---

Keep commits small.
`)
	writeDoc(t, root, "skills/managing-state.md", `---
name: managing-state
description: Zustand patterns. Use when creating global state stores or actions.
---

Define actions inside the store.
`)
	writeDoc(t, root, "commands/review.md", `---
name: review
description: Run a structured code review
---

1. Read the diff.
`)

	return root
}

func TestLoad(t *testing.T) {
	root := sampleCorpus(t)

	c, err := Load(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, 4, c.Len())
	assert.NotEmpty(t, c.ID())

	rule, ok := c.Get(document.ClassRule, "typescript-style")
	require.True(t, ok)
	assert.Equal(t, []string{"src/**/*.ts"}, rule.Globs)
	assert.Contains(t, rule.Body, "explicit return types")

	skill, ok := c.Get(document.ClassSkill, "managing-state")
	require.True(t, ok)
	assert.Equal(t, document.ScopeIntent, skill.Scope())

	assert.Len(t, c.ByClass(document.ClassRule), 2)
	assert.Len(t, c.ByClass(document.ClassSkill), 1)
	assert.Len(t, c.ByClass(document.ClassCommand), 1)
}

func TestLoadMissingRoot(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not readable")
}

func TestLoadMissingClassDirs(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "rules/only-rule.md", `---
name: only-rule
description: The only document
---

Body.
`)

	c, err := Load(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
	assert.Empty(t, c.ByClass(document.ClassSkill))
}

func TestLoadDeterministicOrder(t *testing.T) {
	root := sampleCorpus(t)

	first, err := Load(context.Background(), root)
	require.NoError(t, err)
	second, err := Load(context.Background(), root)
	require.NoError(t, err)

	// Snapshot IDs differ, ordered content does not.
	assert.NotEqual(t, first.ID(), second.ID())
	require.Equal(t, first.Len(), second.Len())
	for i, d := range first.Documents() {
		assert.Equal(t, d.Path, second.Documents()[i].Path)
		assert.Equal(t, d.Name, second.Documents()[i].Name)
	}
}

func TestLoadDuplicateNames(t *testing.T) {
	root := t.TempDir()
	// Two divergent copies of the same rule, the regression observed in
	// real corpora where last-write-wins let both coexist undetected.
	writeDoc(t, root, "rules/file-naming.md", `---
name: file-naming
description: Use kebab-case file names
globs:
  - "src/**"
---

kebab-case.
`)
	writeDoc(t, root, "rules/naming/file-naming.md", `---
name: file-naming
description: Use camelCase file names
globs:
  - "src/**"
---

camelCase.
`)

	_, err := Load(context.Background(), root)
	require.Error(t, err)

	var dup *DuplicateNameError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, document.ClassRule, dup.Class)
	assert.Equal(t, "file-naming", dup.Name)
	assert.Len(t, dup.Paths, 2)
	assert.Contains(t, dup.Paths[0], "file-naming.md")
	assert.Contains(t, dup.Error(), "file-naming")
}

func TestLoadAllowDuplicates(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "skills/managing-state.md", `---
name: managing-state
description: Use when managing Zustand state
---

Variant one.
`)
	writeDoc(t, root, "skills/state/managing-state.md", `---
name: managing-state
description: Use when managing Redux state
---

Variant two.
`)

	c, err := NewLoader(root, WithAllowDuplicates()).Load(context.Background())
	require.NoError(t, err)

	// Both variants stay visible; name lookup resolves to the first by
	// path order.
	assert.Equal(t, 2, c.Len())
	d, ok := c.Get(document.ClassSkill, "managing-state")
	require.True(t, ok)
	assert.Contains(t, d.Path, filepath.Join("skills", "managing-state.md"))
}

func TestLoadCollectsAllErrors(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "rules/no-name.md", `---
description: Missing a name
---

Body.
`)
	writeDoc(t, root, "rules/no-frontmatter.md", "Just text.\n")
	writeDoc(t, root, "rules/ok.md", `---
name: ok
description: Fine
---

Body.
`)

	_, err := Load(context.Background(), root)
	require.Error(t, err)

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 2)
	assert.Contains(t, err.Error(), "no-name.md")
	assert.Contains(t, err.Error(), "no-frontmatter.md")
}

func TestLoadInvalidGlob(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "rules/broken-glob.md", `---
name: broken-glob
description: Bad pattern
globs:
  - "src/[oops"
---

Body.
`)

	_, err := Load(context.Background(), root)
	require.Error(t, err)

	var parseErr *document.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Reason, "invalid glob pattern")
}

func TestLoadIgnoresNonMarkdown(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "rules/ok.md", `---
name: ok
description: Fine
---

Body.
`)
	writeDoc(t, root, "rules/notes.txt", "not a document")
	writeDoc(t, root, "rules/.hidden.md.bak", "also not a document")

	c, err := Load(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
}
