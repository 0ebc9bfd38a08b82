package matcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulebookdev/rulebook/pkg/corpus"
)

func writeDoc(t *testing.T, root, relPath, content string) {
	t.Helper()
	path := filepath.Join(root, relPath)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func loadCorpus(t *testing.T, root string, opts ...corpus.Option) *corpus.Corpus {
	t.Helper()
	c, err := corpus.NewLoader(root, opts...).Load(context.Background())
	require.NoError(t, err)
	return c
}

func pathCorpus(t *testing.T) *corpus.Corpus {
	t.Helper()
	root := t.TempDir()

	writeDoc(t, root, "rules/typescript-style.md", `---
name: typescript-style
description: TypeScript conventions
globs:
  - "src/**/*.ts"
---

Body.
`)
	writeDoc(t, root, "rules/src-layout.md", `---
name: src-layout
description: Source tree layout
globs:
  - "src/**"
---

Body.
`)
	writeDoc(t, root, "rules/lib-internals.md", `---
name: lib-internals
description: Internals of the lib tree
globs:
  - "src/lib/**"
---

Body.
`)
	writeDoc(t, root, "rules/project-conventions.md", `---
name: project-conventions
description: Baseline conventions
alwaysApply: true
---

Body.
`)
	writeDoc(t, root, "rules/web-sources.md", `---
name: web-sources
description: Web source conventions
globs:
  - "web/**/*.{js,jsx}"
---

Body.
`)

	return root2corpus(t, root)
}

func root2corpus(t *testing.T, root string) *corpus.Corpus {
	t.Helper()
	return loadCorpus(t, root)
}

func matchNames(matches []Match) []string {
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m.Document.Name)
	}
	return names
}

func TestMatchByPath(t *testing.T) {
	c := pathCorpus(t)

	t.Run("glob and always-apply matches ordered by specificity", func(t *testing.T) {
		matches := MatchByPath(c, "src/lib/foo.ts")

		// alwaysApply first, then src/lib/** (3 segments) before
		// src/**/*.ts (3 segments, name tiebreak) before src/** (2).
		assert.Equal(t, []string{
			"project-conventions",
			"lib-internals",
			"typescript-style",
			"src-layout",
		}, matchNames(matches))

		assert.Empty(t, matches[0].Pattern)
		assert.Equal(t, "src/lib/**", matches[1].Pattern)
	})

	t.Run("always-apply documents match every path", func(t *testing.T) {
		for _, path := range []string{"docs/readme.md", "Makefile", "deep/nested/tree/file.go"} {
			matches := MatchByPath(c, path)
			require.NotEmpty(t, matches, "path %s", path)
			assert.Equal(t, "project-conventions", matches[0].Document.Name)
		}
	})

	t.Run("non-matching paths excluded", func(t *testing.T) {
		matches := MatchByPath(c, "docs/readme.md")
		assert.Equal(t, []string{"project-conventions"}, matchNames(matches))
	})

	t.Run("brace alternation", func(t *testing.T) {
		assert.Contains(t, matchNames(MatchByPath(c, "web/app/index.jsx")), "web-sources")
		assert.Contains(t, matchNames(MatchByPath(c, "web/app/index.js")), "web-sources")
		assert.NotContains(t, matchNames(MatchByPath(c, "web/app/index.css")), "web-sources")
	})

	t.Run("leading dot-slash normalized", func(t *testing.T) {
		assert.Equal(t,
			matchNames(MatchByPath(c, "src/lib/foo.ts")),
			matchNames(MatchByPath(c, "./src/lib/foo.ts")),
		)
	})
}

func TestMatchByPathEmptyResult(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "rules/ts-only.md", `---
name: ts-only
description: TypeScript only
globs:
  - "src/**/*.ts"
---

Body.
`)
	c := root2corpus(t, root)

	matches := MatchByPath(c, "unrelated/binary.exe")
	assert.Empty(t, matches)
}

func TestSpecificity(t *testing.T) {
	assert.Equal(t, 0, specificity(""))
	assert.Equal(t, 1, specificity("*.md"))
	assert.Equal(t, 2, specificity("src/**"))
	assert.Equal(t, 3, specificity("src/lib/**"))
	assert.Greater(t, specificity("src/lib/**"), specificity("src/**"))
}

func TestBestPatternPicksMostSpecific(t *testing.T) {
	pattern, ok := bestPattern([]string{"src/**", "src/lib/**"}, "src/lib/foo.ts")
	require.True(t, ok)
	assert.Equal(t, "src/lib/**", pattern)

	_, ok = bestPattern([]string{"docs/**"}, "src/lib/foo.ts")
	assert.False(t, ok)
}

func TestResolveConflicts(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "rules/file-naming.md", `---
name: file-naming
description: kebab-case everywhere
globs:
  - "src/**"
---

kebab-case.
`)
	writeDoc(t, root, "rules/naming/file-naming.md", `---
name: file-naming
description: camelCase everywhere
globs:
  - "src/**"
---

camelCase.
`)
	c := loadCorpus(t, root, corpus.WithAllowDuplicates())

	matches := MatchByPath(c, "src/foo.ts")
	require.Len(t, matches, 2)

	resolved, conflicts := ResolveConflicts(matches)
	assert.Equal(t, matches, resolved)
	require.Len(t, conflicts, 1)
	assert.Equal(t, "file-naming", conflicts[0].Name)
	assert.Len(t, conflicts[0].Matches, 2)
}

func TestResolveConflictsNoDuplicates(t *testing.T) {
	c := pathCorpus(t)
	matches := MatchByPath(c, "src/lib/foo.ts")

	resolved, conflicts := ResolveConflicts(matches)
	assert.Equal(t, matches, resolved)
	assert.Empty(t, conflicts)
}
