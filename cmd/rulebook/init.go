package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rulebookdev/rulebook/pkg/document"
	"github.com/rulebookdev/rulebook/pkg/presenter"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Scaffold a corpus directory with sample documents",
	Run: func(cmd *cobra.Command, _ []string) {
		override, _ := cmd.Flags().GetBool("override")
		root := corpusRoot()

		presenter.Section("Rulebook Corpus Setup")

		for _, class := range document.Classes {
			dir := filepath.Join(root, class.Dir())
			if err := os.MkdirAll(dir, 0o755); err != nil {
				presenter.Error(err, "failed to create corpus directory")
				os.Exit(1)
			}
		}

		for relPath, content := range sampleDocuments {
			path := filepath.Join(root, relPath)
			if _, err := os.Stat(path); err == nil && !override {
				presenter.Warning(fmt.Sprintf("%s already exists, skipping (use --override to replace)", path))
				continue
			}
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				presenter.Error(err, "failed to write sample document")
				os.Exit(1)
			}
			presenter.Success(fmt.Sprintf("wrote %s", path))
		}

		presenter.Separator()
		presenter.Info("  rulebook validate                  # Check the corpus")
		presenter.Info("  rulebook match src/app.ts          # Documents for a file")
		presenter.Info("  rulebook suggest \"write a store\"   # Skills for a task")
	},
}

var sampleDocuments = map[string]string{
	"rules/project-conventions.md": `---
name: project-conventions
description: Baseline conventions applied to every change
alwaysApply: true
---

- Keep changes small and focused.
- Update tests alongside behavior changes.
`,
	"rules/typescript-style.md": `---
name: typescript-style
description: TypeScript style for application sources
globs:
  - "src/**/*.ts"
  - "src/**/*.tsx"
---

- Prefer explicit return types on exported functions.
- No default exports.
`,
	"skills/managing-state.md": `---
name: managing-state
description: State management patterns. Use when creating global state stores or actions.
---

Define actions next to the state they mutate. Keep stores small.
`,
	"commands/review.md": `---
name: review
description: Run a structured code review
---

1. Read the full diff before commenting.
2. Check tests cover the changed behavior.
`,
}

func init() {
	initCmd.Flags().Bool("override", false, "Overwrite existing sample documents")
}
