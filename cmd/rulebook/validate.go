package main

import (
	"errors"
	"fmt"
	"os"

	udiff "github.com/aymanbagabas/go-udiff"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/rulebookdev/rulebook/pkg/corpus"
	"github.com/rulebookdev/rulebook/pkg/document"
	"github.com/rulebookdev/rulebook/pkg/presenter"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the corpus and report malformed or conflicting documents",
	Long: `Load the corpus strictly and report every malformed header and duplicate
name in one pass. Duplicate documents are shown with a diff of the two
copies to help reconcile them.`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()

		// Always strict here, regardless of --allow-duplicates: the whole
		// point of validate is to surface conflicts.
		c, err := corpus.NewLoader(corpusRoot()).Load(ctx)
		if err != nil {
			reportValidationErrors(err)
			os.Exit(1)
		}

		presenter.Success(fmt.Sprintf("corpus valid: %d documents (%d rules, %d skills, %d commands)",
			c.Len(),
			len(c.ByClass(document.ClassRule)),
			len(c.ByClass(document.ClassSkill)),
			len(c.ByClass(document.ClassCommand)),
		))
	},
}

func reportValidationErrors(err error) {
	presenter.Section("Corpus validation failed")

	errs := []error{err}
	var merr *multierror.Error
	if errors.As(err, &merr) {
		errs = merr.Errors
	}

	for _, e := range errs {
		var dup *corpus.DuplicateNameError
		if errors.As(e, &dup) {
			presenter.Error(e, "duplicate name")
			printDuplicateDiff(dup)
			continue
		}
		presenter.Error(e, "parse error")
	}
}

// printDuplicateDiff renders a unified diff between the first two
// copies of a duplicated document, the fastest way to see whether one
// is an edit of the other or an unrelated variant.
func printDuplicateDiff(dup *corpus.DuplicateNameError) {
	if len(dup.Paths) < 2 {
		return
	}

	a, errA := os.ReadFile(dup.Paths[0])
	b, errB := os.ReadFile(dup.Paths[1])
	if errA != nil || errB != nil {
		return
	}

	presenter.Info(udiff.Unified(dup.Paths[0], dup.Paths[1], string(a), string(b)))
}
