package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rulebookdev/rulebook/pkg/matcher"
	"github.com/rulebookdev/rulebook/pkg/presenter"
)

var matchCmd = &cobra.Command{
	Use:   "match <file-path>",
	Short: "List the documents applicable to a file path",
	Long: `Test a file path against every glob-scoped document. Always-apply
documents come first, then matches ordered by pattern specificity.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		c := loadCorpus(ctx)

		matches, conflicts := matcher.ResolveConflicts(matcher.MatchByPath(c, args[0]))

		asJSON, _ := cmd.Flags().GetBool("json")
		if err := printMatches(matches, conflicts, asJSON); err != nil {
			presenter.Error(err, "failed to render matches")
			os.Exit(1)
		}
	},
}

func init() {
	matchCmd.Flags().Bool("json", false, "Output matches as JSON")
}
