package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rulebookdev/rulebook/pkg/matcher"
	"github.com/rulebookdev/rulebook/pkg/presenter"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <task description>",
	Short: "Rank skills relevant to a task description",
	Long: `Score every intent-scoped skill against a task description and list
the relevant ones. Scoring is a keyword-overlap heuristic: it finds
skills whose trigger phrase shares significant words with the task, no
more and no less.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		c := loadCorpus(ctx)

		query := strings.Join(args, " ")
		matches, conflicts := matcher.ResolveConflicts(matcher.MatchByIntent(c, query))

		asJSON, _ := cmd.Flags().GetBool("json")
		if err := printMatches(matches, conflicts, asJSON); err != nil {
			presenter.Error(err, "failed to render matches")
			os.Exit(1)
		}
	},
}

func init() {
	suggestCmd.Flags().Bool("json", false, "Output matches as JSON")
}
