package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/gobwas/glob"
	"github.com/spf13/cobra"

	"github.com/rulebookdev/rulebook/pkg/document"
	"github.com/rulebookdev/rulebook/pkg/presenter"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents in the corpus",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()
		c := loadCorpus(ctx)

		docs := c.Documents()
		if class, _ := cmd.Flags().GetString("class"); class != "" {
			docs = c.ByClass(document.Class(class))
		}

		if filter, _ := cmd.Flags().GetString("filter"); filter != "" {
			g, err := glob.Compile(filter)
			if err != nil {
				presenter.Error(err, "invalid --filter pattern")
				os.Exit(1)
			}
			var filtered []*document.Document
			for _, d := range docs {
				if g.Match(d.Name) {
					filtered = append(filtered, d)
				}
			}
			docs = filtered
		}

		if len(docs) == 0 {
			presenter.Info("no documents found")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tCLASS\tSCOPE\tDESCRIPTION")
		for _, d := range docs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.Name, d.Class, d.Scope(), d.Description)
		}
		w.Flush()
	},
}

func init() {
	listCmd.Flags().String("class", "", "Only list documents of this class (rule, skill, command)")
	listCmd.Flags().String("filter", "", "Glob pattern on document names, e.g. 'managing-*'")
}
