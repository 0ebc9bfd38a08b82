package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rulebookdev/rulebook/pkg/document"
	"github.com/rulebookdev/rulebook/pkg/presenter"
)

var showCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a document's metadata and body",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		c := loadCorpus(ctx)
		name := args[0]

		classes := document.Classes
		if class, _ := cmd.Flags().GetString("class"); class != "" {
			classes = []document.Class{document.Class(class)}
		}

		found := false
		for _, class := range classes {
			d, ok := c.Get(class, name)
			if !ok {
				continue
			}
			found = true

			presenter.Section(fmt.Sprintf("%s (%s)", d.Name, d.Class))
			presenter.Info(d.Description)
			presenter.Info(fmt.Sprintf("scope: %s  source: %s", d.Scope(), d.Path))
			presenter.Separator()
			presenter.Info(d.Body)
		}

		if !found {
			presenter.Error(fmt.Errorf("no document named %q", name), "")
			os.Exit(1)
		}
	},
}

func init() {
	showCmd.Flags().String("class", "", "Only search this class (rule, skill, command)")
}
