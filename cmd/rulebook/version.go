package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rulebookdev/rulebook/pkg/presenter"
	"github.com/rulebookdev/rulebook/pkg/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			out, err := version.Get().JSON()
			if err != nil {
				presenter.Error(err, "failed to render version")
				os.Exit(1)
			}
			fmt.Println(out)
			return
		}
		fmt.Println(version.Get().String())
	},
}

func init() {
	versionCmd.Flags().Bool("json", false, "Output version as JSON")
}
