package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("%s version %s\n", color.New(color.Bold).Sprint("valuesref"), version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
