package cli

import (
	"github.com/spf13/cobra"
)

var pathsCmd = &cobra.Command{
	Use:   "paths [package]",
	Short: "List every field path of a values schema",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadDocument(cmd, args[0], false)
		if err != nil {
			return err
		}
		for _, p := range doc.Index.Paths() {
			cmd.Println(p)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pathsCmd)
}
