package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export [package]",
	Short: "Write the annotated values document to a file",
	Long: `Writes the annotated YAML document of a values schema.

By default the file is named after the package (<name>.yaml) and written to
the current directory. Use -o - to write to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file, or - for stdout")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	if schemaService == nil {
		return errNoSchemaService
	}
	ref, err := parseRef(args[0])
	if err != nil {
		return err
	}

	file, err := schemaService.Export(commandContext(cmd), ref)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	if exportOutput == "-" {
		cmd.Print(file.Content)
		return nil
	}

	target := exportOutput
	if target == "" {
		target = file.FileName
	}
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		target = filepath.Join(target, file.FileName)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking output: %w", err)
	}

	if err := os.WriteFile(target, []byte(file.Content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", target, err)
	}
	cmd.Printf("Wrote %s\n", target)
	return nil
}
