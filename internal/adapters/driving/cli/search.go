package cli

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/valuesref/internal/core/domain"
)

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [package] [query]",
	Short: "Search field paths of a values schema",
	Long: `Lists the field paths whose key contains the query, case-insensitively,
in document order.`,
	Args: cobra.ExactArgs(2),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", domain.DefaultSearchLimit, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

// searchResult is the JSON form of a match.
type searchResult struct {
	Path    string `json:"path"`
	Ordinal int    `json:"ordinal"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	if schemaService == nil {
		return errNoSchemaService
	}
	ref, err := parseRef(args[0])
	if err != nil {
		return err
	}

	matches, err := schemaService.Search(commandContext(cmd), ref, args[1], searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, matches)
	}
	return outputSearchTable(cmd, matches)
}

func outputSearchJSON(cmd *cobra.Command, matches []domain.PathMatch) error {
	results := make([]searchResult, len(matches))
	for i, m := range matches {
		results[i] = searchResult{Path: m.Path, Ordinal: m.Ordinal}
	}
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, matches []domain.PathMatch) error {
	if len(matches) == 0 {
		cmd.Println("No matching paths.")
		return nil
	}
	for _, m := range matches {
		cmd.Printf("  %s\n", m.Path)
	}
	return nil
}
