package cli

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/valuesref/internal/core/domain"
)

var lookupJSON bool

var lookupCmd = &cobra.Command{
	Use:   "lookup [package] [path]",
	Short: "Describe one field of a values schema",
	Long: `Prints the type, default, requiredness and description of the field at
path. Paths use dots between keys and [] after arrays, e.g. env[].name.`,
	Args: cobra.ExactArgs(2),
	RunE: runLookup,
}

func init() {
	lookupCmd.Flags().BoolVar(&lookupJSON, "json", false, "output the field as JSON")
	rootCmd.AddCommand(lookupCmd)
}

// fieldJSON is the JSON form of a field description.
type fieldJSON struct {
	Path        string `json:"path"`
	Type        string `json:"type"`
	Value       string `json:"value,omitempty"`
	Required    bool   `json:"required"`
	Description string `json:"description,omitempty"`
	Line        int    `json:"line"`
}

func runLookup(cmd *cobra.Command, args []string) error {
	if schemaService == nil {
		return errNoSchemaService
	}
	ref, err := parseRef(args[0])
	if err != nil {
		return err
	}

	info, err := schemaService.Lookup(commandContext(cmd), ref, args[1])
	if errors.Is(err, domain.ErrLookupMiss) {
		return fmt.Errorf("no field at %q", args[1])
	}
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}

	if lookupJSON {
		data, err := json.MarshalIndent(fieldJSON{
			Path:        info.Path,
			Type:        info.Type,
			Value:       info.Value,
			Required:    info.Required,
			Description: info.Description,
			Line:        info.Ordinal + 1,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal field: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	required := "optional"
	if info.Required {
		required = "required"
	}
	cmd.Printf("Path:     %s\n", info.Path)
	cmd.Printf("Type:     %s\n", info.Type)
	if info.Value != "" {
		cmd.Printf("Default:  %s\n", info.Value)
	}
	cmd.Printf("Required: %s\n", required)
	cmd.Printf("Line:     %d\n", info.Ordinal+1)
	if info.Description != "" {
		cmd.Println()
		cmd.Println(info.Description)
	}
	return nil
}
