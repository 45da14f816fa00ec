// Package cli provides the valuesref command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/valuesref/internal/core/domain"
	"github.com/custodia-labs/valuesref/internal/core/ports/driven"
	"github.com/custodia-labs/valuesref/internal/core/ports/driving"
	"github.com/custodia-labs/valuesref/internal/logger"
	"github.com/custodia-labs/valuesref/internal/pkgref"
)

// version is set at build time with -ldflags "-X ...cli.version=...".
var version = "dev"

// Services holds the core services the commands call.
type Services struct {
	Schema   driving.SchemaService
	Bookmark driving.BookmarkService
	Renderer driving.DocumentRenderer
	Config   driven.ConfigStore
}

var (
	schemaService    driving.SchemaService
	bookmarkService  driving.BookmarkService
	documentRenderer driving.DocumentRenderer
	configStore      driven.ConfigStore

	verbose bool
)

var errNoSchemaService = errors.New("schema service not configured")

var rootCmd = &cobra.Command{
	Use:   "valuesref",
	Short: "Browse the values schema of a package",
	Long: `valuesref fetches the values JSON Schema of a package and shows it as an
annotated YAML document with path search and deep links.

A package is given as a package URL or a local file:
  pkg:artifacthub/<name>@<version>?id=<packageID>
  pkg:github/<owner>/<repo>@<ref>#<path/to/values.schema.json>
  ./values.schema.json`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug output to stderr")
}

// SetServices sets the services used by every command.
func SetServices(s Services) {
	schemaService = s.Schema
	bookmarkService = s.Bookmark
	documentRenderer = s.Renderer
	configStore = s.Config
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// parseRef parses a package argument.
func parseRef(arg string) (domain.PackageRef, error) {
	ref, err := pkgref.Parse(arg)
	if err != nil {
		return domain.PackageRef{}, fmt.Errorf("parsing package %q: %w", arg, err)
	}
	return ref, nil
}

// commandContext returns the command's context, or Background when the
// command was run without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// loadDocument parses arg and loads its document.
func loadDocument(cmd *cobra.Command, arg string, refresh bool) (*domain.Document, error) {
	if schemaService == nil {
		return nil, errNoSchemaService
	}
	ref, err := parseRef(arg)
	if err != nil {
		return nil, err
	}
	doc, err := schemaService.Load(commandContext(cmd), ref, domain.LoadOptions{Refresh: refresh})
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", ref.DisplayName(), err)
	}
	return doc, nil
}
