package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/valuesref/internal/adapters/driving/tui"
	"github.com/custodia-labs/valuesref/internal/core/ports/driven"
	"github.com/custodia-labs/valuesref/internal/core/ports/driving"
)

// TUIConfig holds the optional collaborators of the viewer.
type TUIConfig struct {
	// NewNavigator returns a fresh navigator for one viewer session.
	NewNavigator func() driving.Navigator

	Clipboard driven.Clipboard
	Watcher   driven.SchemaWatcher
}

// tuiConfig holds the current TUI configuration.
var tuiConfig *TUIConfig

var (
	viewAt      string
	viewRefresh bool
)

// viewCmd represents the view command.
var viewCmd = &cobra.Command{
	Use:   "view [package]",
	Short: "Browse a values schema in the terminal",
	Long: `Opens the interactive viewer for a values schema.

Controls:
  /         - Search paths
  ↑/↓, j/k  - Scroll (or move through suggestions)
  Enter     - Jump to the selected path
  c         - Copy the document to the clipboard
  d         - Download the document as <name>.yaml
  b         - Bookmark the active path
  r         - Retry / reload
  Esc       - Cancel search
  q         - Quit`,
	Args: cobra.ExactArgs(1),
	RunE: runView,
}

// SetTUIConfig sets the configuration for the view command.
func SetTUIConfig(config *TUIConfig) {
	tuiConfig = config
}

func init() {
	viewCmd.Flags().StringVar(&viewAt, "at", "", "open at a field path (deep link)")
	viewCmd.Flags().BoolVar(&viewRefresh, "refresh", false, "bypass the schema cache")
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	ref, err := parseRef(args[0])
	if err != nil {
		return err
	}

	ports := &tui.Ports{
		Schema:    schemaService,
		Renderer:  documentRenderer,
		Bookmarks: bookmarkService,
	}
	if tuiConfig != nil {
		if tuiConfig.NewNavigator != nil {
			ports.Navigator = tuiConfig.NewNavigator()
		}
		ports.Clipboard = tuiConfig.Clipboard
		ports.Watcher = tuiConfig.Watcher
	}

	app, err := tui.NewApp(ports, tui.Options{
		Ref:     ref,
		At:      viewAt,
		Refresh: viewRefresh,
	})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(commandContext(cmd))

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
