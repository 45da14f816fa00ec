package cli

import (
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/valuesref/internal/core/domain"
)

var (
	renderRefresh bool
	renderColor   string
)

var renderCmd = &cobra.Command{
	Use:   "render [package]",
	Short: "Print the annotated values document",
	Long: `Prints the annotated YAML document of a values schema. Output is colored
when stdout is a terminal; use --color to force it on or off.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().BoolVar(&renderRefresh, "refresh", false, "bypass the schema cache")
	renderCmd.Flags().StringVar(&renderColor, "color", "auto", "colorize output (auto|on|off)")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	if documentRenderer == nil {
		return errNoSchemaService
	}
	doc, err := loadDocument(cmd, args[0], renderRefresh)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !useColor(renderColor, out) {
		cmd.Print(documentRenderer.Serialize(doc.Lines))
		return nil
	}
	if renderColor != "auto" {
		// color disables itself when stdout is not a terminal.
		color.NoColor = false
	}
	writeRows(out, documentRenderer.Render(doc.Lines))
	return nil
}

// useColor decides whether output to w is colored.
func useColor(mode string, w io.Writer) bool {
	switch mode {
	case "on", "always":
		return true
	case "off", "never":
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

var tokenColors = map[domain.TokenKind]*color.Color{
	domain.TokenComment:  color.New(color.FgHiBlack),
	domain.TokenKey:      color.New(color.FgCyan),
	domain.TokenValue:    color.New(color.FgGreen),
	domain.TokenBadge:    color.New(color.FgMagenta),
	domain.TokenRequired: color.New(color.FgYellow),
	domain.TokenPunct:    color.New(color.Reset),
}

// writeRows prints rows with one color per token kind.
func writeRows(w io.Writer, rows []domain.Row) {
	alt := color.New(color.FgHiBlack, color.Italic)
	for _, row := range rows {
		var b strings.Builder
		b.WriteString(strings.Repeat("  ", row.Depth))
		if row.Alt {
			text := row.Text()
			if !strings.HasPrefix(text, "#") {
				text = "# " + text
			}
			b.WriteString(alt.Sprint(text))
		} else {
			for _, tok := range row.Tokens {
				c, ok := tokenColors[tok.Kind]
				if !ok {
					b.WriteString(tok.Text)
					continue
				}
				b.WriteString(c.Sprint(tok.Text))
			}
		}
		b.WriteByte('\n')
		io.WriteString(w, b.String()) //nolint:errcheck
	}
}
