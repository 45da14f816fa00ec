// Package document provides the scrolling annotated document view.
package document

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/custodia-labs/valuesref/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/valuesref/internal/core/domain"
)

const (
	gutter       = "  "
	targetGutter = "▸ "
	ellipsis     = "…"
)

// View displays rendered rows in a fixed-height window.
type View struct {
	styles *styles.Styles

	rows         []domain.Row
	scrollOffset int
	highlight    string

	width  int
	height int
}

// NewView creates an empty document view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles: s,
		width:  80,
		height: 20,
	}
}

// SetRows replaces the rows and scrolls to the top.
func (v *View) SetRows(rows []domain.Row) {
	v.rows = rows
	v.scrollOffset = 0
	v.highlight = ""
}

// Rows returns the displayed rows.
func (v *View) Rows() []domain.Row {
	return v.rows
}

// SetHighlight marks the rows of path as the navigation target.
func (v *View) SetHighlight(path string) {
	v.highlight = path
}

// Highlight returns the highlighted path.
func (v *View) Highlight() string {
	return v.highlight
}

// Offset returns the index of the top visible row.
func (v *View) Offset() int {
	return v.scrollOffset
}

// TopOrdinal returns the line ordinal of the top visible row.
func (v *View) TopOrdinal() int {
	if len(v.rows) == 0 {
		return 0
	}
	return v.rows[v.scrollOffset].Ordinal
}

// ScrollBy moves the window by delta rows. It reports whether the
// offset changed.
func (v *View) ScrollBy(delta int) bool {
	return v.ScrollToRow(v.scrollOffset + delta)
}

// ScrollToRow puts row at the top of the window, clamped to the scroll
// range. It reports whether the offset changed.
func (v *View) ScrollToRow(row int) bool {
	row = max(0, min(row, v.maxScrollOffset()))
	if row == v.scrollOffset {
		return false
	}
	v.scrollOffset = row
	return true
}

// PageUp scrolls up by one window.
func (v *View) PageUp() bool {
	return v.ScrollBy(-v.height)
}

// PageDown scrolls down by one window.
func (v *View) PageDown() bool {
	return v.ScrollBy(v.height)
}

// Top scrolls to the first row.
func (v *View) Top() bool {
	return v.ScrollToRow(0)
}

// Bottom scrolls to the last window.
func (v *View) Bottom() bool {
	return v.ScrollToRow(v.maxScrollOffset())
}

// maxScrollOffset returns the maximum scroll offset.
func (v *View) maxScrollOffset() int {
	return max(len(v.rows)-v.height, 0)
}

// Position describes the visible window, e.g. "12-40/310".
func (v *View) Position() string {
	if len(v.rows) == 0 {
		return ""
	}
	end := min(v.scrollOffset+v.height, len(v.rows))
	return fmt.Sprintf("%d-%d/%d", v.scrollOffset+1, end, len(v.rows))
}

// View renders the visible rows.
func (v *View) View() string {
	if len(v.rows) == 0 {
		return v.styles.Muted.Render("(empty schema)")
	}

	end := min(v.scrollOffset+v.height, len(v.rows))
	lines := make([]string, 0, end-v.scrollOffset)
	for i := v.scrollOffset; i < end; i++ {
		lines = append(lines, v.renderRow(v.rows[i]))
	}
	return strings.Join(lines, "\n")
}

// renderRow styles one row and truncates it to the view width.
func (v *View) renderRow(row domain.Row) string {
	var b strings.Builder
	if v.highlight != "" && row.Path == v.highlight {
		b.WriteString(v.styles.Title.Render(targetGutter))
	} else {
		b.WriteString(gutter)
	}

	indent := strings.Repeat("  ", row.Depth)
	b.WriteString(indent)

	room := v.width - runewidth.StringWidth(gutter) - len(indent)
	if room <= 0 {
		return b.String()
	}

	if row.Alt {
		b.WriteString(v.styles.Alt.Render(truncate(row.Text(), room)))
		return b.String()
	}

	for _, tok := range row.Tokens {
		if room <= 0 {
			break
		}
		text := truncate(tok.Text, room)
		room -= runewidth.StringWidth(text)
		if text != tok.Text {
			room = 0
		}
		b.WriteString(v.styles.Token(tok.Kind).Render(text))
	}
	return b.String()
}

func truncate(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, ellipsis)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = max(height, 1)
	v.scrollOffset = min(v.scrollOffset, v.maxScrollOffset())
}

// Height returns the number of visible rows.
func (v *View) Height() int {
	return v.height
}
