// Package list provides list display components for the TUI.
package list

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/custodia-labs/valuesref/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/valuesref/internal/core/domain"
)

// SuggestionList displays path search suggestions with the matched
// fragment highlighted.
type SuggestionList struct {
	matches  []domain.PathMatch
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewSuggestionList creates a new suggestion list component.
func NewSuggestionList(s *styles.Styles) *SuggestionList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &SuggestionList{
		styles: s,
		width:  80,
		height: 8,
	}
}

// Init initialises the list.
func (r *SuggestionList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation. Only arrow keys move the selection;
// letters belong to the search input.
func (r *SuggestionList) Update(msg tea.Msg) (*SuggestionList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		//nolint:exhaustive // handling only relevant key types
		switch msg.Type {
		case tea.KeyUp, tea.KeyCtrlP:
			r.MoveUp()
		case tea.KeyDown, tea.KeyCtrlN:
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the visible suggestions, one per line.
func (r *SuggestionList) View() string {
	if len(r.matches) == 0 {
		return ""
	}

	visible := r.VisibleCount()
	start := 0
	if r.selected >= visible {
		start = r.selected - visible + 1
	}
	end := min(start+visible, len(r.matches))

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, r.renderMatch(i, r.matches[i]))
	}
	return strings.Join(lines, "\n")
}

// renderMatch formats one suggestion, truncated to the list width.
func (r *SuggestionList) renderMatch(index int, m domain.PathMatch) string {
	indicator := "  "
	base := r.styles.Normal
	if index == r.selected {
		indicator = "> "
		base = r.styles.Selected
	}

	maxWidth := max(r.width-len(indicator), 10)
	path := m.Path
	if runewidth.StringWidth(path) > maxWidth {
		path = runewidth.Truncate(path, maxWidth, "…")
	}

	// The tail ellipsis is not part of the key.
	kept := len(strings.TrimSuffix(path, "…"))
	start, end := m.Start, m.End
	if end > kept {
		end = kept
	}
	if start >= end || start < 0 {
		return base.Render(indicator + path)
	}

	return base.Render(indicator+path[:start]) +
		r.styles.Match.Render(path[start:end]) +
		base.Render(path[end:])
}

// SetMatches replaces the suggestions and resets the selection.
func (r *SuggestionList) SetMatches(matches []domain.PathMatch) {
	r.matches = matches
	r.selected = 0
}

// Matches returns the current suggestions.
func (r *SuggestionList) Matches() []domain.PathMatch {
	return r.matches
}

// Selected returns the index of the selected suggestion.
func (r *SuggestionList) Selected() int {
	return r.selected
}

// SetSelected sets the selected index.
func (r *SuggestionList) SetSelected(index int) {
	if index >= 0 && index < len(r.matches) {
		r.selected = index
	}
}

// SelectedMatch returns the selected suggestion, or nil if none.
func (r *SuggestionList) SelectedMatch() *domain.PathMatch {
	if len(r.matches) == 0 || r.selected < 0 || r.selected >= len(r.matches) {
		return nil
	}
	return &r.matches[r.selected]
}

// MoveUp moves selection up.
func (r *SuggestionList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *SuggestionList) MoveDown() {
	if r.selected < len(r.matches)-1 {
		r.selected++
	}
}

// VisibleCount returns how many suggestions fit the list height.
func (r *SuggestionList) VisibleCount() int {
	return max(min(r.height, len(r.matches)), 1)
}

// Lines returns the number of lines View occupies.
func (r *SuggestionList) Lines() int {
	if len(r.matches) == 0 {
		return 0
	}
	return r.VisibleCount()
}

// SetDimensions sets the component dimensions.
func (r *SuggestionList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of suggestions.
func (r *SuggestionList) Count() int {
	return len(r.matches)
}

// Clear removes all suggestions.
func (r *SuggestionList) Clear() {
	r.matches = nil
	r.selected = 0
}
