// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/valuesref/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/valuesref/internal/adapters/driving/tui/styles"
)

// State represents the viewer state for display.
type State string

const (
	StateLoading   State = "loading"
	StateReady     State = "ready"
	StateSearching State = "searching"
	StateError     State = "error"
)

// Bar displays the active path, transient messages and keybinding hints.
type Bar struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	state      State
	message    string
	activePath string
	matchCount int
	retry      bool
	fullHelp   bool
	width      int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateLoading,
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	// Bar is passive, updated via Set methods
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	inner := s.width - s.styles.StatusBar.GetHorizontalFrameSize()
	padding := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders the state, message or active path.
func (s *Bar) renderLeft() string {
	switch s.state {
	case StateLoading:
		return s.styles.Muted.Render("Loading schema...")
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render("Error: " + s.message)
		}
		return s.styles.Error.Render("Error")
	case StateSearching:
		if s.matchCount == 0 {
			return s.styles.Warning.Render("No matching paths")
		}
		return s.styles.Normal.Render(fmt.Sprintf("%d matches", s.matchCount))
	}

	var parts []string
	if s.activePath != "" {
		parts = append(parts, s.styles.Subtitle.Render(s.activePath))
	}
	if s.message != "" {
		parts = append(parts, s.styles.Success.Render(s.message))
	}
	if len(parts) == 0 {
		return s.styles.Muted.Render("Ready")
	}
	return strings.Join(parts, "  ")
}

// renderRight renders keybinding hints.
func (s *Bar) renderRight() string {
	var bindings []key.Binding
	switch {
	case s.state == StateError && s.retry:
		bindings = []key.Binding{
			key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
			s.keymap.Quit,
		}
	case s.state == StateSearching:
		bindings = s.keymap.SearchHelp()
	case s.fullHelp:
		for _, group := range s.keymap.FullHelp() {
			bindings = append(bindings, group...)
		}
	default:
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a transient message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetError shows err. retry adds a retry hint.
func (s *Bar) SetError(message string, retry bool) {
	s.state = StateError
	s.message = message
	s.retry = retry
}

// SetActivePath sets the path shown while reading.
func (s *Bar) SetActivePath(path string) {
	s.activePath = path
}

// ActivePath returns the displayed active path.
func (s *Bar) ActivePath() string {
	return s.activePath
}

// SetMatchCount sets the number of suggestions while searching.
func (s *Bar) SetMatchCount(count int) {
	s.matchCount = count
}

// MatchCount returns the suggestion count.
func (s *Bar) MatchCount() int {
	return s.matchCount
}

// ToggleHelp switches between short and full keybinding hints.
func (s *Bar) ToggleHelp() {
	s.fullHelp = !s.fullHelp
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar to the ready state, keeping the active path.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
	s.matchCount = 0
	s.retry = false
}
