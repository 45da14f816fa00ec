package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/valuesref/internal/adapters/driving/tui/styles"
)

func TestNewSearchInput(t *testing.T) {
	s := styles.DefaultStyles()
	input := NewSearchInput(s)

	require.NotNil(t, input)
	assert.Equal(t, "", input.Value())
	assert.False(t, input.Focused(), "the viewer starts scrolling, not typing")
}

func TestNewSearchInput_NilStyles(t *testing.T) {
	input := NewSearchInput(nil)

	require.NotNil(t, input)
	assert.NotNil(t, input.styles)
}

func TestSearchInput_Init(t *testing.T) {
	input := NewSearchInput(nil)

	assert.NotNil(t, input.Init())
}

func TestSearchInput_UpdateIgnoredWhenBlurred(t *testing.T) {
	input := NewSearchInput(nil)

	input.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})

	assert.Equal(t, "", input.Value())
}

func TestSearchInput_Update_MultipleKeys(t *testing.T) {
	input := NewSearchInput(nil)
	input.Focus()

	for _, k := range "image" {
		updated, _ := input.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{k}})
		assert.Same(t, input, updated)
	}

	assert.Equal(t, "image", input.Value())
}

func TestSearchInput_Update_Backspace(t *testing.T) {
	input := NewSearchInput(nil)
	input.Focus()
	input.SetValue("tags")

	input.Update(tea.KeyMsg{Type: tea.KeyBackspace})

	assert.Equal(t, "tag", input.Value())
}

func TestSearchInput_View(t *testing.T) {
	input := NewSearchInput(nil)

	view := input.View()

	assert.Contains(t, view, "Path")
	assert.Contains(t, view, "press / to find a path")
}

func TestSearchInput_FocusAndBlur(t *testing.T) {
	input := NewSearchInput(nil)

	cmd := input.Focus()
	assert.NotNil(t, cmd)
	assert.True(t, input.Focused())
	assert.Contains(t, input.View(), "image.tag")

	input.Blur()
	assert.False(t, input.Focused())
}

func TestSearchInput_SetWidth(t *testing.T) {
	input := NewSearchInput(nil)
	assert.Equal(t, 50, input.Width())

	input.SetWidth(100)
	assert.Equal(t, 100, input.Width())

	input.SetWidth(10)
	assert.Equal(t, 10, input.Width())
}

func TestSearchInput_Reset(t *testing.T) {
	input := NewSearchInput(nil)
	input.SetValue("some text")

	input.Reset()

	assert.Equal(t, "", input.Value())
}
