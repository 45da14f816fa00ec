package status

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/valuesref/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/valuesref/internal/adapters/driving/tui/styles"
)

func newWideBar() *Bar {
	bar := NewBar(nil, nil)
	bar.SetWidth(300)
	return bar
}

func TestNewBar(t *testing.T) {
	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	bar := NewBar(s, km)

	require.NotNil(t, bar)
	assert.Equal(t, StateLoading, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, "", bar.ActivePath())
	assert.Equal(t, 80, bar.Width())
}

func TestNewBar_NilStyles(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.NotNil(t, bar.styles)
	assert.NotNil(t, bar.keymap)
}

func TestStatusBar_InitAndUpdate(t *testing.T) {
	bar := NewBar(nil, nil)

	assert.Nil(t, bar.Init())

	updated, cmd := bar.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Same(t, bar, updated)
	assert.Nil(t, cmd)
}

func TestStatusBar_View(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(*Bar)
		want    []string
		notWant []string
	}{
		{
			name:  "loading",
			setup: func(*Bar) {},
			want:  []string{"Loading schema..."},
		},
		{
			name:  "ready",
			setup: func(b *Bar) { b.Clear() },
			want:  []string{"Ready", "/: search", "q: quit"},
		},
		{
			name: "active path and message",
			setup: func(b *Bar) {
				b.Clear()
				b.SetActivePath("image.tag")
				b.SetMessage("Copied")
			},
			want:    []string{"image.tag", "Copied"},
			notWant: []string{"Ready"},
		},
		{
			name: "searching",
			setup: func(b *Bar) {
				b.SetState(StateSearching)
				b.SetMatchCount(3)
			},
			want: []string{"3 matches", "esc: cancel"},
		},
		{
			name:  "searching without matches",
			setup: func(b *Bar) { b.SetState(StateSearching) },
			want:  []string{"No matching paths"},
		},
		{
			name:  "error with retry",
			setup: func(b *Bar) { b.SetError("could not fetch schema", true) },
			want:  []string{"Error: could not fetch schema", "r: retry"},
		},
		{
			name:    "error without retry",
			setup:   func(b *Bar) { b.SetError("schema could not be displayed", false) },
			want:    []string{"Error: schema could not be displayed"},
			notWant: []string{"retry"},
		},
		{
			name: "full help",
			setup: func(b *Bar) {
				b.Clear()
				b.ToggleHelp()
			},
			want: []string{"d: download", "b: bookmark", "r: reload"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := newWideBar()
			tt.setup(bar)

			view := bar.View()
			for _, w := range tt.want {
				assert.Contains(t, view, w)
			}
			for _, w := range tt.notWant {
				assert.NotContains(t, view, w)
			}
		})
	}
}

func TestStatusBar_ClearKeepsActivePath(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetActivePath("replicas")
	bar.SetError("boom", true)
	bar.SetMatchCount(2)

	bar.Clear()

	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, 0, bar.MatchCount())
	assert.Equal(t, "replicas", bar.ActivePath())
}

func TestStatusBar_NarrowWidth(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(10)

	assert.NotEmpty(t, bar.View())
}
