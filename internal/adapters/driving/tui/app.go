package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/valuesref/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/valuesref/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/valuesref/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/valuesref/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/valuesref/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/valuesref/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/valuesref/internal/adapters/driving/tui/views/document"
	"github.com/custodia-labs/valuesref/internal/core/domain"
	"github.com/custodia-labs/valuesref/internal/logger"
)

// frameInterval is the delay between a scroll burst and the active path
// evaluation, roughly one display frame.
const frameInterval = 16 * time.Millisecond

// wheelStep is the number of rows one mouse wheel notch scrolls.
const wheelStep = 3

// maxSuggestionLines caps the height of the suggestion list.
const maxSuggestionLines = 8

// Options configures one viewer session.
type Options struct {
	// Ref is the package whose schema is displayed.
	Ref domain.PackageRef

	// At is a path to open once the document loads.
	At string

	// Refresh bypasses the schema cache on the first load.
	Refresh bool

	// DownloadDir receives downloaded documents. Empty means the
	// working directory.
	DownloadDir string
}

// App is the schema viewer following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// opts holds the session options.
	opts Options

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	input       *input.SearchInput
	suggestions *list.SuggestionList
	document    *document.View
	statusbar   *status.Bar

	// changes emits when the watched schema file changes.
	changes <-chan struct{}

	// err is the last load error.
	err error

	loading bool
	width   int
	height  int
	ready   bool
}

// NewApp creates a new viewer with the given ports.
func NewApp(ports *Ports, opts Options) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, err
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:       ports,
		opts:        opts,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		input:       input.NewSearchInput(s),
		suggestions: list.NewSuggestionList(s),
		document:    document.NewView(s),
		statusbar:   status.NewBar(s, km),
		loading:     true,
		width:       80,
		height:      24,
	}, nil
}

// WithContext sets the context for the application.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init starts loading the schema and watching local files.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("valuesref: "+a.opts.Ref.DisplayName()),
		a.load(a.opts.Refresh, false),
		a.watch(),
	)
}

// Update handles incoming messages and updates the model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		a.ready = true
		return a, nil

	case tea.KeyMsg:
		return a, a.handleKeyMsg(msg)

	case tea.MouseMsg:
		return a, a.handleMouseMsg(msg)

	case messages.DocumentLoaded:
		return a, a.handleDocumentLoaded(msg)

	case messages.Navigate:
		return a, a.applyTarget(msg.Target)

	case messages.FrameTick:
		a.handleFrame()
		return a, nil

	case messages.WatchStarted:
		if msg.Err != nil {
			logger.Debug("Not watching %s: %v", a.opts.Ref.Path, msg.Err)
			return a, nil
		}
		a.changes = msg.Changes
		return a, a.waitForChange()

	case messages.SchemaChanged:
		a.loading = true
		return a, tea.Batch(a.load(true, true), a.waitForChange())

	case messages.Copied:
		a.report(msg.Err, "Copied to clipboard")
		return a, nil

	case messages.Downloaded:
		a.report(msg.Err, "Saved "+msg.Path)
		return a, nil

	case messages.BookmarkAdded:
		if msg.Err == nil {
			a.report(nil, "Bookmarked "+msg.Bookmark.Path)
		} else {
			a.report(msg.Err, "")
		}
		return a, nil

	case messages.ErrorOccurred:
		a.report(msg.Err, "")
		return a, nil
	}

	// cursor blink
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// handleKeyMsg routes keys to the search input or the document.
func (a *App) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		return tea.Quit
	}
	if a.input.Focused() {
		return a.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, a.keymap.Quit):
		return tea.Quit
	case key.Matches(msg, a.keymap.Reload):
		return a.reload()
	case key.Matches(msg, a.keymap.Help):
		a.statusbar.ToggleHelp()
		return nil
	}

	if a.Document() == nil {
		return nil
	}
	a.clearTransient()

	switch {
	case key.Matches(msg, a.keymap.Search):
		return a.input.Focus()
	case key.Matches(msg, a.keymap.Up):
		return a.scroll(a.document.ScrollBy(-1))
	case key.Matches(msg, a.keymap.Down):
		return a.scroll(a.document.ScrollBy(1))
	case key.Matches(msg, a.keymap.PageUp):
		return a.scroll(a.document.PageUp())
	case key.Matches(msg, a.keymap.PageDown):
		return a.scroll(a.document.PageDown())
	case key.Matches(msg, a.keymap.Top):
		return a.scroll(a.document.Top())
	case key.Matches(msg, a.keymap.Bottom):
		return a.scroll(a.document.Bottom())
	case key.Matches(msg, a.keymap.Copy):
		return a.copyDocument()
	case key.Matches(msg, a.keymap.Download):
		return a.downloadDocument()
	case key.Matches(msg, a.keymap.Bookmark):
		return a.bookmarkActivePath()
	}
	return nil
}

// handleSearchKey handles keys while the search input is focused.
func (a *App) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyEsc:
		a.ports.Navigator.Query("")
		a.closeSearch()
		return nil

	case tea.KeyEnter:
		m := a.suggestions.SelectedMatch()
		if m == nil {
			return nil
		}
		target, err := a.ports.Navigator.Select(m.Path)
		a.closeSearch()
		if err != nil {
			a.statusbar.SetError(err.Error(), false)
			return nil
		}
		return navigateTo(target)

	case tea.KeyUp, tea.KeyDown, tea.KeyCtrlP, tea.KeyCtrlN:
		a.suggestions.Update(msg)
		return nil
	}

	before := a.input.Value()
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	if a.input.Value() != before {
		a.query(a.input.Value())
	}
	return cmd
}

// query feeds the search text to the navigator and shows its suggestions.
func (a *App) query(q string) {
	matches := a.ports.Navigator.Query(q)
	a.suggestions.SetMatches(matches)
	if strings.TrimSpace(q) == "" {
		a.statusbar.Clear()
	} else {
		a.statusbar.SetState(status.StateSearching)
		a.statusbar.SetMatchCount(len(matches))
	}
	a.layout()
}

// closeSearch blurs and clears the search input.
func (a *App) closeSearch() {
	a.input.Reset()
	a.input.Blur()
	a.suggestions.Clear()
	a.statusbar.Clear()
	a.layout()
}

// handleMouseMsg scrolls on wheel events.
func (a *App) handleMouseMsg(msg tea.MouseMsg) tea.Cmd {
	if a.Document() == nil || msg.Action != tea.MouseActionPress {
		return nil
	}
	//nolint:exhaustive // only the wheel scrolls
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		return a.scroll(a.document.ScrollBy(-wheelStep))
	case tea.MouseButtonWheelDown:
		return a.scroll(a.document.ScrollBy(wheelStep))
	}
	return nil
}

// handleDocumentLoaded installs a freshly loaded document.
func (a *App) handleDocumentLoaded(msg messages.DocumentLoaded) tea.Cmd {
	a.loading = false
	if msg.Err != nil {
		a.err = msg.Err
		text, retry := describeLoadError(msg.Err)
		a.statusbar.SetError(text, retry)
		logger.Debug("Loading %s failed: %v", a.opts.Ref.Key(), msg.Err)
		return nil
	}
	a.err = nil

	// A reload keeps the reader where they were.
	at := a.opts.At
	if msg.Reload {
		at = a.statusbar.ActivePath()
	}

	a.ports.Navigator.SetDocument(msg.Document)
	a.document.SetRows(a.ports.Renderer.Render(msg.Document.Lines))
	a.input.Reset()
	a.input.Blur()
	a.suggestions.Clear()
	a.statusbar.Clear()
	a.statusbar.SetActivePath("")
	a.layout()

	if at != "" {
		target, err := a.ports.Navigator.OpenAt(at)
		if err != nil {
			a.statusbar.SetMessage(fmt.Sprintf("no field at %q", at))
		} else {
			return navigateTo(target)
		}
	}
	return a.scrolled()
}

// applyTarget scrolls to a navigation target unless the document has
// changed since it was computed.
func (a *App) applyTarget(target domain.NavTarget) tea.Cmd {
	if !a.ports.Navigator.Valid(target) {
		logger.Debug("Dropping stale navigation to %q", target.Path)
		return nil
	}
	row := domain.RowForOrdinal(a.document.Rows(), target.Ordinal)
	a.document.ScrollToRow(row)
	a.document.SetHighlight(target.Path)
	a.ports.Navigator.Settled(target)
	return a.scrolled()
}

// handleFrame shows the active path computed for the last scroll burst.
func (a *App) handleFrame() {
	change, ok := a.ports.Navigator.Frame()
	if !ok || change.Generation != a.ports.Navigator.Generation() {
		return
	}
	a.statusbar.SetActivePath(change.Path)
}

// scroll reports a viewport move to the navigator when changed is true.
func (a *App) scroll(changed bool) tea.Cmd {
	if !changed {
		return nil
	}
	return a.scrolled()
}

// scrolled records the top visible line and schedules one frame tick per
// scroll burst.
func (a *App) scrolled() tea.Cmd {
	if !a.ports.Navigator.Scrolled(a.document.TopOrdinal()) {
		return nil
	}
	return tea.Tick(frameInterval, func(time.Time) tea.Msg {
		return messages.FrameTick{}
	})
}

// load fetches the schema in the background.
func (a *App) load(refresh, reload bool) tea.Cmd {
	ctx := a.ctx
	ref := a.opts.Ref
	schemas := a.ports.Schema
	return func() tea.Msg {
		doc, err := schemas.Load(ctx, ref, domain.LoadOptions{Refresh: refresh})
		return messages.DocumentLoaded{Document: doc, Err: err, Reload: reload}
	}
}

// reload fetches the schema again, bypassing the cache.
func (a *App) reload() tea.Cmd {
	if a.loading {
		return nil
	}
	a.loading = true
	if a.Document() == nil {
		a.statusbar.SetState(status.StateLoading)
	} else {
		a.statusbar.SetMessage("Reloading...")
	}
	return a.load(true, a.Document() != nil)
}

// watch starts watching a local schema file.
func (a *App) watch() tea.Cmd {
	if a.ports.Watcher == nil || a.opts.Ref.Source != domain.SourceFile {
		return nil
	}
	ctx := a.ctx
	path := a.opts.Ref.Path
	watcher := a.ports.Watcher
	return func() tea.Msg {
		changes, err := watcher.Watch(ctx, path)
		return messages.WatchStarted{Changes: changes, Err: err}
	}
}

// waitForChange blocks until the watched file changes.
func (a *App) waitForChange() tea.Cmd {
	changes := a.changes
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return messages.SchemaChanged{}
	}
}

// copyDocument puts the serialized document on the clipboard.
func (a *App) copyDocument() tea.Cmd {
	if a.ports.Clipboard == nil {
		a.statusbar.SetError("clipboard unavailable", false)
		return nil
	}
	text := a.ports.Renderer.Serialize(a.Document().Lines)
	clip := a.ports.Clipboard
	return func() tea.Msg {
		return messages.Copied{Err: clip.Copy(text)}
	}
}

// downloadDocument writes the exported document to the download directory.
func (a *App) downloadDocument() tea.Cmd {
	file := a.ports.Renderer.Export(a.Document())
	path := filepath.Join(a.opts.DownloadDir, file.FileName)
	return func() tea.Msg {
		err := os.WriteFile(path, []byte(file.Content), 0o644) //nolint:gosec // user document
		return messages.Downloaded{Path: path, Err: err}
	}
}

// bookmarkActivePath saves the path at the top of the viewport.
func (a *App) bookmarkActivePath() tea.Cmd {
	if a.ports.Bookmarks == nil {
		a.statusbar.SetError("bookmarks unavailable", false)
		return nil
	}
	path := a.statusbar.ActivePath()
	if path == "" {
		a.statusbar.SetMessage("Scroll to a field to bookmark it")
		return nil
	}
	ctx := a.ctx
	ref := a.opts.Ref
	bookmarks := a.ports.Bookmarks
	return func() tea.Msg {
		b, err := bookmarks.Add(ctx, ref, path, "")
		return messages.BookmarkAdded{Bookmark: b, Err: err}
	}
}

// report shows the outcome of a background action.
func (a *App) report(err error, success string) {
	if err != nil {
		a.statusbar.SetError(err.Error(), false)
		return
	}
	a.statusbar.Clear()
	a.statusbar.SetMessage(success)
}

// clearTransient drops messages from earlier actions once the reader
// moves on. Load errors stay until a reload succeeds.
func (a *App) clearTransient() {
	if a.loading || a.err != nil {
		return
	}
	a.statusbar.Clear()
}

// describeLoadError turns a load failure into a status line and whether
// retrying can help.
func describeLoadError(err error) (string, bool) {
	switch {
	case errors.Is(err, domain.ErrRateLimited):
		return "rate limited by the registry, try again shortly", true
	case errors.Is(err, domain.ErrFetch):
		return "could not fetch schema: " + err.Error(), true
	case errors.Is(err, domain.ErrNotFound):
		return "no values schema found: " + err.Error(), false
	case errors.Is(err, domain.ErrInvalidSchema),
		errors.Is(err, domain.ErrDanglingRef),
		errors.Is(err, domain.ErrOversized):
		return "schema could not be displayed: " + err.Error(), false
	default:
		return err.Error(), true
	}
}

// navigateTo delivers target to the update loop.
func navigateTo(target domain.NavTarget) tea.Cmd {
	return func() tea.Msg {
		return messages.Navigate{Target: target}
	}
}

// layout sizes the components to the window.
func (a *App) layout() {
	a.input.SetWidth(a.width)
	a.statusbar.SetWidth(a.width)
	a.suggestions.SetDimensions(a.width, maxSuggestionLines)

	// header, bordered input, status bar
	used := 1 + 3 + 1 + a.suggestions.Lines()
	a.document.SetDimensions(a.width, a.height-used)
}

// View renders the viewer.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	sections := []string{a.renderHeader(), a.input.View()}
	if a.suggestions.Count() > 0 {
		sections = append(sections, a.suggestions.View())
	}

	switch {
	case a.Document() != nil:
		sections = append(sections, a.document.View())
	case a.err != nil:
		sections = append(sections, a.styles.Error.Render("Schema unavailable."))
	default:
		sections = append(sections, a.styles.Muted.Render("Loading "+a.opts.Ref.DisplayName()+"..."))
	}

	body := lipgloss.JoinVertical(lipgloss.Left, sections...)
	pad := a.height - lipgloss.Height(body) - 1
	if pad > 0 {
		body += strings.Repeat("\n", pad)
	}
	return body + "\n" + a.statusbar.View()
}

// renderHeader renders the title line with the scroll position.
func (a *App) renderHeader() string {
	title := a.opts.Ref.DisplayName()
	if doc := a.Document(); doc != nil && doc.Title != "" {
		title = doc.Title
	}
	left := a.styles.Title.Render(title) + "  " + a.styles.Muted.Render(a.opts.Ref.DisplayName())
	right := a.styles.Muted.Render(a.document.Position())

	gap := max(a.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.layout()
}

// Document returns the displayed document, or nil while loading.
func (a *App) Document() *domain.Document {
	return a.ports.Navigator.Document()
}

// ActivePath returns the path shown in the status bar.
func (a *App) ActivePath() string {
	return a.statusbar.ActivePath()
}

// Err returns the last load error.
func (a *App) Err() error {
	return a.err
}
