// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/valuesref/internal/core/domain"
)

// DocumentLoaded carries the result of loading a schema.
type DocumentLoaded struct {
	Document *domain.Document
	Err      error

	// Reload is true when the load replaced a displayed document.
	Reload bool
}

// Navigate asks the viewer to scroll to a navigation target.
type Navigate struct {
	Target domain.NavTarget
}

// FrameTick fires once per scroll burst to evaluate the active path.
type FrameTick struct{}

// WatchStarted carries the change channel of a watched schema file.
type WatchStarted struct {
	Changes <-chan struct{}
	Err     error
}

// SchemaChanged signals that the watched schema file changed on disk.
type SchemaChanged struct{}

// Copied signals the document was written to the clipboard.
type Copied struct {
	Err error
}

// Downloaded signals the document was written to disk.
type Downloaded struct {
	Path string
	Err  error
}

// BookmarkAdded signals a bookmark was saved.
type BookmarkAdded struct {
	Bookmark *domain.Bookmark
	Err      error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}
