package driving

import "github.com/custodia-labs/valuesref/internal/core/domain"

// Navigator drives search-to-scroll navigation and scroll-to-path sync
// for the currently displayed Document. It is not safe for concurrent use;
// callers drive it from a single event loop.
type Navigator interface {
	// SetDocument replaces the document and resets to idle.
	SetDocument(doc *domain.Document)

	// Document returns the current document, or nil.
	Document() *domain.Document

	// State returns the current state.
	State() domain.NavState

	// Generation identifies the current document.
	Generation() uint64

	// Query updates the search query and returns suggestions.
	Query(q string) []domain.PathMatch

	// Select navigates to a suggested path.
	Select(path string) (domain.NavTarget, error)

	// OpenAt navigates to path from any state.
	OpenAt(path string) (domain.NavTarget, error)

	// Valid reports whether target belongs to the current document.
	Valid(target domain.NavTarget) bool

	// Settled marks a navigation complete.
	Settled(target domain.NavTarget)

	// Scrolled records the top visible ordinal. It returns true when a
	// frame tick must be scheduled.
	Scrolled(ordinal int) bool

	// Frame evaluates pending scroll and reports an active path change.
	Frame() (domain.ActivePathChange, bool)
}
