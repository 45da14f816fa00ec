package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/valuesref/internal/core/domain"
	"github.com/custodia-labs/valuesref/internal/core/ports/driving"
	"github.com/custodia-labs/valuesref/internal/logger"
)

// Ensure Navigator implements the interface.
var _ driving.Navigator = (*Navigator)(nil)

// Navigator is the navigation state machine of one viewer.
//
// Search-driven navigation moves idle -> searching -> navigating -> idle.
// Scroll-driven sync is independent: Scrolled records positions and Frame
// evaluates at most one of them per tick.
type Navigator struct {
	doc   *domain.Document
	gen   uint64
	state domain.NavState
	limit int

	query   string
	pending *domain.NavTarget

	// sync loop
	topOrdinal int
	dirty      bool
	active     string
}

// NewNavigator creates a navigator. limit caps search suggestions;
// zero or less means domain.DefaultSearchLimit.
func NewNavigator(limit int) *Navigator {
	if limit <= 0 {
		limit = domain.DefaultSearchLimit
	}
	return &Navigator{limit: limit}
}

// SetDocument replaces the document wholesale. Any in-flight navigation
// is abandoned and pending scroll state is dropped.
func (n *Navigator) SetDocument(doc *domain.Document) {
	n.gen++
	if n.pending != nil {
		logger.Debug("Navigation to %q abandoned by document change", n.pending.Path)
	}
	n.doc = doc
	n.state = domain.NavIdle
	n.query = ""
	n.pending = nil
	n.topOrdinal = 0
	n.dirty = false
	n.active = ""
}

// Document returns the current document.
func (n *Navigator) Document() *domain.Document { return n.doc }

// State returns the current state.
func (n *Navigator) State() domain.NavState { return n.state }

// Generation identifies the current document.
func (n *Navigator) Generation() uint64 { return n.gen }

// Query updates the search query. A non-empty query enters searching and
// returns suggestions; an empty one returns to idle.
func (n *Navigator) Query(q string) []domain.PathMatch {
	n.query = strings.TrimSpace(q)
	if n.query == "" {
		if n.state == domain.NavSearching {
			n.state = domain.NavIdle
		}
		return nil
	}
	n.state = domain.NavSearching
	n.pending = nil
	if n.doc == nil || n.doc.Index == nil {
		return nil
	}
	return n.doc.Index.SearchMatches(n.query, n.limit)
}

// Select navigates to a suggested path. It is only valid while searching.
func (n *Navigator) Select(path string) (domain.NavTarget, error) {
	if n.state != domain.NavSearching {
		return domain.NavTarget{}, fmt.Errorf("%w: select while %s", domain.ErrInvalidInput, n.state)
	}
	return n.navigate(path)
}

// OpenAt navigates to path from any state. It serves deep links.
func (n *Navigator) OpenAt(path string) (domain.NavTarget, error) {
	return n.navigate(path)
}

func (n *Navigator) navigate(path string) (domain.NavTarget, error) {
	path = strings.TrimSpace(path)
	if n.doc == nil || n.doc.Index == nil {
		return domain.NavTarget{}, fmt.Errorf("%w: %s", domain.ErrLookupMiss, path)
	}
	ordinal, ok := n.doc.Index.Lookup(path)
	if !ok {
		return domain.NavTarget{}, fmt.Errorf("%w: %s", domain.ErrLookupMiss, path)
	}
	t := domain.NavTarget{Generation: n.gen, Path: path, Ordinal: ordinal}
	n.state = domain.NavNavigating
	n.query = ""
	n.pending = &t
	return t, nil
}

// Valid reports whether target was computed against the current document.
func (n *Navigator) Valid(target domain.NavTarget) bool {
	return n.doc != nil && target.Generation == n.gen
}

// Settled completes the pending navigation. Stale targets are ignored.
func (n *Navigator) Settled(target domain.NavTarget) {
	if n.state != domain.NavNavigating || n.pending == nil || *n.pending != target {
		return
	}
	n.pending = nil
	n.state = domain.NavIdle
}

// Scrolled records the top visible ordinal. It returns true for the first
// event since the last Frame; the caller then schedules one frame tick.
func (n *Navigator) Scrolled(ordinal int) bool {
	n.topOrdinal = ordinal
	if n.dirty {
		return false
	}
	n.dirty = true
	return true
}

// Frame evaluates the latest recorded scroll position and reports the
// active path when it differs from the last one reported.
func (n *Navigator) Frame() (domain.ActivePathChange, bool) {
	if !n.dirty {
		return domain.ActivePathChange{}, false
	}
	n.dirty = false
	if n.doc == nil || n.doc.Index == nil {
		return domain.ActivePathChange{}, false
	}
	path, _ := n.doc.Index.Nearest(n.topOrdinal)
	if path == n.active {
		return domain.ActivePathChange{}, false
	}
	n.active = path
	return domain.ActivePathChange{Generation: n.gen, Path: path}, true
}
