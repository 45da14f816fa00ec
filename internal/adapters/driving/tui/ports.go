// Package tui provides the interactive values schema viewer.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/valuesref/internal/core/ports/driven"
	"github.com/custodia-labs/valuesref/internal/core/ports/driving"
)

// Ports aggregates the interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Schema loads and exports values schemas.
	Schema driving.SchemaService

	// Renderer turns documents into display rows.
	Renderer driving.DocumentRenderer

	// Navigator drives search and scroll sync for one viewer.
	Navigator driving.Navigator

	// Bookmarks saves deep links. Optional.
	Bookmarks driving.BookmarkService

	// Clipboard receives copied documents. Optional.
	Clipboard driven.Clipboard

	// Watcher reloads local schema files on change. Optional.
	Watcher driven.SchemaWatcher
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Schema == nil {
		return ErrMissingSchemaService
	}
	if p.Renderer == nil {
		return ErrMissingRenderer
	}
	if p.Navigator == nil {
		return ErrMissingNavigator
	}
	return nil
}
