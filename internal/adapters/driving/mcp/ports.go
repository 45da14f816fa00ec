package mcp

import (
	"github.com/custodia-labs/valuesref/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Schema loads and queries values schemas.
	Schema driving.SchemaService

	// Renderer serializes documents. Optional: render_schema falls back
	// to SchemaService.Export when it is nil.
	Renderer driving.DocumentRenderer
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Schema == nil {
		return ErrMissingSchemaService
	}
	return nil
}
