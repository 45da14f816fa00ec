// Package mcp provides an MCP (Model Context Protocol) server adapter for valuesref.
// It lets assistants search, describe and read values schemas.
package mcp

import "errors"

// ErrMissingSchemaService is returned when the schema service is not provided.
var ErrMissingSchemaService = errors.New("mcp: schema service is required")
