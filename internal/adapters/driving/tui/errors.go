package tui

import "errors"

// ErrMissingSchemaService is returned when the schema service is not provided.
var ErrMissingSchemaService = errors.New("tui: schema service is required")

// ErrMissingRenderer is returned when the document renderer is not provided.
var ErrMissingRenderer = errors.New("tui: document renderer is required")

// ErrMissingNavigator is returned when the navigator is not provided.
var ErrMissingNavigator = errors.New("tui: navigator is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
