package yaml

import "errors"

// Decoder errors.
var (
	// ErrEmptyDocument indicates input with no content.
	ErrEmptyDocument = errors.New("empty document")

	// ErrTrailingData indicates bytes after the top-level JSON value.
	ErrTrailingData = errors.New("trailing data after document")

	// ErrNonScalarKey indicates a YAML mapping key that is not a scalar.
	ErrNonScalarKey = errors.New("mapping key is not a scalar")

	// ErrAliasDepth indicates YAML aliases nested too deeply.
	ErrAliasDepth = errors.New("alias nesting too deep")
)
