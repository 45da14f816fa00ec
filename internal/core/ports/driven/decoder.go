package driven

import "github.com/custodia-labs/valuesref/internal/core/domain"

// SchemaDecoder decodes raw schema bytes into an ordered value.
type SchemaDecoder interface {
	// Decode parses JSON or YAML. Map key order must be preserved.
	Decode(data []byte) (domain.Value, error)
}
