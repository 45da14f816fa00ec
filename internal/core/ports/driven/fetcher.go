package driven

import (
	"context"

	"github.com/custodia-labs/valuesref/internal/core/domain"
)

// SchemaFetcher retrieves raw values schemas for one source kind.
// Implementations wrap transport failures in *domain.FetchError.
type SchemaFetcher interface {
	// Source returns the source kind this fetcher serves.
	Source() domain.SourceKind

	// Fetch returns the raw schema of ref.
	Fetch(ctx context.Context, ref domain.PackageRef) ([]byte, error)

	// FetchRef returns an external document referenced from ref's schema.
	// uri is the document part of a $ref, relative to the schema location
	// or absolute.
	FetchRef(ctx context.Context, ref domain.PackageRef, uri string) ([]byte, error)
}
