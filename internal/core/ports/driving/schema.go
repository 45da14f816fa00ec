package driving

import (
	"context"

	"github.com/custodia-labs/valuesref/internal/core/domain"
)

// SchemaService loads values schemas and answers path queries against them.
type SchemaService interface {
	// Load fetches, resolves, flattens and indexes the schema of ref.
	Load(ctx context.Context, ref domain.PackageRef, opts domain.LoadOptions) (*domain.Document, error)

	// Export returns the serialized document for download or clipboard.
	Export(ctx context.Context, ref domain.PackageRef) (*domain.ExportFile, error)

	// Search returns paths matching query, in document order.
	Search(ctx context.Context, ref domain.PackageRef, query string, limit int) ([]domain.PathMatch, error)

	// Lookup describes one path. Unknown paths return domain.ErrLookupMiss.
	Lookup(ctx context.Context, ref domain.PackageRef, path string) (*domain.FieldInfo, error)
}
