package driven

import (
	"context"

	"github.com/custodia-labs/valuesref/internal/core/domain"
)

// SchemaCache stores raw schemas keyed by PackageRef.Key.
type SchemaCache interface {
	// Get returns the cached entry, or domain.ErrNotFound.
	Get(ctx context.Context, key string) (*domain.CachedSchema, error)

	// Put stores or replaces the entry for key.
	Put(ctx context.Context, key string, data []byte) error

	// Delete removes the entry for key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
}
