package driving

import (
	"context"

	"github.com/custodia-labs/valuesref/internal/core/domain"
)

// BookmarkService manages saved deep links.
type BookmarkService interface {
	// Add validates path against the schema of ref and saves a bookmark.
	Add(ctx context.Context, ref domain.PackageRef, path, label string) (*domain.Bookmark, error)

	// List returns bookmarks for ref, or every bookmark when ref is nil.
	List(ctx context.Context, ref *domain.PackageRef) ([]domain.Bookmark, error)

	// Remove deletes a bookmark by ID.
	Remove(ctx context.Context, id string) error
}
