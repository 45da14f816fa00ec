package driven

import (
	"context"

	"github.com/custodia-labs/valuesref/internal/core/domain"
)

// BookmarkStore persists bookmarks.
type BookmarkStore interface {
	// Save stores a bookmark, assigning an ID when it has none.
	Save(ctx context.Context, b *domain.Bookmark) error

	// Get retrieves a bookmark by ID.
	Get(ctx context.Context, id string) (*domain.Bookmark, error)

	// List returns bookmarks for a package key, oldest first.
	// An empty key lists every bookmark.
	List(ctx context.Context, packageKey string) ([]domain.Bookmark, error)

	// Delete removes a bookmark.
	Delete(ctx context.Context, id string) error
}
