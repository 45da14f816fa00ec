package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/valuesref/internal/core/domain"
	"github.com/custodia-labs/valuesref/internal/core/ports/driven"
	"github.com/custodia-labs/valuesref/internal/core/ports/driving"
	"github.com/custodia-labs/valuesref/internal/logger"
)

// Ensure BookmarkService implements the interface.
var _ driving.BookmarkService = (*BookmarkService)(nil)

// BookmarkService manages saved deep links into schemas.
type BookmarkService struct {
	store   driven.BookmarkStore
	schemas driving.SchemaService
	now     func() time.Time
}

// NewBookmarkService creates a new bookmark service.
func NewBookmarkService(store driven.BookmarkStore, schemas driving.SchemaService) *BookmarkService {
	return &BookmarkService{
		store:   store,
		schemas: schemas,
		now:     time.Now,
	}
}

// Add saves a bookmark after checking that path exists in ref's schema.
func (s *BookmarkService) Add(ctx context.Context, ref domain.PackageRef, path, label string) (*domain.Bookmark, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("%w: bookmark path is empty", domain.ErrInvalidInput)
	}
	if _, err := s.schemas.Lookup(ctx, ref, path); err != nil {
		return nil, err
	}

	b := &domain.Bookmark{
		PackageKey: ref.Key(),
		Ref:        ref,
		Path:       path,
		Label:      strings.TrimSpace(label),
		CreatedAt:  s.now(),
	}
	if err := s.store.Save(ctx, b); err != nil {
		return nil, fmt.Errorf("save bookmark: %w", err)
	}
	logger.Debug("Bookmark %s saved for %s at %s", b.ID, b.PackageKey, b.Path)
	return b, nil
}

// List returns bookmarks for ref, or all bookmarks when ref is nil.
func (s *BookmarkService) List(ctx context.Context, ref *domain.PackageRef) ([]domain.Bookmark, error) {
	key := ""
	if ref != nil {
		key = ref.Key()
	}
	return s.store.List(ctx, key)
}

// Remove deletes a bookmark.
func (s *BookmarkService) Remove(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: bookmark id is empty", domain.ErrInvalidInput)
	}
	return s.store.Delete(ctx, id)
}
