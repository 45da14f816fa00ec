package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/valuesref/internal/core/domain"
	"github.com/custodia-labs/valuesref/internal/core/ports/driven"
)

// Ensure BookmarkStore implements the interface.
var _ driven.BookmarkStore = (*BookmarkStore)(nil)

// BookmarkStore is an in-memory implementation of driven.BookmarkStore.
type BookmarkStore struct {
	mu        sync.RWMutex
	bookmarks map[string]domain.Bookmark
}

// NewBookmarkStore creates a new in-memory bookmark store.
func NewBookmarkStore() *BookmarkStore {
	return &BookmarkStore{
		bookmarks: make(map[string]domain.Bookmark),
	}
}

// Save stores or updates a bookmark, assigning an ID when missing.
func (s *BookmarkStore) Save(_ context.Context, b *domain.Bookmark) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	s.bookmarks[b.ID] = *b
	return nil
}

// Get retrieves a bookmark by ID.
func (s *BookmarkStore) Get(_ context.Context, id string) (*domain.Bookmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bookmarks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &b, nil
}

// List returns bookmarks for a package key, oldest first.
func (s *BookmarkStore) List(_ context.Context, packageKey string) ([]domain.Bookmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Bookmark, 0, len(s.bookmarks))
	for _, b := range s.bookmarks {
		if packageKey == "" || b.PackageKey == packageKey {
			result = append(result, b)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// Delete removes a bookmark.
func (s *BookmarkStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bookmarks[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.bookmarks, id)
	return nil
}
