package memory

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/valuesref/internal/core/domain"
	"github.com/custodia-labs/valuesref/internal/core/ports/driven"
)

// Ensure SchemaCache implements the interface.
var _ driven.SchemaCache = (*SchemaCache)(nil)

// SchemaCache is an in-memory implementation of driven.SchemaCache.
type SchemaCache struct {
	mu      sync.RWMutex
	entries map[string]domain.CachedSchema
	now     func() time.Time
}

// NewSchemaCache creates a new in-memory schema cache.
func NewSchemaCache() *SchemaCache {
	return &SchemaCache{
		entries: make(map[string]domain.CachedSchema),
		now:     time.Now,
	}
}

// Get retrieves a cached schema.
func (c *SchemaCache) Get(_ context.Context, key string) (*domain.CachedSchema, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	entry.Data = append([]byte(nil), entry.Data...)
	return &entry, nil
}

// Put stores or replaces a cached schema.
func (c *SchemaCache) Put(_ context.Context, key string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = domain.CachedSchema{
		Key:       key,
		Data:      append([]byte(nil), data...),
		FetchedAt: c.now(),
	}
	return nil
}

// Delete removes a cached schema.
func (c *SchemaCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

// Len returns the number of cached schemas.
func (c *SchemaCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
