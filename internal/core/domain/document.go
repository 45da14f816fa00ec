package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Document is a fully prepared schema: resolved tree, flattened lines and
// the path index over them. A Document is immutable; a source change
// produces a new Document rather than mutating this one.
type Document struct {
	// ID identifies the content: a digest of the ref key and raw bytes.
	ID string

	// Ref is the package the schema was loaded from.
	Ref PackageRef

	// Title is the root schema title, or the package name when absent.
	Title string

	// Root is the resolved schema tree.
	Root Node

	// Lines is the flattened pre-order line sequence.
	Lines []Line

	// Index maps paths to line ordinals.
	Index *PathIndex
}

// DocumentID returns the content identifier for raw schema bytes.
func DocumentID(ref PackageRef, raw []byte) string {
	h := sha256.New()
	h.Write([]byte(ref.Key()))
	h.Write([]byte{0})
	h.Write(raw)
	return hex.EncodeToString(h.Sum(nil))
}

// LineCount returns the number of lines in the document.
func (d *Document) LineCount() int {
	if d == nil {
		return 0
	}
	return len(d.Lines)
}

// LoadOptions controls SchemaService.Load.
type LoadOptions struct {
	// Refresh bypasses the schema cache.
	Refresh bool
}

// CachedSchema is a raw schema held by a SchemaCache.
type CachedSchema struct {
	Key       string
	Data      []byte
	FetchedAt time.Time
}

// Expired reports whether the entry is older than ttl. A zero ttl never expires.
func (c *CachedSchema) Expired(ttl time.Duration, now time.Time) bool {
	return ttl > 0 && now.Sub(c.FetchedAt) > ttl
}
