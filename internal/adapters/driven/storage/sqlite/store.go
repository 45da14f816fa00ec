package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/valuesref/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/valuesref/internal/core/domain"
	"github.com/custodia-labs/valuesref/internal/core/ports/driven"
)

// DatabaseFile is the name of the database inside the data directory.
const DatabaseFile = "valuesref.db"

// Store is a SQLite-based storage that provides access to the cache and
// bookmark interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// DefaultDataDir returns ~/.valuesref.
func DefaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".valuesref"), nil
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.valuesref/valuesref.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		dir, err := DefaultDataDir()
		if err != nil {
			return nil, err
		}
		dataDir = dir
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)

	// WAL lets the TUI read while a CLI command writes.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
		now:  time.Now,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// SchemaCache returns a SchemaCache interface backed by this store.
func (s *Store) SchemaCache() driven.SchemaCache {
	return &schemaCache{store: s}
}

// BookmarkStore returns a BookmarkStore interface backed by this store.
func (s *Store) BookmarkStore() driven.BookmarkStore {
	return &bookmarkStore{store: s}
}

// migrate applies every NNN_*.up.sql file newer than the recorded version.
func (s *Store) migrate(fsys embed.FS) error {
	if _, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("creating migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Schema Cache ====================

// schemaCache implements driven.SchemaCache.
type schemaCache struct {
	store *Store
}

var _ driven.SchemaCache = (*schemaCache)(nil)

// Get returns the cached entry for key.
func (c *schemaCache) Get(ctx context.Context, key string) (*domain.CachedSchema, error) {
	row := c.store.db.QueryRowContext(ctx, `
		SELECT key, data, fetched_at FROM schema_cache WHERE key = ?
	`, key)

	var entry domain.CachedSchema
	if err := row.Scan(&entry.Key, &entry.Data, &entry.FetchedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning cached schema: %w", err)
	}
	return &entry, nil
}

// Put stores or replaces the entry for key.
func (c *schemaCache) Put(ctx context.Context, key string, data []byte) error {
	_, err := c.store.db.ExecContext(ctx, `
		INSERT INTO schema_cache (key, data, fetched_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			data = excluded.data,
			fetched_at = excluded.fetched_at
	`, key, data, c.store.now().UTC())
	if err != nil {
		return fmt.Errorf("saving cached schema: %w", err)
	}
	return nil
}

// Delete removes the entry for key.
func (c *schemaCache) Delete(ctx context.Context, key string) error {
	if _, err := c.store.db.ExecContext(ctx, "DELETE FROM schema_cache WHERE key = ?", key); err != nil {
		return fmt.Errorf("deleting cached schema: %w", err)
	}
	return nil
}

// ==================== Bookmark Store ====================

// bookmarkStore implements driven.BookmarkStore.
type bookmarkStore struct {
	store *Store
}

var _ driven.BookmarkStore = (*bookmarkStore)(nil)

// Save stores or updates a bookmark.
func (s *bookmarkStore) Save(ctx context.Context, b *domain.Bookmark) error {
	refJSON, err := json.Marshal(b.Ref)
	if err != nil {
		return fmt.Errorf("marshalling ref: %w", err)
	}

	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = s.store.now().UTC()
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO bookmarks (id, package_key, ref, path, label, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			package_key = excluded.package_key,
			ref = excluded.ref,
			path = excluded.path,
			label = excluded.label
	`, b.ID, b.PackageKey, string(refJSON), b.Path, b.Label, b.CreatedAt)
	if err != nil {
		return fmt.Errorf("saving bookmark: %w", err)
	}
	return nil
}

// Get retrieves a bookmark by ID.
func (s *bookmarkStore) Get(ctx context.Context, id string) (*domain.Bookmark, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, package_key, ref, path, label, created_at
		FROM bookmarks WHERE id = ?
	`, id)
	if err != nil {
		return nil, fmt.Errorf("querying bookmark: %w", err)
	}
	defer rows.Close()

	list, err := scanBookmarks(rows)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, domain.ErrNotFound
	}
	return &list[0], nil
}

// List returns bookmarks for a package key, oldest first.
func (s *bookmarkStore) List(ctx context.Context, packageKey string) ([]domain.Bookmark, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, package_key, ref, path, label, created_at
		FROM bookmarks
		WHERE ? = '' OR package_key = ?
		ORDER BY created_at, id
	`, packageKey, packageKey)
	if err != nil {
		return nil, fmt.Errorf("querying bookmarks: %w", err)
	}
	defer rows.Close()

	return scanBookmarks(rows)
}

// Delete removes a bookmark.
func (s *bookmarkStore) Delete(ctx context.Context, id string) error {
	result, err := s.store.db.ExecContext(ctx, "DELETE FROM bookmarks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting bookmark: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deleted rows: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanBookmarks(rows *sql.Rows) ([]domain.Bookmark, error) {
	result := make([]domain.Bookmark, 0)
	for rows.Next() {
		var b domain.Bookmark
		var refJSON string
		if err := rows.Scan(&b.ID, &b.PackageKey, &refJSON, &b.Path, &b.Label, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning bookmark: %w", err)
		}
		if err := json.Unmarshal([]byte(refJSON), &b.Ref); err != nil {
			return nil, fmt.Errorf("unmarshaling ref: %w", err)
		}
		result = append(result, b)
	}
	return result, rows.Err()
}
