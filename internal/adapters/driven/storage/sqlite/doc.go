// Package sqlite provides a SQLite-based implementation of the cache and
// bookmark ports.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements both store interfaces
// through a single database connection:
//
//   - SchemaCache: Raw values schemas keyed by package
//   - BookmarkStore: Saved deep links into a schema
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Files are named NNN_description.up.sql and applied
// in order; applied versions are recorded in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.valuesref/valuesref.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
