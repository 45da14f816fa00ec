// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - SchemaFetcher: Retrieves raw schema bytes for one source kind
//   - SchemaDecoder: Decodes JSON or YAML into an ordered domain.Value
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - SchemaCache: Raw schema cache. Without it every load fetches.
//   - BookmarkStore: Bookmark persistence. Without it bookmarks are disabled.
//   - Clipboard: System clipboard. Without it copy is disabled.
//   - SchemaWatcher: File change notifications. Without it reload is manual.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
