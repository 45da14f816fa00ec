package domain

import "time"

// Bookmark is a saved deep link into a package's values schema.
type Bookmark struct {
	// ID is assigned by the store.
	ID string

	// PackageKey is the PackageRef.Key of the bookmarked schema.
	PackageKey string

	// Ref is the package the bookmark points into.
	Ref PackageRef

	// Path is the normalized path key.
	Path string

	// Label is an optional user note.
	Label string

	// CreatedAt is when the bookmark was saved.
	CreatedAt time.Time
}

// ExportFile is a serialized document ready for download or clipboard.
type ExportFile struct {
	FileName    string
	ContentType string
	Content     string
}

// ExportContentType is the media type of exported documents.
const ExportContentType = "text/yaml"
