package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

// SourceKind identifies where a values schema is fetched from.
type SourceKind string

// Available schema sources.
const (
	// SourceArtifactHub is the Artifact Hub package API.
	SourceArtifactHub SourceKind = "artifacthub"

	// SourceGitHub is a file in a GitHub repository.
	SourceGitHub SourceKind = "github"

	// SourceFile is a local file.
	SourceFile SourceKind = "file"
)

// IsValid returns true if the source kind is recognised.
func (k SourceKind) IsValid() bool {
	switch k {
	case SourceArtifactHub, SourceGitHub, SourceFile:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k SourceKind) String() string {
	return string(k)
}

// Description returns a human-readable description of the source.
func (k SourceKind) Description() string {
	switch k {
	case SourceArtifactHub:
		return "Artifact Hub"
	case SourceGitHub:
		return "GitHub repository"
	case SourceFile:
		return "Local file"
	default:
		return unknownDescription
	}
}

// PackageRef identifies the values schema of one package version.
type PackageRef struct {
	// Source selects the fetcher.
	Source SourceKind

	// PackageID is the Artifact Hub package identifier.
	PackageID string

	// Version is the package version.
	Version string

	// Name is the package name, used for display and download names.
	Name string

	// Owner and Repo address a GitHub repository.
	Owner string
	Repo  string

	// GitRef is the branch, tag or commit to read; empty means the default branch.
	GitRef string

	// Path is the schema file path, in the repository or on disk.
	Path string
}

// Validate checks that the fields required by Source are present.
func (r PackageRef) Validate() error {
	switch r.Source {
	case SourceArtifactHub:
		if r.PackageID == "" || r.Version == "" {
			return fmt.Errorf("%w: artifacthub ref needs package id and version", ErrInvalidInput)
		}
	case SourceGitHub:
		if r.Owner == "" || r.Repo == "" || r.Path == "" {
			return fmt.Errorf("%w: github ref needs owner, repo and path", ErrInvalidInput)
		}
	case SourceFile:
		if r.Path == "" {
			return fmt.Errorf("%w: file ref needs a path", ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: source %q", ErrUnsupportedType, r.Source)
	}
	return nil
}

// Key returns a stable identifier used for caching and bookmarks.
func (r PackageRef) Key() string {
	switch r.Source {
	case SourceArtifactHub:
		return fmt.Sprintf("artifacthub/%s@%s", r.PackageID, r.Version)
	case SourceGitHub:
		ref := r.GitRef
		if ref == "" {
			ref = "HEAD"
		}
		return fmt.Sprintf("github/%s/%s@%s#%s", r.Owner, r.Repo, ref, r.Path)
	case SourceFile:
		return "file/" + filepath.ToSlash(r.Path)
	default:
		return string(r.Source) + "/" + r.Name
	}
}

// DisplayName returns the name shown in titles and status lines.
func (r PackageRef) DisplayName() string {
	name := r.Name
	switch {
	case name != "":
	case r.Source == SourceGitHub:
		name = r.Owner + "/" + r.Repo
	case r.Path != "":
		name = filepath.Base(r.Path)
	default:
		name = r.PackageID
	}
	if r.Version != "" {
		return name + " " + r.Version
	}
	return name
}

// NormalizedName returns a lowercase file-safe package name.
func (r PackageRef) NormalizedName() string {
	name := r.Name
	if name == "" {
		switch r.Source {
		case SourceGitHub:
			name = r.Repo
		case SourceFile:
			name = strings.TrimSuffix(filepath.Base(r.Path), filepath.Ext(r.Path))
		default:
			name = r.PackageID
		}
	}
	var b strings.Builder
	dash := false
	for _, c := range strings.ToLower(name) {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '.', c == '_':
			b.WriteRune(c)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	out := strings.Trim(b.String(), "-.")
	if out == "" {
		return "values-schema"
	}
	return out
}
