package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"

	"github.com/custodia-labs/valuesref/internal/core/domain"
	"github.com/custodia-labs/valuesref/internal/core/ports/driven"
)

// Ensure Fetcher implements the interface.
var _ driven.SchemaFetcher = (*Fetcher)(nil)

// MaxSchemaBytes bounds the size of a schema file.
const MaxSchemaBytes = 32 << 20

// Fetcher reads schema files from disk.
type Fetcher struct{}

// NewFetcher creates a file fetcher.
func NewFetcher() *Fetcher {
	return &Fetcher{}
}

// Source returns domain.SourceFile.
func (f *Fetcher) Source() domain.SourceKind {
	return domain.SourceFile
}

// Fetch reads the file at ref.Path.
func (f *Fetcher) Fetch(ctx context.Context, ref domain.PackageRef) ([]byte, error) {
	if ref.Source != domain.SourceFile {
		return nil, fmt.Errorf("%w: source %q", domain.ErrUnsupportedType, ref.Source)
	}
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	return read(ctx, ref.Path)
}

// FetchRef reads a $ref document. Relative refs resolve against the
// directory of the schema file; file: URLs are read as is.
func (f *Fetcher) FetchRef(ctx context.Context, ref domain.PackageRef, uri string) ([]byte, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	switch {
	case u.Scheme == "file":
		return read(ctx, filepath.FromSlash(u.Path))
	case u.Scheme != "" || u.Host != "":
		return nil, fmt.Errorf("%w: ref %q is not a local path", domain.ErrUnsupportedType, uri)
	case filepath.IsAbs(filepath.FromSlash(u.Path)):
		return read(ctx, filepath.FromSlash(u.Path))
	default:
		return read(ctx, filepath.Join(filepath.Dir(ref.Path), filepath.FromSlash(u.Path)))
	}
}

func read(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fh, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &domain.FetchError{Ref: path, Err: fmt.Errorf("%w: %v", domain.ErrNotFound, err)}
		}
		return nil, &domain.FetchError{Ref: path, Err: err}
	}
	defer fh.Close()

	info, err := fh.Stat()
	if err != nil {
		return nil, &domain.FetchError{Ref: path, Err: err}
	}
	if info.IsDir() {
		return nil, &domain.FetchError{Ref: path, Err: fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, path)}
	}

	data, err := io.ReadAll(io.LimitReader(fh, MaxSchemaBytes+1))
	if err != nil {
		return nil, &domain.FetchError{Ref: path, Err: err}
	}
	if len(data) > MaxSchemaBytes {
		return nil, &domain.FetchError{Ref: path, Err: fmt.Errorf("schema larger than %d bytes", MaxSchemaBytes)}
	}
	return data, nil
}
