package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown schema source type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrFetch indicates the raw schema could not be retrieved.
	// The caller may retry.
	ErrFetch = errors.New("schema fetch failed")

	// ErrRateLimited indicates the upstream API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrInvalidSchema indicates the fetched bytes are not a JSON or YAML schema.
	ErrInvalidSchema = errors.New("invalid schema")

	// Resolution Errors.

	// ErrDanglingRef indicates a $ref whose target does not exist.
	ErrDanglingRef = errors.New("dangling $ref")

	// ErrCircularRef indicates a reference cycle.
	// The resolver truncates cycles into CircularNode and never returns this.
	ErrCircularRef = errors.New("circular $ref")

	// ErrOversized indicates ref expansion exceeded the node budget.
	ErrOversized = errors.New("schema expansion too large")

	// Navigation Errors.

	// ErrLookupMiss indicates a path that is not present in the index.
	ErrLookupMiss = errors.New("path not found")
)

// FetchError wraps a transport failure for a schema reference.
type FetchError struct {
	// Ref is the key of the reference that failed.
	Ref string

	// Status is the HTTP status code, or 0 when no response was received.
	Status int

	// Err is the underlying failure.
	Err error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.Ref, e.Status, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.Ref, e.Err)
}

// Unwrap returns the underlying error.
func (e *FetchError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrFetch) true for every FetchError.
func (e *FetchError) Is(target error) bool { return target == ErrFetch }

// ResolutionKind classifies a ResolutionError.
type ResolutionKind int

// Resolution error kinds.
const (
	DanglingRef ResolutionKind = iota
	Oversized
)

// String returns the name of the kind.
func (k ResolutionKind) String() string {
	switch k {
	case DanglingRef:
		return "dangling_ref"
	case Oversized:
		return "oversized"
	default:
		return unknownDescription
	}
}

// ResolutionError reports a schema that could not be resolved.
type ResolutionError struct {
	Kind ResolutionKind

	// Ref is the offending reference, if any.
	Ref string

	// Path is where in the document resolution failed.
	Path Path
}

func (e *ResolutionError) Error() string {
	at := e.Path.Key()
	if at == "" {
		at = "<root>"
	}
	switch e.Kind {
	case DanglingRef:
		return fmt.Sprintf("%v %q at %s", ErrDanglingRef, e.Ref, at)
	case Oversized:
		return fmt.Sprintf("%v at %s", ErrOversized, at)
	default:
		return fmt.Sprintf("resolution failed at %s", at)
	}
}

// Is maps the kind onto its sentinel.
func (e *ResolutionError) Is(target error) bool {
	switch e.Kind {
	case DanglingRef:
		return target == ErrDanglingRef
	case Oversized:
		return target == ErrOversized
	}
	return false
}
