package github

import (
	"errors"
	"fmt"
	"time"
)

// GitHub fetcher errors.
var (
	// ErrNotAFile indicates the path names a directory or submodule.
	ErrNotAFile = errors.New("github: path is not a file")

	// ErrOutsideRepo indicates a relative ref that climbs above the repository root.
	ErrOutsideRepo = errors.New("github: ref points outside the repository")
)

// RateLimitError represents a rate limit exceeded error with reset time.
type RateLimitError struct {
	ResetAt   time.Time
	Remaining int
	Limit     int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("github: rate limit exceeded, resets at %s", e.ResetAt.Format(time.RFC3339))
}

// APIError represents a GitHub API error response.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github: API error %d: %s (URL: %s)", e.StatusCode, e.Message, e.URL)
}
