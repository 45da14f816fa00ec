// Package clipboard provides a driven.Clipboard backed by the system clipboard.
package clipboard

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/custodia-labs/valuesref/internal/core/ports/driven"
)

// ErrUnavailable is returned when no clipboard utility is installed.
var ErrUnavailable = errors.New("clipboard: not available on this system")

// Ensure System implements the interface.
var _ driven.Clipboard = (*System)(nil)

// System writes to the operating system clipboard.
type System struct {
	write       func(string) error
	unsupported bool
}

// New returns a System clipboard.
func New() *System {
	return &System{
		write:       clipboard.WriteAll,
		unsupported: clipboard.Unsupported,
	}
}

// Available reports whether copying can succeed.
func (s *System) Available() bool {
	return !s.unsupported
}

// Copy writes text to the clipboard.
func (s *System) Copy(text string) error {
	if s.unsupported {
		return ErrUnavailable
	}
	if err := s.write(text); err != nil {
		return fmt.Errorf("copying to clipboard: %w", err)
	}
	return nil
}
