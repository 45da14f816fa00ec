// Package logger provides verbose logging for valuesref.
// When verbose mode is enabled via the --verbose flag, debug messages
// are printed to stderr to trace schema fetching, resolution and
// rendering.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// Level tags. color disables itself when output is not a terminal
// or NO_COLOR is set.
var (
	debugTag = color.New(color.FgHiBlack).SprintFunc()
	infoTag  = color.New(color.FgCyan).SprintFunc()
	warnTag  = color.New(color.FgYellow, color.Bold).SprintFunc()
	header   = color.New(color.Bold).SprintFunc()
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for verbose logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

func logf(tag, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, tag+" "+format+"\n", args...)
	}
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	logf(debugTag("[DEBUG]"), format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n%s\n", header("=== "+name+" ==="))
	}
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	logf(infoTag("[INFO]"), format, args...)
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	logf(warnTag("[WARN]"), format, args...)
}

// Timed logs the elapsed time of an operation when the returned func is
// called. Typical use: defer logger.Timed("render")().
func Timed(name string) func() {
	start := time.Now()
	return func() {
		Debug("%s took %v", name, time.Since(start).Round(time.Microsecond))
	}
}
