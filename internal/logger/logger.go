// Package logger provides leveled logging for the fitedit CLI.
// Informational, warning and error messages always go to stderr.
// When verbose mode is enabled via the --verbose flag, debug messages
// and section headers are printed too, tracing each rewrite decision.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
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

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		fmt.Fprintf(output, "[DEBUG] "+format+"\n", args...)
	}
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Info prints an informational message.
func Info(format string, args ...any) {
	write("[INFO] ", format, args...)
}

// Warn prints a warning message.
func Warn(format string, args ...any) {
	write("[WARN] ", format, args...)
}

// Error prints an error message.
func Error(format string, args ...any) {
	write("[ERROR] ", format, args...)
}

// write serialises output so concurrent callers never interleave lines.
func write(prefix, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(output, prefix+format+"\n", args...)
}
