// Package logger is the opt-in diagnostic log of the paymate CLI.
// Nothing is written unless verbose mode is on (--verbose); output goes
// to stderr so command output stays pipeable. The messages narrate the
// authorization flow, token storage and balance queries as they run.
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

// IsVerbose reports whether verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput redirects the log, primarily for tests. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// logf writes one prefixed line when verbose mode is on.
func logf(prefix, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, prefix+format+"\n", args...)
	}
}

// Debug logs flow-level detail, e.g. which exchange strategy ran.
func Debug(format string, args ...any) {
	logf("[DEBUG] ", format, args...)
}

// Info logs a notable milestone, e.g. a wallet connecting.
func Info(format string, args ...any) {
	logf("[INFO] ", format, args...)
}

// Warn logs a recoverable problem, e.g. a fallback being taken.
func Warn(format string, args ...any) {
	logf("[WARN] ", format, args...)
}

// Section prints a header separating the phases of a command run.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}
