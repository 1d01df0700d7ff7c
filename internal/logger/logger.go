// Package logger provides verbose logging for the docchat CLI.
// When verbose mode is enabled via the --verbose flag, the ingestion
// and question-answering pipeline reports its progress to stderr:
// document loading, chunking, embedding, retrieval and generation.
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

// SetOutput sets the output writer for verbose logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// emit writes one levelled line when verbose mode is enabled.
func emit(level, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "["+level+"] "+format+"\n", args...)
	}
}

// Debug reports pipeline internals: chunk counts, retrieval hits,
// prompt sizes.
func Debug(format string, args ...any) {
	emit("DEBUG", format, args...)
}

// Info reports user-relevant progress, such as a document finishing
// indexing.
func Info(format string, args ...any) {
	emit("INFO", format, args...)
}

// Warn reports recoverable problems, such as a prompt store falling
// back to built-in templates.
func Warn(format string, args ...any) {
	emit("WARN", format, args...)
}

// Section prints a header separating pipeline phases in the log,
// if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}
