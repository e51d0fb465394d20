// Package logger provides verbose logging for the almanac CLI.
// When verbose mode is enabled via the --verbose flag, messages are printed
// to stderr to show provider selection, normalisation passes and timings.
// Errors are printed regardless of verbose mode.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

type level int

const (
	levelDebug level = iota
	levelInfo
	levelWarn
	levelError
)

var prefixes = [...]string{
	levelDebug: "[DEBUG] ",
	levelInfo:  "[INFO] ",
	levelWarn:  "[WARN] ",
	levelError: "[ERROR] ",
}

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

// SetOutput redirects log output. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// emit holds the write lock so concurrent lines never interleave.
func emit(l level, format string, args []any) {
	mu.Lock()
	defer mu.Unlock()
	if l < levelError && !verbose {
		return
	}
	fmt.Fprintf(output, prefixes[l]+format+"\n", args...)
}

// Debug logs a diagnostic message.
func Debug(format string, args ...any) { emit(levelDebug, format, args) }

// Info logs a progress message.
func Info(format string, args ...any) { emit(levelInfo, format, args) }

// Warn logs a recoverable problem, such as a fallback engine.
func Warn(format string, args ...any) { emit(levelWarn, format, args) }

// Error logs a failure. Always printed.
func Error(format string, args ...any) { emit(levelError, format, args) }

// Section prints a section header.
func Section(name string) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Timed starts a timer for step. Calling the returned func logs the
// elapsed time at debug level.
func Timed(step string) func() {
	if !IsVerbose() {
		return func() {}
	}
	start := time.Now()
	return func() {
		Debug("%s took %s", step, time.Since(start).Round(time.Microsecond))
	}
}
