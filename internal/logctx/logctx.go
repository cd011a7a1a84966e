// Package logctx provides a small verbosity-scoped logger used throughout
// the engine in place of a process-wide logging framework.
package logctx

import (
	"fmt"
	"io"
	"os"
)

// Logger carries the options that every component needs to decide how much
// to print and whether to actually run anything. It is constructed once per
// command in internal/orchestrate's setup and passed down as a plain
// argument, mirroring the teacher's Scanner{Verbose bool} field.
type Logger struct {
	// Level is 0 (summary only), 1 (adds one line per folder built), or 2
	// (adds each full expanded command line and debug lines).
	Level int

	// DryRun, when true, means callers should print the command they would
	// run and skip execution.
	DryRun bool

	out io.Writer
	err io.Writer
}

// New creates a Logger writing progress to stderr and result data to stdout.
func New(level int, dryRun bool) *Logger {
	return &Logger{
		Level:  level,
		DryRun: dryRun,
		out:    os.Stdout,
		err:    os.Stderr,
	}
}

// Summary prints a line that is always shown, regardless of verbosity —
// the "up to date" / "empty project" / file-count lines of §4.8.
func (l *Logger) Summary(format string, args ...any) {
	fmt.Fprintf(l.out, format+"\n", args...)
}

// Folder prints a line when entering a folder being built, at level >= 1.
func (l *Logger) Folder(format string, args ...any) {
	if l.Level < 1 {
		return
	}
	fmt.Fprintf(l.err, format+"\n", args...)
}

// Command prints the command about to run, at level >= 2, or always when
// DryRun is set (a dry run has nothing else to show the user).
func (l *Logger) Command(format string, args ...any) {
	if l.Level < 2 && !l.DryRun {
		return
	}
	fmt.Fprintf(l.err, format+"\n", args...)
}

// Debugf prints a diagnostic line at level >= 2.
func (l *Logger) Debugf(format string, args ...any) {
	if l.Level < 2 {
		return
	}
	fmt.Fprintf(l.err, "[debug] "+format+"\n", args...)
}
