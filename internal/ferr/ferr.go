// Package ferr defines the error taxonomy used across the engine so the
// command-dispatch layer can decide how to present a failure without
// string-sniffing error messages.
package ferr

import (
	"fmt"
	"os"
	"strings"
)

// Kind classifies an error the way the original implementation's error
// codes did. Error() renders Custom and BadManifest without the kind
// prefix; the dispatcher in cmd prints every kind the same way.
type Kind int

const (
	// Mem signals an allocation failure. Fatal; callers should abort
	// immediately rather than attempt recovery.
	Mem Kind = iota
	// BadPath signals a missing file or folder.
	BadPath
	// BadProg signals a user-named target with no matching build output.
	BadProg
	// BadManifest signals a manifest parse or validation failure.
	BadManifest
	// NotProject signals that root discovery failed.
	NotProject
	// NoFiles signals a requested folder contained no compilable source.
	NoFiles
	// NotSameRoot signals a target outside the active project root.
	NotSameRoot
	// NoRule signals a target that could not be assigned a build rule.
	NoRule
	// Clone signals a git materialization failure.
	Clone
	// Write signals a scaffolding file write failure.
	Write
	// Custom marks an error whose Context is already a complete
	// description (e.g. the failing command line). The detecting site
	// prints nothing itself; Error() renders "<context>: <cause>" and the
	// dispatcher prints it like any other error.
	Custom
)

func (k Kind) String() string {
	switch k {
	case Mem:
		return "mem"
	case BadPath:
		return "bad-path"
	case BadProg:
		return "bad-prog"
	case BadManifest:
		return "bad-manifest"
	case NotProject:
		return "not-project"
	case NoFiles:
		return "no-files"
	case NotSameRoot:
		return "not-same-root"
	case NoRule:
		return "no-rule"
	case Clone:
		return "clone"
	case Write:
		return "write"
	case Custom:
		return "custom"
	default:
		return "unknown"
	}
}

// Error wraps an underlying cause with a Kind and an optional context
// string (a path, or a manifest location for BadManifest). Snippet, when
// set, is a caret-annotated source excerpt rendered beneath the message
// (original §4.1).
type Error struct {
	Kind    Kind
	Context string
	Cause   error
	Snippet string
}

func (e *Error) Error() string {
	if e.Kind == Custom {
		// The detecting site already produced a tailored description
		// (e.g. the failing command line) as Context; still surface it,
		// since this is the only place the failure is ever printed.
		if e.Context == "" {
			return e.Cause.Error()
		}
		return fmt.Sprintf("%s: %v", e.Context, e.Cause)
	}

	var msg string
	switch {
	case e.Kind == BadManifest && e.Context != "":
		// Context is "<path>:<line>:<col>" and Cause reads "error: <reason>".
		msg = fmt.Sprintf("%s: %v", e.Context, e.Cause)
	case e.Context == "":
		msg = fmt.Sprintf("%s: %v", e.Kind, e.Cause)
	default:
		msg = fmt.Sprintf("%s: %s: %v", e.Kind, e.Context, e.Cause)
	}
	if e.Snippet != "" {
		msg += "\n" + e.Snippet
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds a *Error from a Kind, a context string, and a plain message.
func New(kind Kind, context, format string, args ...any) *Error {
	return &Error{Kind: kind, Context: context, Cause: fmt.Errorf(format, args...)}
}

// Wrap builds a *Error from a Kind, a context string, and an existing
// error, preserving it for errors.Unwrap/errors.Is chains.
func Wrap(kind Kind, context string, cause error) *Error {
	return &Error{Kind: kind, Context: context, Cause: cause}
}

// Manifest builds a BadManifest error with a caret-highlighted excerpt in
// the style of:
//
//	<root>/manifest:<line>:<col>: error: <reason>
//	<offending line text>
//	   ^
func Manifest(path string, line, col int, reason string) *Error {
	loc := fmt.Sprintf("%s:%d:%d", path, line, col)
	return &Error{
		Kind:    BadManifest,
		Context: loc,
		Cause:   fmt.Errorf("error: %s", reason),
		Snippet: sourceSnippet(path, line, col),
	}
}

// sourceSnippet best-effort renders the manifest's offending line plus a
// caret under col (original §4.1). It returns "" when the line can't be
// recovered: a synthetic location (line < 1, e.g. the dependency cycle
// guard), an unreadable file, or a line number past the end of the file.
func sourceSnippet(path string, line, col int) string {
	if line < 1 {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	lines := strings.Split(string(data), "\n")
	if line > len(lines) {
		return ""
	}
	text := strings.TrimRight(lines[line-1], "\r")

	if col < 1 {
		col = 1
	}
	pad := col - 1
	if pad > len(text) {
		pad = len(text)
	}
	return text + "\n" + strings.Repeat(" ", pad) + "^"
}
