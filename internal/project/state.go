// Package project holds the project-state tree: one State per manifest,
// built recursively for dependencies (original §3).
package project

import (
	"path/filepath"

	"github.com/StinkyLord/flymake/internal/manifest"
)

// Dependency is a resolved dependency record (original §3).
type Dependency struct {
	Name            string
	RequestedRange  string
	ResolvedVersion string
	Libraries       []string // library artifact paths to link against
	IncludeDir      string
	Built           bool
	// PrebuiltInc is set only for prebuilt dependencies, recording the
	// include path so a later compatible re-declaration can be checked
	// for identity (original §4.6).
	PrebuiltInc string
	// Sub is the dependency's own owned project State; nil for prebuilt
	// dependencies.
	Sub *State
}

// State is one project's build state: a root project, or a dependency's
// sub-state rooted at a different folder (original §3).
type State struct {
	// RootRelPath is this state's path relative to the top-level root;
	// "" for the top-level root itself.
	RootRelPath string
	AbsPath     string
	IncludeDir  string
	DepsOutDir  string

	Name    string
	Version string

	Manifest *manifest.Manifest

	// Root is the top-level project's State. For the root itself, Root
	// points to itself.
	Root *State

	// Dependencies is only meaningful on Root: the canonical,
	// deduplicated-by-name dependency list (original §3, §4.6).
	Dependencies []*Dependency

	// IncludeSearch and LibraryLink are the accumulated include-search and
	// library-link lists for this state (original §3). LibraryLink only
	// ever grows on Root; IncludeSearch grows per-state.
	IncludeSearch []string
	LibraryLink   []string

	// LibraryRecompiled forces a relink of any source-program/tool build
	// that consults it (original §3, §4.5, §4.6).
	LibraryRecompiled bool

	FilesCompiled int
	FilesSeen     int

	// resolving tracks dependency names currently being resolved on this
	// state's recursion path, guarding against manifest cycles (original
	// §9's "explicit visiting set" design note).
	resolving map[string]bool
}

// NewRoot constructs the top-level project State from a discovered root
// path and its loaded manifest.
func NewRoot(absRoot string, m *manifest.Manifest) *State {
	s := &State{
		AbsPath:    absRoot,
		IncludeDir: absRoot,
		DepsOutDir: filepath.Join(absRoot, "deps"),
		Name:       m.Package.Name,
		Version:    m.Package.Version,
		Manifest:   m,
		resolving:  map[string]bool{},
	}
	s.Root = s
	return s
}

// NewSub constructs a dependency's owned sub-state, inheriting the root's
// compiler rules implicitly (via its own manifest's default injection) but
// sharing the root's canonical dependency list and library accumulator
// (original §3's "dependency states inherit options and compiler rules
// from the root").
func NewSub(root *State, relPath, absPath string, m *manifest.Manifest) *State {
	return &State{
		RootRelPath: relPath,
		AbsPath:     absPath,
		IncludeDir:  absPath,
		DepsOutDir:  filepath.Join(absPath, "deps"),
		Name:        m.Package.Name,
		Version:     m.Package.Version,
		Manifest:    m,
		Root:        root,
	}
}

// IsRoot reports whether s is the top-level project state.
func (s *State) IsRoot() bool { return s.Root == s }

// FindDependency looks up an already-resolved dependency by name on the
// root's canonical list.
func (s *State) FindDependency(name string) *Dependency {
	for _, d := range s.Root.Dependencies {
		if d.Name == name {
			return d
		}
	}
	return nil
}

// IsResolving reports whether name is currently being resolved somewhere on
// the active recursion path — the cycle guard (original §9).
func (s *State) IsResolving(name string) bool {
	return s.Root.resolving[name]
}

// BeginResolving marks name as being resolved; the returned func must be
// deferred to clear the mark.
func (s *State) BeginResolving(name string) func() {
	if s.Root.resolving == nil {
		s.Root.resolving = map[string]bool{}
	}
	s.Root.resolving[name] = true
	return func() { delete(s.Root.resolving, name) }
}

// AddLibrary appends a library path to the root's accumulated link list,
// in insertion (dependency-list) order (original §3, §4.6).
func (s *State) AddLibrary(path string) {
	s.Root.LibraryLink = append(s.Root.LibraryLink, path)
}

// AddInclude appends an include folder to this state's (not necessarily
// root's) accumulated include-search list (original §4.6: "append its
// include folder to the enclosing state's include list").
func (s *State) AddInclude(path string) {
	s.IncludeSearch = append(s.IncludeSearch, path)
}
