// Package depres implements the dependency resolver (original §4.6): walks
// the manifest dependency graph, materializes prebuilt/path/git
// dependencies, checks version compatibility, and accumulates include and
// library flags onto project state.
package depres

import (
	"os"
	"path/filepath"

	"github.com/StinkyLord/flymake/internal/ferr"
	"github.com/StinkyLord/flymake/internal/logctx"
	"github.com/StinkyLord/flymake/internal/manifest"
	"github.com/StinkyLord/flymake/internal/project"
	"github.com/StinkyLord/flymake/internal/semver"
)

// Options carries resolver-wide settings bound from CLI flags.
type Options struct {
	Log          *logctx.Logger
	RebuildDeps  bool // --all: also rebuild/re-clone dependencies
}

// Resolve walks st's manifest dependency table breadth-first, then recurses
// depth-second into every newly materialized package/git dependency whose
// own manifest declares dependencies (original §4.6).
func Resolve(root, st *project.State, opts Options) error {
	var newlyCreated []*project.Dependency

	for _, decl := range st.Manifest.Dependencies {
		dep, created, err := resolveOne(root, st, decl, opts)
		if err != nil {
			return err
		}
		if created {
			newlyCreated = append(newlyCreated, dep)
		}
	}

	for _, dep := range newlyCreated {
		if dep.Sub == nil {
			continue
		}
		if len(dep.Sub.Manifest.Dependencies) == 0 {
			continue
		}
		if root.IsResolving(dep.Name) {
			return ferr.Manifest(dep.Sub.Manifest.Path, 0, 0, "dependency cycle detected at "+dep.Name)
		}
		done := root.BeginResolving(dep.Name)
		err := Resolve(root, dep.Sub, opts)
		done()
		if err != nil {
			return err
		}
	}

	return nil
}

// resolveOne handles a single dependency declaration: lookup-and-check for
// an already-resolved name, or construct a new record per its shape
// (original §4.6).
func resolveOne(root, st *project.State, decl *manifest.DependencyDecl, opts Options) (dep *project.Dependency, created bool, err error) {
	if existing := root.FindDependency(decl.Name); existing != nil {
		if err := checkCompatible(st, decl, existing); err != nil {
			return nil, false, err
		}
		st.AddInclude(existing.IncludeDir)
		return existing, false, nil
	}

	switch shape(decl) {
	case shapePrebuilt:
		dep, err = resolvePrebuilt(st, decl)
	case shapePackage:
		dep, err = resolvePackage(root, st, decl)
	case shapeGit:
		dep, err = resolveGit(root, st, decl, opts)
	default:
		err = ferr.Manifest(manifestPathOf(st), decl.Line, 1, "dependency \""+decl.Name+"\" has neither path, inc, nor git")
	}
	if err != nil {
		return nil, false, err
	}

	root.Dependencies = append(root.Dependencies, dep)
	for _, lib := range dep.Libraries {
		root.AddLibrary(lib)
	}
	st.AddInclude(dep.IncludeDir)

	return dep, true, nil
}

type depShape int

const (
	shapeUnknown depShape = iota
	shapePrebuilt
	shapePackage
	shapeGit
)

func shape(decl *manifest.DependencyDecl) depShape {
	switch {
	case decl.Git != "":
		return shapeGit
	case decl.Path != "" && decl.Inc != "":
		return shapePrebuilt
	case decl.Path != "":
		return shapePackage
	default:
		return shapeUnknown
	}
}

func checkCompatible(st *project.State, decl *manifest.DependencyDecl, existing *project.Dependency) error {
	ok, err := semver.Match(decl.Version, existing.ResolvedVersion)
	if err != nil {
		return ferr.Manifest(manifestPathOf(st), decl.Line, 1, err.Error())
	}
	if !ok {
		return ferr.Manifest(manifestPathOf(st), decl.Line, 1,
			"dependency \""+decl.Name+"\" requested range "+decl.Version+" is incompatible with already-resolved version "+existing.ResolvedVersion)
	}

	if decl.Path != "" && decl.Inc != "" {
		// Second prebuilt declaration: include paths must be identical.
		a, _ := filepath.Abs(filepath.Join(st.AbsPath, decl.Inc))
		b := existing.PrebuiltInc
		if filepath.Clean(a) != filepath.Clean(b) {
			return ferr.Manifest(manifestPathOf(st), decl.Line, 1,
				"dependency \""+decl.Name+"\" redeclared with a different include path: "+a+" vs "+b)
		}
	}

	return nil
}

func resolvePrebuilt(st *project.State, decl *manifest.DependencyDecl) (*project.Dependency, error) {
	libPath := filepath.Join(st.AbsPath, decl.Path)
	incPath := filepath.Join(st.AbsPath, decl.Inc)

	if _, err := os.Stat(libPath); err != nil {
		return nil, ferr.Manifest(manifestPathOf(st), decl.Line, 1, "dependency \""+decl.Name+"\" library file not found: "+libPath)
	}
	info, err := os.Stat(incPath)
	if err != nil || !info.IsDir() {
		return nil, ferr.Manifest(manifestPathOf(st), decl.Line, 1, "dependency \""+decl.Name+"\" include folder not found: "+incPath)
	}

	version := decl.Version
	if version == "" {
		version = "*"
	}
	resolved, err := concreteFromRange(version)
	if err != nil {
		return nil, ferr.Manifest(manifestPathOf(st), decl.Line, 1, err.Error())
	}

	return &project.Dependency{
		Name:            decl.Name,
		RequestedRange:  version,
		ResolvedVersion: resolved,
		Libraries:       []string{libPath},
		IncludeDir:      incPath,
		Built:           true, // nothing to build for a prebuilt dependency
		PrebuiltInc:     incPath,
	}, nil
}

func resolvePackage(root, st *project.State, decl *manifest.DependencyDecl) (*project.Dependency, error) {
	subRoot := filepath.Join(st.AbsPath, decl.Path)
	info, err := os.Stat(subRoot)
	if err != nil || !info.IsDir() {
		return nil, ferr.Manifest(manifestPathOf(st), decl.Line, 1, "dependency \""+decl.Name+"\" path is not a folder: "+subRoot)
	}

	subManifest, err := manifest.Load(subRoot)
	if err != nil {
		return nil, err
	}
	if !hasLibraryFolder(subManifest) {
		return nil, ferr.Manifest(manifestPathOf(st), decl.Line, 1, "dependency \""+decl.Name+"\" project cannot be built as a library: "+subRoot)
	}

	version := subManifest.Package.Version
	if version == "" || version == "*" {
		if decl.Version != "" {
			version = decl.Version
		} else {
			version = "*"
		}
	}
	resolved, err := concreteFromRange(version)
	if err != nil {
		return nil, ferr.Manifest(manifestPathOf(st), decl.Line, 1, err.Error())
	}
	if ok, err := semver.Match(decl.Version, resolved); err != nil {
		return nil, ferr.Manifest(manifestPathOf(st), decl.Line, 1, err.Error())
	} else if decl.Version != "" && !ok {
		return nil, ferr.Manifest(manifestPathOf(st), decl.Line, 1,
			"dependency \""+decl.Name+"\" resolved version "+resolved+" does not satisfy requested range "+decl.Version)
	}

	rel, _ := filepath.Rel(root.AbsPath, subRoot)
	sub := project.NewSub(root, filepath.ToSlash(rel), subRoot, subManifest)

	return &project.Dependency{
		Name:            decl.Name,
		RequestedRange:  decl.Version,
		ResolvedVersion: resolved,
		IncludeDir:      subRoot,
		Sub:             sub,
	}, nil
}

func hasLibraryFolder(m *manifest.Manifest) bool {
	for _, fr := range m.Folders {
		if fr.Kind == manifest.RuleLibrary {
			return true
		}
	}
	return false
}

// concreteFromRange picks a single concrete version out of a range
// expression for display/storage purposes: the range's lower bound, or "*"
// if the range is a wildcard. This mirrors the spec's resolved-version
// field, which is always a concrete point even when the request was a
// range (original §3).
func concreteFromRange(rangeExpr string) (string, error) {
	if rangeExpr == "" || rangeExpr == "*" {
		return "*", nil
	}
	if _, err := semver.ParseRange(rangeExpr); err != nil {
		return "", err
	}
	return rangeExpr, nil
}

func manifestPathOf(st *project.State) string {
	if st.Manifest.Path != "" {
		return st.Manifest.Path
	}
	return filepath.Join(st.AbsPath, manifest.FileName)
}
