// Package build implements the three folder-builder algorithms
// (library/source-program/tool-folder) and the whole-project build order
// (original §4.5).
package build

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/StinkyLord/flymake/internal/classify"
	"github.com/StinkyLord/flymake/internal/compiler"
	"github.com/StinkyLord/flymake/internal/ferr"
	"github.com/StinkyLord/flymake/internal/logctx"
	"github.com/StinkyLord/flymake/internal/manifest"
	"github.com/StinkyLord/flymake/internal/project"
)

// Builder drives the folder-builder algorithms for one project state.
type Builder struct {
	Log    *logctx.Logger
	Driver *compiler.Driver
}

func folderBasename(relPath string) string {
	return filepath.Base(strings.TrimSuffix(relPath, "/"))
}

// archiveName returns the archive basename (without extension) for a
// library folder, applying the lib/library/ -> project-name exception
// (original §4.5).
func archiveName(st *project.State, relPath string) string {
	base := folderBasename(relPath)
	if base == "lib" || base == "library" {
		return st.Name
	}
	return base
}

// programName returns the executable basename for a source-program folder,
// applying the src/source/ -> project-name exception (original §4.5).
func programName(st *project.State, relPath string) string {
	base := folderBasename(relPath)
	if base == "src" || base == "source" {
		return st.Name
	}
	return base
}

// compileAll classifies folder (extension set = union of every compiler
// rule) and compiles each source file it finds into folder/out/, returning
// the object file list and whether anything was actually rebuilt (original
// §4.5's shared library/source-program compile step).
func (b *Builder) compileAll(st *project.State, folder string, depth int) (objs []string, sources []string, rebuilt bool, err error) {
	exts := st.Manifest.AllExtensions()
	sources, err = classify.Classify(folder, exts, depth)
	if err != nil {
		return nil, nil, false, ferr.Wrap(ferr.BadPath, folder, err)
	}
	st.FilesSeen += len(sources)
	if len(sources) == 0 {
		return nil, sources, false, nil
	}

	outDir := filepath.Join(folder, "out")
	includes := append([]string{st.IncludeDir}, st.IncludeSearch...)
	if st.Root != st {
		includes = append(includes, st.Root.IncludeSearch...)
	}

	for _, src := range sources {
		rule := st.Manifest.RuleFor(filepath.Ext(src))
		if rule == nil {
			continue
		}
		compiled, err := b.Driver.Compile(rule, src, outDir, includes)
		if err != nil {
			return nil, sources, false, err
		}
		if compiled {
			rebuilt = true
			st.FilesCompiled++
		}
		objs = append(objs, compiler.OutputPath(outDir, src))
	}

	return objs, sources, rebuilt, nil
}

func linkRuleFor(st *project.State, sources []string) *manifest.CompilerRule {
	if len(sources) == 0 {
		return nil
	}
	return st.Manifest.RuleFor(filepath.Ext(sources[0]))
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
