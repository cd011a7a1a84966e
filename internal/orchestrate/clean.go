package orchestrate

import (
	"os"
	"path/filepath"

	"github.com/StinkyLord/flymake/internal/manifest"
	"github.com/StinkyLord/flymake/internal/project"
)

// Clean implements the `clean` command (original §4.8): for each folder in
// the rule list, delete its out/ directory. If force-rebuild is set, also
// delete library archives, source-program executables, and tool
// executables. If --all is set, also delete <root>/deps/.
func Clean(startPath string, opts Options) error {
	rootPath, err := project.Discover(startPath)
	if err != nil {
		return err
	}
	m, err := manifest.Load(rootPath)
	if err != nil {
		return err
	}
	root := project.NewRoot(rootPath, m)

	for _, fr := range m.Folders {
		folder := filepath.Join(rootPath, filepath.FromSlash(fr.Path))
		if err := os.RemoveAll(filepath.Join(folder, "out")); err != nil {
			return err
		}

		if !opts.effectiveForceRebuild() {
			continue
		}

		switch fr.Kind {
		case manifest.RuleLibrary:
			name := archiveNameForClean(root, fr.Path)
			os.Remove(filepath.Join(folder, name+".a"))
		case manifest.RuleSourceProgram:
			name := programNameForClean(root, fr.Path)
			os.Remove(filepath.Join(folder, name))
		case manifest.RuleToolFolder:
			removeToolExecutables(folder)
		}
	}

	if opts.All {
		if err := os.RemoveAll(root.DepsOutDir); err != nil {
			return err
		}
	}

	return nil
}

// archiveNameForClean and programNameForClean duplicate the naming
// exceptions of internal/build (lib/library/ and src/source/ use the
// project name) because clean must be able to find the artifact without
// running a build. The `clean` logic historically existed in two divergent
// forms (one project-name-based, one folder-basename-based); this
// unifies on the folder-basename convention to match the build side
// (original §9's documented ambiguity, resolved for §4.5).
func archiveNameForClean(root *project.State, relPath string) string {
	base := filepath.Base(filepath.Clean(relPath))
	if base == "lib" || base == "library" {
		return root.Name
	}
	return base
}

func programNameForClean(root *project.State, relPath string) string {
	base := filepath.Base(filepath.Clean(relPath))
	if base == "src" || base == "source" {
		return root.Name
	}
	return base
}

func removeToolExecutables(folder string) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if filepath.Ext(e.Name()) != "" {
			continue // has an extension: a source file, not a tool binary
		}
		os.Remove(filepath.Join(folder, e.Name()))
	}
}
