package build

import (
	"path/filepath"

	"github.com/StinkyLord/flymake/internal/project"
)

// Library runs the --rl folder-builder algorithm (original §4.5): compile
// every source file, then archive if anything changed, the archive is
// missing, or a force rebuild was requested. Sets st.LibraryRecompiled so a
// later source-program build in the same state knows to relink.
func (b *Builder) Library(st *project.State, relPath string) error {
	folder := filepath.Join(st.AbsPath, filepath.FromSlash(relPath))
	b.Log.Folder("building library: %s", folder)

	objs, _, rebuilt, err := b.compileAll(st, folder, st.Manifest.ScanDepth())
	if err != nil {
		return err
	}
	if len(objs) == 0 {
		return nil
	}

	archivePath := filepath.Join(folder, archiveName(st, relPath)+".a")
	if rebuilt || b.Driver.ForceRebuild || !exists(archivePath) {
		if err := b.Driver.Archive(archivePath, objs); err != nil {
			return err
		}
		st.LibraryRecompiled = true
		if st.Root != st {
			st.Root.LibraryRecompiled = true
		}
	}

	st.AddLibrary(archivePath)
	return nil
}
