package build

import (
	"path/filepath"

	"github.com/StinkyLord/flymake/internal/ferr"
	"github.com/StinkyLord/flymake/internal/project"
)

// SourceProgram runs the --rs folder-builder algorithm (original §4.5):
// compile the folder, then link if any object was rebuilt, the project's
// library was recompiled, the executable is missing, or a force rebuild
// was requested.
func (b *Builder) SourceProgram(st *project.State, relPath string) error {
	folder := filepath.Join(st.AbsPath, filepath.FromSlash(relPath))
	b.Log.Folder("building program: %s", folder)

	objs, sources, rebuilt, err := b.compileAll(st, folder, st.Manifest.ScanDepth())
	if err != nil {
		return err
	}
	if len(objs) == 0 {
		return nil
	}

	exePath := filepath.Join(folder, programName(st, relPath))
	needsLink := rebuilt || st.Root.LibraryRecompiled || b.Driver.ForceRebuild || !exists(exePath)
	if !needsLink {
		return nil
	}

	rule := linkRuleFor(st, sources)
	if rule == nil {
		return ferr.New(ferr.NoFiles, folder, "no compiler rule matches any source file in %s", folder)
	}
	return b.Driver.Link(rule, objs, st.Root.LibraryLink, exePath)
}
