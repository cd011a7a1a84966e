package build

import (
	"github.com/StinkyLord/flymake/internal/manifest"
	"github.com/StinkyLord/flymake/internal/project"
)

// WholeProject builds every library-rule folder first (insertion order),
// then every source-program and tool-folder folder in insertion order
// (original §4.5's whole-project rule).
func (b *Builder) WholeProject(st *project.State) error {
	for _, fr := range st.Manifest.Folders {
		if fr.Kind == manifest.RuleLibrary {
			if err := b.Library(st, fr.Path); err != nil {
				return err
			}
		}
	}
	for _, fr := range st.Manifest.Folders {
		switch fr.Kind {
		case manifest.RuleSourceProgram:
			if err := b.SourceProgram(st, fr.Path); err != nil {
				return err
			}
		case manifest.RuleToolFolder:
			if err := b.ToolFolder(st, fr.Path, ""); err != nil {
				return err
			}
		}
	}
	return nil
}
