package orchestrate

import (
	"github.com/StinkyLord/flymake/internal/ferr"
	"github.com/StinkyLord/flymake/internal/manifest"
	"github.com/StinkyLord/flymake/internal/target"
)

// Build implements the `build` command (original §4.8): resolve root, load
// manifest, run the dependency resolver, resolve each target argument (or
// the root if none were given), and invoke the folder builders. Prints
// "up to date" when nothing was compiled and "empty project" when no
// source file was encountered at all.
func Build(startPath string, args []string, opts Options) error {
	eng, err := setup(startPath, opts)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		args = []string{eng.Root.AbsPath}
	}

	for _, arg := range args {
		tgt, err := target.Resolve(eng.Root, opts.ForcedRule, opts.HasForcedRule, arg)
		if err != nil {
			return err
		}
		if err := buildTarget(eng, tgt); err != nil {
			return err
		}
	}

	switch {
	case eng.Root.FilesSeen == 0:
		eng.Log.Summary("empty project")
	case eng.Root.FilesCompiled == 0:
		eng.Log.Summary("up to date")
	default:
		eng.Log.Summary("compiled %d of %d file(s)", eng.Root.FilesCompiled, eng.Root.FilesSeen)
	}

	return nil
}

func buildTarget(eng *engine, tgt *target.Target) error {
	relPath, err := relOf(eng, tgt.Folder)
	if err != nil {
		return err
	}

	switch tgt.Kind {
	case manifest.RuleWholeProject:
		return eng.Builder.WholeProject(eng.Root)
	case manifest.RuleLibrary:
		return eng.Builder.Library(eng.Root, relPath)
	case manifest.RuleSourceProgram:
		return eng.Builder.SourceProgram(eng.Root, relPath)
	case manifest.RuleToolFolder:
		return eng.Builder.ToolFolder(eng.Root, relPath, tgt.File)
	default:
		return ferr.New(ferr.NoRule, tgt.Arg, "unresolved rule kind")
	}
}
