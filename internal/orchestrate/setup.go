package orchestrate

import (
	"github.com/StinkyLord/flymake/internal/build"
	"github.com/StinkyLord/flymake/internal/compiler"
	"github.com/StinkyLord/flymake/internal/depres"
	"github.com/StinkyLord/flymake/internal/logctx"
	"github.com/StinkyLord/flymake/internal/manifest"
	"github.com/StinkyLord/flymake/internal/project"
)

// engine bundles everything a command needs once the root has been
// discovered, the manifest loaded, and dependencies resolved.
type engine struct {
	Root    *project.State
	Log     *logctx.Logger
	Builder *build.Builder
}

// setup discovers the project root from startPath, loads its manifest,
// resolves dependencies, and builds any dependency libraries that still
// need building (original §4.6, control-flow summary of §2).
func setup(startPath string, opts Options) (*engine, error) {
	rootPath, err := project.Discover(startPath)
	if err != nil {
		return nil, err
	}

	m, err := manifest.Load(rootPath)
	if err != nil {
		return nil, err
	}

	root := project.NewRoot(rootPath, m)
	log := logctx.New(opts.Verbosity, opts.DryRun)

	if err := depres.Resolve(root, root, depres.Options{Log: log, RebuildDeps: opts.All}); err != nil {
		return nil, err
	}

	depDriver := &compiler.Driver{
		Log:          log,
		ForceRebuild: opts.All,
		DebugLevel:   opts.DebugLevel,
		WarningsOff:  opts.WarningsOff,
	}
	depBuilder := &build.Builder{Log: log, Driver: depDriver}

	for _, dep := range root.Dependencies {
		if dep.Sub == nil || dep.Built {
			continue
		}
		for _, fr := range dep.Sub.Manifest.Folders {
			if fr.Kind != manifest.RuleLibrary {
				continue
			}
			if err := depBuilder.Library(dep.Sub, fr.Path); err != nil {
				return nil, err
			}
		}
		dep.Built = true
		if dep.Sub.LibraryRecompiled {
			root.LibraryRecompiled = true
		}
	}

	rootDriver := &compiler.Driver{
		Log:          log,
		ForceRebuild: opts.effectiveForceRebuild(),
		DebugLevel:   opts.DebugLevel,
		WarningsOff:  opts.WarningsOff,
	}

	return &engine{
		Root:    root,
		Log:     log,
		Builder: &build.Builder{Log: log, Driver: rootDriver},
	}, nil
}
