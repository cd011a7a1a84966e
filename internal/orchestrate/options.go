// Package orchestrate binds the engine packages (manifest, project,
// depres, build, target) into the five commands of original §4.8: build,
// clean, run, test, new.
package orchestrate

import "github.com/StinkyLord/flymake/internal/manifest"

// Options carries the CLI-wide flags of original §6.1.
type Options struct {
	ForceRebuild  bool // -B
	DebugLevel    int  // -D[=N]; -1 means disabled
	DryRun        bool // -n
	Verbosity     int  // -v[=N]
	WarningsOff   bool // -w-
	All           bool // --all: implies -B, rebuilds dependencies, clean removes deps/
	ForcedRule    manifest.RuleKind
	HasForcedRule bool
}

// effectiveForceRebuild reports whether project (non-dependency) files
// should be force-rebuilt: -B or --all.
func (o Options) effectiveForceRebuild() bool {
	return o.ForceRebuild || o.All
}
