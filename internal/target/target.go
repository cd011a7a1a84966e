// Package target resolves a user-supplied path argument into a build
// target: a folder, an optional file basename, and a rule kind (original
// §4.3).
package target

import (
	"os"
	"path/filepath"

	"github.com/StinkyLord/flymake/internal/ferr"
	"github.com/StinkyLord/flymake/internal/manifest"
	"github.com/StinkyLord/flymake/internal/project"
)

// Target is derived per user argument; it is never persisted.
type Target struct {
	Arg    string
	Folder string // absolute path, slash-terminated semantics handled by callers
	File   string // basename, "" if the target is the whole folder
	Kind   manifest.RuleKind
}

// Resolve implements original §4.3's resolution steps. forced is the
// CLI-supplied rule override (manifest.RuleLibrary/RuleSourceProgram/
// RuleToolFolder); it is consulted only when hasForced is true.
func Resolve(root *project.State, forced manifest.RuleKind, hasForced bool, arg string) (*Target, error) {
	folder, file, err := normalize(arg)
	if err != nil {
		return nil, err
	}

	discoveredRoot, err := project.Discover(folder)
	if err != nil {
		return nil, err
	}
	if discoveredRoot != root.AbsPath {
		return nil, ferr.New(ferr.NotSameRoot, arg, "target's project root %q differs from the active project root %q", discoveredRoot, root.AbsPath)
	}

	if folder == root.AbsPath {
		return &Target{Arg: arg, Folder: folder, File: file, Kind: manifest.RuleWholeProject}, nil
	}

	if hasForced {
		return &Target{Arg: arg, Folder: folder, File: file, Kind: forced}, nil
	}

	for _, fr := range root.Manifest.Folders {
		if sameFolder(root.AbsPath, fr.Path, folder) {
			return &Target{Arg: arg, Folder: folder, File: file, Kind: fr.Kind}, nil
		}
	}

	return nil, ferr.New(ferr.NoRule, arg, "no folder rule matches %q", folder)
}

// normalize turns a raw argument into an absolute (folder, optional file)
// pair (original §4.3 step 1): a trailing separator or an existing
// directory yields folder-only; an existing file or a nonexistent leaf
// name yields file-with-parent-folder.
func normalize(arg string) (folder, file string, err error) {
	abs, err := filepath.Abs(arg)
	if err != nil {
		return "", "", ferr.Wrap(ferr.BadPath, arg, err)
	}

	info, statErr := os.Stat(abs)
	switch {
	case statErr == nil && info.IsDir():
		return abs, "", nil
	case statErr == nil:
		return filepath.Dir(abs), filepath.Base(abs), nil
	case os.IsNotExist(statErr):
		return filepath.Dir(abs), filepath.Base(abs), nil
	default:
		return "", "", ferr.Wrap(ferr.BadPath, abs, statErr)
	}
}

func sameFolder(root, ruleRelPath, folder string) bool {
	rulePath := filepath.Join(root, filepath.FromSlash(ruleRelPath))
	a, err1 := filepath.Abs(rulePath)
	b, err2 := filepath.Abs(folder)
	if err1 != nil || err2 != nil {
		return false
	}
	return filepath.Clean(a) == filepath.Clean(b)
}
