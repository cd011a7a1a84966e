package project

import (
	"os"
	"path/filepath"

	"github.com/StinkyLord/flymake/internal/ferr"
	"github.com/StinkyLord/flymake/internal/manifest"
)

var recognizedSourceFolders = []string{"src", "source", "lib", "library"}

// Discover finds the project root enclosing path (original §4.7): checked
// in the current folder, then its parent, then its grandparent, for either
// a manifest file or one of the recognized source/library subfolders. If
// none of the three levels qualifies, the original folder is treated as a
// "simple" root if it directly contains at least one recognized source
// file; otherwise discovery fails with NotProject.
func Discover(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", ferr.Wrap(ferr.BadPath, path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", ferr.Wrap(ferr.BadPath, abs, err)
	}
	start := abs
	if !info.IsDir() {
		start = filepath.Dir(abs)
	}

	cur := start
	for i := 0; i < 3; i++ {
		if qualifiesAsRoot(cur) {
			return cur, nil
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			break
		}
		cur = parent
	}

	if hasAnySourceFile(start) {
		return start, nil
	}

	return "", ferr.New(ferr.NotProject, start, "no %s and no recognized source/library folder found within 3 levels", manifest.FileName)
}

func qualifiesAsRoot(dir string) bool {
	if _, err := os.Stat(filepath.Join(dir, manifest.FileName)); err == nil {
		return true
	}
	for _, sub := range recognizedSourceFolders {
		if info, err := os.Stat(filepath.Join(dir, sub)); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}

// knownExtensions mirrors manifest's built-in compiler defaults; Discover
// runs before a manifest is loaded, so it checks against the built-in set
// rather than a manifest-specific one (original §4.7's "recognized
// compiler extension").
var knownExtensions = []string{".c", ".c++", ".cpp", ".cxx", ".cc", ".C"}

func hasAnySourceFile(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		for _, want := range knownExtensions {
			if ext == want {
				return true
			}
		}
	}
	return false
}
