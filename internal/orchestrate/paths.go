package orchestrate

import (
	"path/filepath"
	"strings"
)

// relOf returns folder's path relative to the engine's root, slash
// terminated, matching the FolderRule.Path convention (original §3's
// "every folder path ends with a path separator").
func relOf(eng *engine, folder string) (string, error) {
	rel, err := filepath.Rel(eng.Root.AbsPath, folder)
	if err != nil {
		return "", err
	}
	rel = filepath.ToSlash(rel)
	if rel == "." {
		return "./", nil
	}
	return strings.TrimSuffix(rel, "/") + "/", nil
}
