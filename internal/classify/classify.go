// Package classify enumerates source files under a folder and groups them
// into "tools" by shared basename prefix (original §4.2).
package classify

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ignoredDirs are never descended into, mirroring the teacher's WalkDir
// callback skipping .git/node_modules (internal/strategies/cmake.go),
// generalized to this tool's own output/materialization directories. ".*"
// is a real glob, not a literal: it prunes every dotfile directory (.git,
// .svn, .idea, ...) the same way a VCS-aware walker would, matched via
// doublestar.Match rather than a prefix check.
var ignoredDirs = []string{"out", "deps", ".*"}

// Tool is one executable's worth of source files, claimed by shared prefix
// (original §4.2).
type Tool struct {
	Name    string
	Sources []string
}

// Classify enumerates regular files under folder, recursively to maxDepth,
// whose extension belongs to exts, in deterministic sorted order. A nil,
// non-nil-error return indicates folder does not exist or is not a
// directory; an empty, nil-error slice is a valid non-error result
// (original §4.2).
func Classify(folder string, exts []string, maxDepth int) ([]string, error) {
	info, err := os.Stat(folder)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &os.PathError{Op: "classify", Path: folder, Err: os.ErrInvalid}
	}

	extSet := make(map[string]bool, len(exts))
	for _, e := range exts {
		extSet[e] = true
	}

	var out []string
	baseDepth := strings.Count(filepath.Clean(folder), string(filepath.Separator))

	err = filepath.WalkDir(folder, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != folder && isIgnoredDir(d.Name()) {
				return filepath.SkipDir
			}
			depth := strings.Count(filepath.Clean(path), string(filepath.Separator)) - baseDepth
			if depth >= maxDepth {
				return filepath.SkipDir
			}
			return nil
		}
		if !extSet[filepath.Ext(path)] {
			return nil
		}
		out = append(out, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(out)
	return out, nil
}

func isIgnoredDir(name string) bool {
	for _, d := range ignoredDirs {
		matched, _ := doublestar.Match(d, name)
		if matched {
			return true
		}
	}
	return false
}

// stem returns the basename of path with its recognized extension removed.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// GroupIntoTools groups a sorted source list into Tools by shared basename
// prefix (original §4.2): iterate left to right; for each unclaimed file,
// take its stem S and claim every following file whose basename starts
// with S as a prefix.
func GroupIntoTools(sources []string) []Tool {
	claimed := make([]bool, len(sources))
	var tools []Tool

	for i, src := range sources {
		if claimed[i] {
			continue
		}
		s := stem(src)
		tool := Tool{Name: s, Sources: []string{src}}
		claimed[i] = true

		for j := i + 1; j < len(sources); j++ {
			if claimed[j] {
				continue
			}
			if strings.HasPrefix(filepath.Base(sources[j]), s) {
				tool.Sources = append(tool.Sources, sources[j])
				claimed[j] = true
			}
		}

		tools = append(tools, tool)
	}

	return tools
}
