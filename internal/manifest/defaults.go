package manifest

import (
	"os"
	"path/filepath"
)

// defaultCompilerRules returns the built-in C and C++ extension groups
// (original §4.1), keyed by the dot-separated extension-group string used
// as the manifest table key.
func defaultCompilerRules() map[string]*CompilerRule {
	return map[string]*CompilerRule{
		"c": {
			Extensions: []string{".c"},
			CC:         "cc -c {in} {incs} {warn} {debug} -o {out}",
			LL:         "cc {in} {libs} {debug} -o {out}",
			CCDbg:      "-g -DDEBUG",
			LLDbg:      "-g",
			Inc:        "-I",
			Warn:       "-Wall -Wextra -Werror",
		},
		"c++.cpp.cxx.cc.C": {
			Extensions: []string{".c++", ".cpp", ".cxx", ".cc", ".C"},
			CC:         "c++ -std=c++17 -c {in} {incs} {warn} {debug} -o {out}",
			LL:         "c++ {in} {libs} {debug} -o {out}",
			CCDbg:      "-g -DDEBUG",
			LLDbg:      "-g",
			Inc:        "-I",
			Warn:       "-Wall -Wextra -Werror",
		},
	}
}

// wellKnownFolders maps the recognized default subfolder names to the rule
// each implies when present (original §4.1).
var wellKnownFolders = []struct {
	name string
	kind RuleKind
}{
	{"src", RuleSourceProgram},
	{"source", RuleSourceProgram},
	{"lib", RuleLibrary},
	{"library", RuleLibrary},
	{"test", RuleToolFolder},
}

// injectDefaultFolders augments m.Folders with the well-known-subfolder
// scan and decides the Simple fallback (original §4.1):
//
//	After manifest processing, the manifest model additionally injects a
//	default folder-rule set by scanning the root for the well-known
//	folders src/, source/ (-> source-program), lib/, library/ (->
//	library), test/ (-> tool-folder). If no folder rules result and the
//	root itself contains source files, the project is marked "simple"
//	and the root becomes a single library-rule folder with scan depth 1;
//	otherwise scan depth is 3.
func injectDefaultFolders(m *Manifest) {
	declared := map[string]bool{}
	for _, f := range m.Folders {
		declared[f.Path] = true
	}

	for _, wk := range wellKnownFolders {
		path := wk.name + "/"
		if declared[path] {
			continue
		}
		if info, err := os.Stat(filepath.Join(m.RootPath, wk.name)); err == nil && info.IsDir() {
			m.Folders = append(m.Folders, &FolderRule{Path: path, Kind: wk.kind})
		}
	}

	if len(m.Folders) == 0 && rootHasSources(m) {
		m.Simple = true
		m.Folders = append(m.Folders, &FolderRule{Path: "./", Kind: RuleLibrary})
	}
}

// ScanDepth returns the classifier depth for folder, per the Simple
// fallback: depth 1 for a simple project's root, depth 3 otherwise.
func (m *Manifest) ScanDepth() int {
	if m.Simple {
		return 1
	}
	return 3
}

// AllExtensions returns the union of every compiler rule's extension set,
// used by the library/source folder builders to classify "any source file"
// (original §4.5).
func (m *Manifest) AllExtensions() []string {
	var exts []string
	for _, rule := range m.Compiler {
		exts = append(exts, rule.Extensions...)
	}
	return exts
}

// RuleFor returns the compiler rule whose extension set contains ext, or
// nil if none matches.
func (m *Manifest) RuleFor(ext string) *CompilerRule {
	for _, rule := range m.Compiler {
		if rule.Matches(ext) {
			return rule
		}
	}
	return nil
}

func rootHasSources(m *Manifest) bool {
	entries, err := os.ReadDir(m.RootPath)
	if err != nil {
		return false
	}
	exts := m.AllExtensions()
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		for _, want := range exts {
			if ext == want {
				return true
			}
		}
	}
	return false
}
