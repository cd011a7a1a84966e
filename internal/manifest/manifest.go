// Package manifest parses and validates the project manifest (flymake.toml):
// the package table, compiler rules, folder rules, and dependency
// declarations described in original spec §4.1 and §4.6.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/StinkyLord/flymake/internal/ferr"
)

// FileName is the manifest file every project root may carry.
const FileName = "flymake.toml"

// RuleKind is the build rule a folder (or a whole-project target) is
// assigned. RuleWholeProject only ever appears on a resolved Target, never
// on a persisted FolderRule.
type RuleKind int

const (
	RuleLibrary RuleKind = iota
	RuleSourceProgram
	RuleToolFolder
	RuleWholeProject
)

func (k RuleKind) String() string {
	switch k {
	case RuleLibrary:
		return "--rl"
	case RuleSourceProgram:
		return "--rs"
	case RuleToolFolder:
		return "--rt"
	case RuleWholeProject:
		return "whole-project"
	default:
		return "unknown-rule"
	}
}

// ParseRuleLiteral maps a manifest/CLI rule literal to a RuleKind.
func ParseRuleLiteral(lit string) (RuleKind, bool) {
	switch lit {
	case "--rl":
		return RuleLibrary, true
	case "--rs":
		return RuleSourceProgram, true
	case "--rt":
		return RuleToolFolder, true
	default:
		return 0, false
	}
}

// PackageTable is the manifest's [package] table.
type PackageTable struct {
	Name    string
	Version string
}

// CompilerRule is one per file-extension group (original §3).
type CompilerRule struct {
	// Extensions is the dot-separated extension set, e.g. [".c"] or
	// [".c++", ".cpp", ".cxx", ".cc", ".C"].
	Extensions []string
	CC         string // compile command template
	LL         string // link command template
	CCDbg      string // compile-debug flags
	LLDbg      string // link-debug flags
	Inc        string // include-flag prefix, default "-I"
	Warn       string // warning flags
}

// Matches reports whether the given file extension (with leading dot)
// belongs to this rule's extension set.
func (r *CompilerRule) Matches(ext string) bool {
	for _, e := range r.Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

var requiredCCPlaceholders = []string{"{in}", "{incs}", "{warn}", "{debug}", "{out}"}
var requiredLLPlaceholders = []string{"{in}", "{libs}", "{debug}", "{out}"}

func validateTemplate(kind, extGroup, tmpl string, required []string) error {
	for _, ph := range required {
		if n := strings.Count(tmpl, ph); n != 1 {
			return fmt.Errorf("compiler.%s.%s template %q must contain %s exactly once (found %d)", extGroup, kind, tmpl, ph, n)
		}
	}
	return nil
}

// FolderRule is one per build-contributing folder (original §3). Path is
// always slash-terminated and root-relative.
type FolderRule struct {
	Path string
	Kind RuleKind
}

// DependencyDecl is a raw, not-yet-resolved dependency declaration
// (original §4.6).
type DependencyDecl struct {
	Name    string
	Git     string
	Path    string
	Inc     string
	Version string
	Sha     string
	Branch  string

	// Line is the 1-based source line the declaration appeared on, used for
	// manifest error messages; 0 if unknown (synthesized declaration).
	Line int
}

// Manifest is the parsed, validated manifest plus the injected defaults
// (original §4.1).
type Manifest struct {
	RootPath     string
	Path         string // absolute path to flymake.toml, "" if absent
	Package      PackageTable
	Compiler     map[string]*CompilerRule
	Folders      []*FolderRule
	Dependencies []*DependencyDecl

	// Simple marks a project with no standard subfolders, where sources
	// live directly in the root and are built as a single library at
	// depth 1 (original §4.1, §4.7, glossary).
	Simple bool
}

// rawManifest mirrors the TOML document shape for go-toml/v2's
// reflection-based Unmarshal. Table/inline-table values are decoded
// structurally; key declaration order (required for folder/dependency
// ordering, original §3) is recovered separately by scanRawOrder, in the
// teacher's regex-over-raw-text style (internal/strategies/cmake.go).
type rawManifest struct {
	Package  rawPackage                `toml:"package"`
	Compiler map[string]rawCompiler    `toml:"compiler"`
	Folders  map[string]string         `toml:"folders"`
	Deps     map[string]rawDependency  `toml:"dependencies"`
}

type rawPackage struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

type rawCompiler struct {
	CC    string `toml:"cc"`
	LL    string `toml:"ll"`
	CCDbg string `toml:"cc_dbg"`
	LLDbg string `toml:"ll_dbg"`
	Inc   string `toml:"inc"`
	Warn  string `toml:"warn"`
}

type rawDependency struct {
	Git     string `toml:"git"`
	Path    string `toml:"path"`
	Inc     string `toml:"inc"`
	Version string `toml:"version"`
	Sha     string `toml:"sha"`
	Branch  string `toml:"branch"`
}

// Load reads and validates the manifest (if any) at root, then injects the
// built-in compiler defaults and default folder-rule scan (original §4.1).
func Load(root string) (*Manifest, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, ferr.Wrap(ferr.BadPath, root, err)
	}

	m := &Manifest{
		RootPath: absRoot,
		Compiler: defaultCompilerRules(),
	}

	manifestPath := filepath.Join(absRoot, FileName)
	data, err := os.ReadFile(manifestPath)
	switch {
	case err == nil:
		m.Path = manifestPath
		if err := m.parse(data, manifestPath); err != nil {
			return nil, err
		}
	case os.IsNotExist(err):
		m.Package.Name = filepath.Base(absRoot)
		m.Package.Version = "*"
	default:
		return nil, ferr.Wrap(ferr.BadPath, manifestPath, err)
	}

	if m.Package.Name == "" {
		m.Package.Name = filepath.Base(absRoot)
	}
	if m.Package.Version == "" {
		m.Package.Version = "*"
	}

	injectDefaultFolders(m)
	return m, nil
}

func (m *Manifest) parse(data []byte, path string) error {
	var raw rawManifest
	if err := toml.Unmarshal(data, &raw); err != nil {
		line, col := locateTOMLError(data, err)
		return ferr.Manifest(path, line, col, err.Error())
	}

	m.Package.Name = raw.Package.Name
	m.Package.Version = raw.Package.Version

	order := scanRawOrder(data)

	for group, rc := range raw.Compiler {
		base, ok := m.Compiler[group]
		if !ok {
			// A leading dot is optional (".asm" and "asm" name the same
			// group); each element gets its dot back.
			exts := strings.Split(strings.TrimPrefix(group, "."), ".")
			for i := range exts {
				exts[i] = "." + exts[i]
			}
			base = &CompilerRule{
				Extensions: exts,
				Inc:        "-I",
			}
		}
		merged := *base
		if rc.CC != "" {
			merged.CC = rc.CC
		}
		if rc.LL != "" {
			merged.LL = rc.LL
		}
		if rc.CCDbg != "" {
			merged.CCDbg = rc.CCDbg
		}
		if rc.LLDbg != "" {
			merged.LLDbg = rc.LLDbg
		}
		if rc.Inc != "" {
			merged.Inc = rc.Inc
		}
		if rc.Warn != "" {
			merged.Warn = rc.Warn
		}
		if merged.CC == "" || merged.LL == "" {
			line := order.compilerLine[group]
			return ferr.Manifest(path, line, 1, fmt.Sprintf("compiler.%s requires both cc and ll", group))
		}
		if err := validateTemplate("cc", group, merged.CC, requiredCCPlaceholders); err != nil {
			line := order.compilerLine[group]
			return ferr.Manifest(path, line, 1, err.Error())
		}
		if err := validateTemplate("ll", group, merged.LL, requiredLLPlaceholders); err != nil {
			line := order.compilerLine[group]
			return ferr.Manifest(path, line, 1, err.Error())
		}
		if merged.Inc == "" {
			merged.Inc = "-I"
		}
		m.Compiler[group] = &merged
	}

	for _, key := range order.folderKeys {
		lit, ok := raw.Folders[key]
		if !ok {
			continue
		}
		kind, ok := ParseRuleLiteral(lit)
		if !ok {
			return ferr.Manifest(path, order.folderLine[key], 1, fmt.Sprintf("unknown folder rule literal %q for folder %q", lit, key))
		}
		folderPath := canonicalFolderPath(m.RootPath, key)
		if _, err := os.Stat(filepath.Join(m.RootPath, folderPath)); err != nil {
			// Non-existent folders are silently dropped (original §4.1).
			continue
		}
		m.Folders = append(m.Folders, &FolderRule{Path: folderPath, Kind: kind})
	}

	for _, name := range order.depKeys {
		rd, ok := raw.Deps[name]
		if !ok {
			continue
		}
		if rd.Version != "" && rd.Sha != "" {
			return ferr.Manifest(path, order.depLine[name], 1, fmt.Sprintf("dependencies.%s: version and sha are mutually exclusive", name))
		}
		m.Dependencies = append(m.Dependencies, &DependencyDecl{
			Name:    name,
			Git:     rd.Git,
			Path:    rd.Path,
			Inc:     rd.Inc,
			Version: rd.Version,
			Sha:     rd.Sha,
			Branch:  rd.Branch,
			Line:    order.depLine[name],
		})
	}

	return nil
}

// canonicalFolderPath makes a manifest-declared folder key root-relative
// and slash-terminated, per the "every folder path ends with a path
// separator" invariant (original §3).
func canonicalFolderPath(root, key string) string {
	p := key
	if filepath.IsAbs(p) {
		if rel, err := filepath.Rel(root, p); err == nil {
			p = rel
		}
	}
	p = filepath.ToSlash(p)
	p = strings.TrimSuffix(p, "/")
	return p + "/"
}

// rawOrder recovers declaration order and line numbers for map-valued
// tables, since go-toml/v2's reflection Unmarshal does not preserve key
// order for Go maps. The teacher takes this same regex-over-raw-text
// approach for structured-token extraction (internal/strategies/cmake.go).
type rawOrder struct {
	folderKeys   []string
	folderLine   map[string]int
	depKeys      []string
	depLine      map[string]int
	compilerLine map[string]int
}

var reTableHeader = regexp.MustCompile(`^\s*\[([^\[\]]+)\]\s*$`)
var reKeyAssign = regexp.MustCompile(`^\s*"?([^"=\s]+)"?\s*=`)

func scanRawOrder(data []byte) rawOrder {
	order := rawOrder{
		folderLine:   map[string]int{},
		depLine:      map[string]int{},
		compilerLine: map[string]int{},
	}

	section := ""
	lines := strings.Split(string(data), "\n")
	for i, line := range lines {
		lineNo := i + 1
		if m := reTableHeader.FindStringSubmatch(line); m != nil {
			section = strings.TrimSpace(m[1])
			// [compiler.<group>] headers never reach the key-assign
			// switch below as "compiler": the extension group (which may
			// itself contain dots, e.g. "c++.cpp.cxx.cc.C", quoted in the
			// header) is part of the bracketed name, so the group's line
			// is recorded here, at the header itself.
			if group, ok := strings.CutPrefix(section, "compiler."); ok {
				group = strings.Trim(group, `"`)
				if _, seen := order.compilerLine[group]; !seen {
					order.compilerLine[group] = lineNo
				}
			}
			continue
		}
		m := reKeyAssign.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		key := m[1]
		switch section {
		case "folders":
			if _, seen := order.folderLine[key]; !seen {
				order.folderKeys = append(order.folderKeys, key)
			}
			order.folderLine[key] = lineNo
		case "dependencies":
			if _, seen := order.depLine[key]; !seen {
				order.depKeys = append(order.depKeys, key)
			}
			order.depLine[key] = lineNo
		}
	}
	return order
}

// locateTOMLError best-effort extracts a line/column from a go-toml/v2
// decode error for the caret-style message (original §4.1); go-toml/v2's
// *toml.DecodeError exposes Position(), which this unwraps.
func locateTOMLError(data []byte, err error) (line, col int) {
	type positioner interface {
		Position() (int, int)
	}
	var de positioner
	for e := err; e != nil; {
		if p, ok := e.(positioner); ok {
			de = p
			break
		}
		u, ok := e.(interface{ Unwrap() error })
		if !ok {
			break
		}
		e = u.Unwrap()
	}
	if de != nil {
		return de.Position()
	}
	return 1, 1
}
