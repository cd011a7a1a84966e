package build

import (
	"path/filepath"

	"github.com/StinkyLord/flymake/internal/classify"
	"github.com/StinkyLord/flymake/internal/compiler"
	"github.com/StinkyLord/flymake/internal/ferr"
	"github.com/StinkyLord/flymake/internal/project"
)

// ToolFolder runs the --rt folder-builder algorithm (original §4.5):
// classify at depth 1, group into tools, and compile+link each tool
// (or only the one named by targetFile, if given).
func (b *Builder) ToolFolder(st *project.State, relPath string, targetFile string) error {
	folder := filepath.Join(st.AbsPath, filepath.FromSlash(relPath))
	b.Log.Folder("building tools: %s", folder)

	exts := st.Manifest.AllExtensions()
	sources, err := classify.Classify(folder, exts, 1)
	if err != nil {
		return ferr.Wrap(ferr.BadPath, folder, err)
	}
	st.FilesSeen += len(sources)

	tools := classify.GroupIntoTools(sources)
	if targetFile != "" {
		var match *classify.Tool
		for i := range tools {
			if tools[i].Name == targetFile {
				match = &tools[i]
				break
			}
		}
		if match == nil {
			return ferr.New(ferr.BadProg, targetFile, "no tool named %q in %s", targetFile, folder)
		}
		tools = []classify.Tool{*match}
	}

	outDir := filepath.Join(folder, "out")
	includes := append([]string{st.IncludeDir}, st.IncludeSearch...)
	if st.Root != st {
		includes = append(includes, st.Root.IncludeSearch...)
	}

	for _, tool := range tools {
		var objs []string
		var rebuilt bool
		for _, src := range tool.Sources {
			rule := st.Manifest.RuleFor(filepath.Ext(src))
			if rule == nil {
				continue
			}
			compiled, err := b.Driver.Compile(rule, src, outDir, includes)
			if err != nil {
				return err
			}
			if compiled {
				rebuilt = true
				st.FilesCompiled++
			}
			objs = append(objs, compiler.OutputPath(outDir, src))
		}
		if len(objs) == 0 {
			continue
		}

		exePath := filepath.Join(folder, tool.Name)
		needsLink := rebuilt || st.Root.LibraryRecompiled || b.Driver.ForceRebuild || !exists(exePath)
		if !needsLink {
			continue
		}

		rule := linkRuleFor(st, tool.Sources)
		if rule == nil {
			return ferr.New(ferr.NoFiles, folder, "no compiler rule matches tool %q", tool.Name)
		}
		if err := b.Driver.Link(rule, objs, st.Root.LibraryLink, exePath); err != nil {
			return err
		}
	}

	return nil
}
