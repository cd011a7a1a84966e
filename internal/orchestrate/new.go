package orchestrate

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/StinkyLord/flymake/internal/ferr"
)

// NewOptions carries the flags specific to the `new` command.
type NewOptions struct {
	Lib bool // --lib: scaffold a library folder instead of a program
	Cpp bool // --cpp: use C++ source/header extensions and content
}

// New implements the `new` command (SPEC_FULL.md E.3): scaffolds a minimal
// project at path — a manifest plus either src/main.c(pp) or
// lib/<name>.c(pp)+.h.
func New(path string, opts NewOptions) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return ferr.Wrap(ferr.BadPath, path, err)
	}

	if err := os.MkdirAll(abs, 0o755); err != nil {
		return ferr.Wrap(ferr.Write, abs, err)
	}

	name := filepath.Base(abs)
	sourceExt, headerExt := ".c", ".h"
	if opts.Cpp {
		sourceExt, headerExt = ".cpp", ".h"
	}

	if err := os.WriteFile(filepath.Join(abs, "flymake.toml"), manifestTemplate(name), 0o644); err != nil {
		return ferr.Wrap(ferr.Write, abs, err)
	}

	if opts.Lib {
		return scaffoldLibrary(abs, name, sourceExt, headerExt)
	}
	return scaffoldProgram(abs, sourceExt)
}

func manifestTemplate(name string) []byte {
	return []byte(fmt.Sprintf("[package]\nname = %q\nversion = \"0.1.0\"\n", name))
}

func scaffoldProgram(root, sourceExt string) error {
	dir := filepath.Join(root, "src")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ferr.Wrap(ferr.Write, dir, err)
	}
	content := "#include <stdio.h>\n\nint main(void) {\n\tprintf(\"hello, flymake\\n\");\n\treturn 0;\n}\n"
	if sourceExt == ".cpp" {
		content = "#include <iostream>\n\nint main() {\n\tstd::cout << \"hello, flymake\" << std::endl;\n\treturn 0;\n}\n"
	}
	return os.WriteFile(filepath.Join(dir, "main"+sourceExt), []byte(content), 0o644)
}

func scaffoldLibrary(root, name, sourceExt, headerExt string) error {
	dir := filepath.Join(root, "lib")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ferr.Wrap(ferr.Write, dir, err)
	}

	header := fmt.Sprintf("#ifndef %s_H\n#define %s_H\n\nint %s_example(void);\n\n#endif\n", guard(name), guard(name), name)
	if err := os.WriteFile(filepath.Join(dir, name+headerExt), []byte(header), 0o644); err != nil {
		return ferr.Wrap(ferr.Write, dir, err)
	}

	var source string
	if sourceExt == ".cpp" {
		source = fmt.Sprintf("#include %q\n\nint %s_example(void) {\n\treturn 0;\n}\n", name+headerExt, name)
	} else {
		source = fmt.Sprintf("#include %q\n\nint %s_example(void) {\n\treturn 0;\n}\n", name+headerExt, name)
	}
	return os.WriteFile(filepath.Join(dir, name+sourceExt), []byte(source), 0o644)
}

func guard(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			if r >= 'a' && r <= 'z' {
				r -= 'a' - 'A'
			}
			out = append(out, r)
		} else {
			out = append(out, '_')
		}
	}
	return string(out)
}
