package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadNoManifestDefaultsToSimple(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "hi.c"), []byte("int main(void){return 0;}"), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !m.Simple {
		t.Errorf("expected Simple project, got Simple=false")
	}
	if len(m.Folders) != 1 || m.Folders[0].Kind != RuleLibrary {
		t.Errorf("expected one library folder rule, got %+v", m.Folders)
	}
	if m.ScanDepth() != 1 {
		t.Errorf("expected scan depth 1 for simple project, got %d", m.ScanDepth())
	}
	if m.Package.Name != filepath.Base(dir) {
		t.Errorf("expected package name to default to root basename, got %q", m.Package.Name)
	}
	if m.Package.Version != "*" {
		t.Errorf("expected package version to default to *, got %q", m.Package.Version)
	}
}

func TestLoadWellKnownFolders(t *testing.T) {
	dir := t.TempDir()
	for _, sub := range []string{"src", "lib", "test"} {
		if err := os.Mkdir(filepath.Join(dir, sub), 0o755); err != nil {
			t.Fatal(err)
		}
	}

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Simple {
		t.Errorf("expected non-simple project")
	}
	if m.ScanDepth() != 3 {
		t.Errorf("expected scan depth 3, got %d", m.ScanDepth())
	}

	kinds := map[string]RuleKind{}
	for _, f := range m.Folders {
		kinds[f.Path] = f.Kind
	}
	if kinds["src/"] != RuleSourceProgram {
		t.Errorf("expected src/ -> source-program, got %v", kinds["src/"])
	}
	if kinds["lib/"] != RuleLibrary {
		t.Errorf("expected lib/ -> library, got %v", kinds["lib/"])
	}
	if kinds["test/"] != RuleToolFolder {
		t.Errorf("expected test/ -> tool-folder, got %v", kinds["test/"])
	}
}

func TestLoadExplicitManifest(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "stuff"), 0o755); err != nil {
		t.Fatal(err)
	}

	contents := `
[package]
name = "widget"
version = "2.1.0"

[folders]
"stuff/" = "--rl"

[dependencies]
foo = { path = "../foo" }
`
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Package.Name != "widget" || m.Package.Version != "2.1.0" {
		t.Errorf("unexpected package table: %+v", m.Package)
	}
	if len(m.Folders) != 1 || m.Folders[0].Path != "stuff/" || m.Folders[0].Kind != RuleLibrary {
		t.Errorf("unexpected folders: %+v", m.Folders)
	}
	if len(m.Dependencies) != 1 || m.Dependencies[0].Name != "foo" || m.Dependencies[0].Path != "../foo" {
		t.Errorf("unexpected dependencies: %+v", m.Dependencies)
	}
}

func TestLoadRejectsBadPlaceholders(t *testing.T) {
	dir := t.TempDir()
	contents := `
[compiler.asm]
cc = "nasm {in} -o {out}"
ll = "ld {in} {libs} {debug} {out}"
`
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(dir)
	if err == nil {
		t.Fatalf("expected an error for a cc template missing required placeholders")
	}
	msg := err.Error()
	if !strings.Contains(msg, "[compiler.asm]") {
		t.Errorf("expected error to quote the offending compiler-group line, got %q", msg)
	}
	if !strings.Contains(msg, "\n^") {
		t.Errorf("expected error to include a caret under column 1, got %q", msg)
	}
}

func TestLoadRejectsVersionAndShaTogether(t *testing.T) {
	dir := t.TempDir()
	contents := `
[dependencies]
foo = { git = "https://example.com/foo.git", version = "1", sha = "deadbeef" }
`
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(dir); err == nil {
		t.Errorf("expected an error when both version and sha are given")
	}
}
