package target

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/StinkyLord/flymake/internal/manifest"
	"github.com/StinkyLord/flymake/internal/project"
)

func newTestRoot(t *testing.T, dir string) *project.State {
	t.Helper()
	m, err := manifest.Load(dir)
	if err != nil {
		t.Fatalf("manifest.Load: %v", err)
	}
	return project.NewRoot(dir, m)
}

func TestResolveWholeProject(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "main.c"), []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}
	root := newTestRoot(t, dir)

	tgt, err := Resolve(root, 0, false, dir)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if tgt.Kind != manifest.RuleWholeProject {
		t.Errorf("expected whole-project rule, got %v", tgt.Kind)
	}
}

func TestResolveForcedRule(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "stuff"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "src"), 0o755); err != nil {
		t.Fatal(err)
	}
	root := newTestRoot(t, dir)

	tgt, err := Resolve(root, manifest.RuleSourceProgram, true, filepath.Join(dir, "stuff"))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if tgt.Kind != manifest.RuleSourceProgram {
		t.Errorf("expected forced source-program rule, got %v", tgt.Kind)
	}
}

func TestResolveFromManifestFolderRule(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "src"), 0o755); err != nil {
		t.Fatal(err)
	}
	root := newTestRoot(t, dir)

	tgt, err := Resolve(root, 0, false, filepath.Join(dir, "src"))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if tgt.Kind != manifest.RuleSourceProgram {
		t.Errorf("expected source-program rule from default folder scan, got %v", tgt.Kind)
	}
}

func TestResolveNotSameRoot(t *testing.T) {
	dir := t.TempDir()
	root := newTestRoot(t, dir)

	other := t.TempDir()
	if err := os.WriteFile(filepath.Join(other, "x.c"), []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Resolve(root, 0, false, other); err == nil {
		t.Errorf("expected not-same-root error for a target outside the active root")
	}
}

func TestResolveNoRule(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "src"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "unrelated"), 0o755); err != nil {
		t.Fatal(err)
	}
	root := newTestRoot(t, dir)

	if _, err := Resolve(root, 0, false, filepath.Join(dir, "unrelated")); err == nil {
		t.Errorf("expected no-rule error for a folder with no matching rule")
	}
}
