package depres

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/StinkyLord/flymake/internal/logctx"
	"github.com/StinkyLord/flymake/internal/manifest"
	"github.com/StinkyLord/flymake/internal/project"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func testOpts() Options {
	return Options{Log: logctx.New(0, false)}
}

func TestResolvePrebuiltDependency(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "third_party", "libwidget.a"), "")
	if err := os.MkdirAll(filepath.Join(root, "third_party", "include"), 0o755); err != nil {
		t.Fatal(err)
	}

	m := &manifest.Manifest{
		RootPath: root,
		Package:  manifest.PackageTable{Name: "app", Version: "0.1.0"},
		Dependencies: []*manifest.DependencyDecl{
			{Name: "widget", Path: "third_party/libwidget.a", Inc: "third_party/include", Line: 3},
		},
	}
	st := project.NewRoot(root, m)

	if err := Resolve(st, st, testOpts()); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	dep := st.FindDependency("widget")
	if dep == nil {
		t.Fatal("expected widget to be resolved")
	}
	if !dep.Built {
		t.Error("expected a prebuilt dependency to be marked Built")
	}
	if len(st.IncludeSearch) != 1 {
		t.Errorf("expected one include path added, got %v", st.IncludeSearch)
	}
}

func TestResolvePackageDependency(t *testing.T) {
	root := t.TempDir()
	depRoot := filepath.Join(root, "vendor", "core")
	writeFile(t, filepath.Join(depRoot, "lib", "core.c"), "int core(void) { return 0; }\n")

	m := &manifest.Manifest{
		RootPath: root,
		Package:  manifest.PackageTable{Name: "app", Version: "0.1.0"},
		Dependencies: []*manifest.DependencyDecl{
			{Name: "core", Path: "vendor/core", Line: 5},
		},
	}
	st := project.NewRoot(root, m)

	if err := Resolve(st, st, testOpts()); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	dep := st.FindDependency("core")
	if dep == nil {
		t.Fatal("expected core to be resolved")
	}
	if dep.Sub == nil {
		t.Fatal("expected a package dependency to own a sub-state")
	}
	if dep.Sub.AbsPath != depRoot {
		t.Errorf("expected sub-state rooted at %s, got %s", depRoot, dep.Sub.AbsPath)
	}
}

func TestResolvePackageDependencyWithoutLibraryFolderFails(t *testing.T) {
	root := t.TempDir()
	depRoot := filepath.Join(root, "vendor", "core")
	if err := os.MkdirAll(depRoot, 0o755); err != nil {
		t.Fatal(err)
	}

	m := &manifest.Manifest{
		RootPath: root,
		Package:  manifest.PackageTable{Name: "app", Version: "0.1.0"},
		Dependencies: []*manifest.DependencyDecl{
			{Name: "core", Path: "vendor/core", Line: 5},
		},
	}
	st := project.NewRoot(root, m)

	if err := Resolve(st, st, testOpts()); err == nil {
		t.Fatal("expected an error for a dependency with no buildable library")
	}
}

func TestResolveSharedDependencyIsDeduplicated(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "third_party", "libwidget.a"), "")
	if err := os.MkdirAll(filepath.Join(root, "third_party", "include"), 0o755); err != nil {
		t.Fatal(err)
	}

	m := &manifest.Manifest{
		RootPath: root,
		Package:  manifest.PackageTable{Name: "app", Version: "0.1.0"},
		Dependencies: []*manifest.DependencyDecl{
			{Name: "widget", Path: "third_party/libwidget.a", Inc: "third_party/include", Line: 3},
			{Name: "widget", Path: "third_party/libwidget.a", Inc: "third_party/include", Line: 9},
		},
	}
	st := project.NewRoot(root, m)

	if err := Resolve(st, st, testOpts()); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(st.Root.Dependencies) != 1 {
		t.Errorf("expected the duplicate declaration to be deduplicated, got %d entries", len(st.Root.Dependencies))
	}
}
