package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/StinkyLord/flymake/internal/manifest"
)

func TestDiscoverByManifestFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, manifest.FileName), []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(dir, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	root, err := Discover(nested)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if root != dir {
		t.Errorf("Discover() = %q, want %q", root, dir)
	}
}

func TestDiscoverByWellKnownFolder(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "src"), 0o755); err != nil {
		t.Fatal(err)
	}

	root, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if root != dir {
		t.Errorf("Discover() = %q, want %q", root, dir)
	}
}

func TestDiscoverSimpleFallback(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "hi.c"), []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}

	root, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if root != dir {
		t.Errorf("Discover() = %q, want %q", root, dir)
	}
}

func TestDiscoverFailsOnEmptyFolder(t *testing.T) {
	dir := t.TempDir()
	if _, err := Discover(dir); err == nil {
		t.Errorf("expected an error for an empty, non-project folder")
	}
}
