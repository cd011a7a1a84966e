package ferr

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestManifestRendersCaretUnderColumn(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flymake.toml")
	contents := "[package]\nname = \"widget\"\nversin = \"1.0.0\"\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	err := Manifest(path, 3, 1, "unknown key \"versin\"")
	want := "versin = \"1.0.0\"\n^"
	if !strings.Contains(err.Error(), want) {
		t.Errorf("Error() = %q, want it to contain %q", err.Error(), want)
	}

	err2 := Manifest(path, 3, 5, "unknown key \"versin\"")
	want2 := "versin = \"1.0.0\"\n    ^"
	if !strings.Contains(err2.Error(), want2) {
		t.Errorf("Error() = %q, want it to contain %q", err2.Error(), want2)
	}
}

func TestManifestWithSyntheticLineOmitsSnippet(t *testing.T) {
	err := Manifest("flymake.toml", 0, 0, "dependency cycle")
	if strings.Contains(err.Error(), "\n") {
		t.Errorf("expected no snippet for a synthetic location, got %q", err.Error())
	}
}

func TestManifestUnreadableFileOmitsSnippet(t *testing.T) {
	err := Manifest(filepath.Join(t.TempDir(), "missing.toml"), 1, 1, "bad manifest")
	if strings.Contains(err.Error(), "\n") {
		t.Errorf("expected no snippet when the source file can't be read, got %q", err.Error())
	}
}

func TestCustomErrorRendersContext(t *testing.T) {
	err := Wrap(Custom, "gcc -c a.c -o a.o", errors.New("exit status 1"))
	want := "gcc -c a.c -o a.o: exit status 1"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestCustomErrorWithoutContextFallsBackToCause(t *testing.T) {
	err := Wrap(Custom, "", errors.New("boom"))
	if err.Error() != "boom" {
		t.Errorf("Error() = %q, want %q", err.Error(), "boom")
	}
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := errors.New("underlying")
	err := Wrap(BadPath, "/tmp/x", cause)
	if !errors.Is(err, cause) {
		t.Errorf("expected errors.Is to see through Unwrap")
	}
}
