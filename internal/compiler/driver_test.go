package compiler

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/StinkyLord/flymake/internal/logctx"
	"github.com/StinkyLord/flymake/internal/manifest"
)

func TestSubstituteSinglePassFixedOrder(t *testing.T) {
	tmpl := "{in} {incs} {warn} {debug} {out}"
	got := substitute(tmpl, []placeholder{
		{"{in}", "a.c"},
		{"{incs}", "-I."},
		{"{warn}", "-Wall"},
		{"{debug}", "{out}"}, // a value containing a placeholder-like token
		{"{out}", "a.o"},
	})
	want := "a.c -I. -Wall {out} a.o"
	if got != want {
		t.Errorf("substitute() = %q, want %q (replacement must not be rescanned)", got, want)
	}
}

func TestFormatIncludes(t *testing.T) {
	got := formatIncludes("-I", []string{".", "inc/", "../dep/inc/"})
	want := "-I. -Iinc/ -I../dep/inc/"
	if got != want {
		t.Errorf("formatIncludes() = %q, want %q", got, want)
	}
}

func TestOutputPath(t *testing.T) {
	got := OutputPath("out", "src/foo.cpp")
	want := "out/foo.o"
	if filepath.ToSlash(got) != want {
		t.Errorf("OutputPath() = %q, want %q", got, want)
	}
}

// TestCompileFailurePrintsCommandAtDefaultVerbosity guards against the
// failure path silently swallowing the command line: a build failure must
// be diagnosable even at verbosity 0, where Logger.Command itself stays
// quiet.
func TestCompileFailurePrintsCommandAtDefaultVerbosity(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.c")
	if err := os.WriteFile(src, []byte("int main(void){return 0;}"), 0o644); err != nil {
		t.Fatal(err)
	}

	rule := &manifest.CompilerRule{
		Extensions: []string{".c"},
		CC:         "false {in} {incs} {warn} {debug} {out}",
		LL:         "false {in} {libs} {debug} {out}",
		Inc:        "-I",
	}
	d := &Driver{Log: logctx.New(0, false), DebugLevel: -1}

	_, err := d.Compile(rule, src, filepath.Join(dir, "out"), nil)
	if err == nil {
		t.Fatalf("expected an error since `false` always exits non-zero")
	}
	if !strings.Contains(err.Error(), "false "+src) {
		t.Errorf("expected the failing command line in the error at default verbosity, got %q", err.Error())
	}
}
