// Package compiler implements the incremental, single-file compiler driver
// (original §4.4): mtime-based rebuild decisions, fixed-order placeholder
// substitution, and the external compiler invocation itself.
package compiler

import (
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/StinkyLord/flymake/internal/ferr"
	"github.com/StinkyLord/flymake/internal/logctx"
	"github.com/StinkyLord/flymake/internal/manifest"
)

// Driver runs compile and link invocations for one compiler rule.
type Driver struct {
	Log          *logctx.Logger
	ForceRebuild bool
	DebugLevel   int // <0 disables debug flags; >=0 enables them, and >0 also adds -DDEBUG=N
	WarningsOff  bool
}

// OutputPath computes O/<basename-without-ext>.o for a source file under
// outDir (original §4.4 step 1).
func OutputPath(outDir, src string) string {
	base := filepath.Base(src)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outDir, base+".o")
}

// Compile decides whether src needs rebuilding and, if so, formats and runs
// the compiler rule's cc template (original §4.4). It returns whether a
// compile actually ran.
func (d *Driver) Compile(rule *manifest.CompilerRule, src, outDir string, includes []string) (bool, error) {
	info, err := os.Stat(src)
	if err != nil {
		return false, ferr.Wrap(ferr.BadPath, src, err)
	}
	if info.IsDir() {
		return false, ferr.New(ferr.Mem, src, "compiler driver invoked on a directory")
	}

	out := OutputPath(outDir, src)

	if !d.ForceRebuild {
		if outInfo, err := os.Stat(out); err == nil {
			if !outInfo.ModTime().Before(info.ModTime()) {
				d.Log.Debugf("skip (up to date): %s", src)
				return false, nil
			}
		}
	}

	warn := rule.Warn
	if d.WarningsOff {
		warn = ""
	}
	debug := ""
	if d.DebugLevel >= 0 {
		debug = rule.CCDbg
		if d.DebugLevel > 0 {
			debug += " -DDEBUG=" + strconv.Itoa(d.DebugLevel)
		}
	}

	cmdline := substitute(rule.CC, []placeholder{
		{"{in}", src},
		{"{incs}", formatIncludes(rule.Inc, includes)},
		{"{warn}", warn},
		{"{debug}", debug},
		{"{out}", out},
	})

	d.Log.Command("%s", cmdline)
	if d.Log.DryRun {
		return true, nil
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return false, ferr.Wrap(ferr.BadPath, outDir, err)
	}

	if err := run(cmdline); err != nil {
		// Context carries the full command line so it is printed
		// regardless of Logger.Command's verbosity gate: a build failure
		// must show what ran, not just the process exit status.
		return false, ferr.Wrap(ferr.Custom, cmdline, err)
	}
	return true, nil
}

// Link formats and runs the compiler rule's ll template against a set of
// object files plus the accumulated library list (original §4.4, §4.5).
func (d *Driver) Link(rule *manifest.CompilerRule, objs []string, libs []string, out string) error {
	debug := ""
	if d.DebugLevel >= 0 {
		debug = rule.LLDbg
	}

	cmdline := substitute(rule.LL, []placeholder{
		{"{in}", strings.Join(objs, " ")},
		{"{libs}", strings.Join(libs, " ")},
		{"{debug}", debug},
		{"{out}", out},
	})

	d.Log.Command("%s", cmdline)
	if d.Log.DryRun {
		return nil
	}
	if err := run(cmdline); err != nil {
		return ferr.Wrap(ferr.Custom, cmdline, err)
	}
	return nil
}

// Archive runs `ar -crs <archive> <objs>` (original §6.4).
func (d *Driver) Archive(archive string, objs []string) error {
	args := append([]string{"-crs", archive}, objs...)
	cmdline := "ar " + strings.Join(args, " ")
	d.Log.Command("%s", cmdline)
	if d.Log.DryRun {
		return nil
	}
	cmd := exec.Command("ar", args...)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return ferr.Wrap(ferr.Custom, cmdline, err)
	}
	return nil
}

type placeholder struct {
	token string
	value string
}

// substitute performs single-pass, fixed-order placeholder replacement: each
// placeholder's first occurrence in tmpl is replaced exactly once, wherever
// it sits in the template, and the replacement text is never rescanned for
// further placeholders (original §4.4's Determinism note, §9).
func substitute(tmpl string, phs []placeholder) string {
	type hit struct {
		idx int
		ph  placeholder
	}
	var hits []hit
	for _, ph := range phs {
		if idx := strings.Index(tmpl, ph.token); idx >= 0 {
			hits = append(hits, hit{idx, ph})
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].idx < hits[j].idx })

	var b strings.Builder
	pos := 0
	for _, h := range hits {
		b.WriteString(tmpl[pos:h.idx])
		b.WriteString(h.ph.value)
		pos = h.idx + len(h.ph.token)
	}
	b.WriteString(tmpl[pos:])
	return b.String()
}

// formatIncludes transforms an include list such as [".", "inc/",
// "../dep/inc/"] into "-I. -Iinc/ -I../dep/inc/" using the rule's
// include-flag prefix (original
// §4.4 step 4).
func formatIncludes(prefix string, includes []string) string {
	parts := make([]string, 0, len(includes))
	for _, inc := range includes {
		parts = append(parts, prefix+inc)
	}
	return strings.Join(parts, " ")
}

// run invokes a shell-formatted command line, routing its output to stderr
// the way the teacher routes exec.Command output
// (internal/strategies/conan_graph.go).
func run(cmdline string) error {
	fields := strings.Fields(cmdline)
	if len(fields) == 0 {
		return nil
	}
	cmd := exec.Command(fields[0], fields[1:]...)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
