package orchestrate

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/StinkyLord/flymake/internal/ferr"
	"github.com/StinkyLord/flymake/internal/manifest"
)

// Run implements the `run` command (original §4.8): build the root, then
// execute the resolved target(s). passthrough holds the arguments after a
// literal "--" separator, forwarded verbatim to the child process.
func Run(startPath string, args, passthrough []string, opts Options) error {
	return runOrTest(startPath, args, passthrough, opts, defaultRunTarget)
}

// Test implements the `test` command: identical to run, except the default
// target (when no explicit target is given) is the folder literally named
// test/ instead of the preferred source-program folder.
func Test(startPath string, args, passthrough []string, opts Options) error {
	return runOrTest(startPath, args, passthrough, opts, defaultTestTarget)
}

func runOrTest(startPath string, args, passthrough []string, opts Options, pickDefault func(eng *engine) (string, error)) error {
	if err := Build(startPath, args, opts); err != nil {
		return err
	}

	eng, err := setup(startPath, opts)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		arg, err := pickDefault(eng)
		if err != nil {
			return err
		}
		args = []string{arg}
	}

	for _, arg := range args {
		if err := executeArg(eng, arg, passthrough); err != nil {
			return err
		}
	}
	return nil
}

// defaultRunTarget implements the run target-selection rule: prefer a
// source-program folder literally named src/ or source/; fall back to the
// first source-program folder declared; error if none exists.
func defaultRunTarget(eng *engine) (string, error) {
	var firstProgram string
	for _, fr := range eng.Root.Manifest.Folders {
		if fr.Kind != manifest.RuleSourceProgram {
			continue
		}
		base := filepath.Base(filepath.Clean(fr.Path))
		if base == "src" || base == "source" {
			return filepath.Join(eng.Root.AbsPath, filepath.FromSlash(fr.Path)), nil
		}
		if firstProgram == "" {
			firstProgram = fr.Path
		}
	}
	if firstProgram != "" {
		return filepath.Join(eng.Root.AbsPath, filepath.FromSlash(firstProgram)), nil
	}
	return "", ferr.New(ferr.NoRule, "", "no source-program folder to run")
}

// defaultTestTarget picks the folder literally named test/.
func defaultTestTarget(eng *engine) (string, error) {
	for _, fr := range eng.Root.Manifest.Folders {
		if filepath.Base(filepath.Clean(fr.Path)) == "test" {
			return filepath.Join(eng.Root.AbsPath, filepath.FromSlash(fr.Path)), nil
		}
	}
	return "", ferr.New(ferr.NoRule, "", "no folder named test/ to run")
}

// executeArg resolves arg against the already-built project and executes
// whatever it names: a whole source-program folder, every tool in a
// tool-folder, or one specific file.
func executeArg(eng *engine, arg string, passthrough []string) error {
	abs, err := filepath.Abs(arg)
	if err != nil {
		return ferr.Wrap(ferr.BadPath, arg, err)
	}

	info, statErr := os.Stat(abs)
	if statErr != nil {
		return ferr.Wrap(ferr.BadProg, abs, statErr)
	}

	if !info.IsDir() {
		return execOne(eng, abs, passthrough)
	}

	for _, fr := range eng.Root.Manifest.Folders {
		folder := filepath.Join(eng.Root.AbsPath, filepath.FromSlash(fr.Path))
		if filepath.Clean(folder) != filepath.Clean(abs) {
			continue
		}
		switch fr.Kind {
		case manifest.RuleSourceProgram:
			name := fr.Path
			base := filepath.Base(filepath.Clean(name))
			exeName := base
			if base == "src" || base == "source" {
				exeName = eng.Root.Name
			}
			return execOne(eng, filepath.Join(folder, exeName), passthrough)
		case manifest.RuleToolFolder:
			return execAllTools(eng, folder, passthrough)
		default:
			return ferr.New(ferr.BadProg, abs, "folder %q is not a runnable rule", fr.Path)
		}
	}
	return ferr.New(ferr.NoRule, abs, "no folder rule matches %q", abs)
}

func execAllTools(eng *engine, folder string, passthrough []string) error {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return ferr.Wrap(ferr.BadPath, folder, err)
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != "" {
			continue
		}
		if err := execOne(eng, filepath.Join(folder, e.Name()), passthrough); err != nil {
			return err
		}
	}
	return nil
}

func execOne(eng *engine, path string, passthrough []string) error {
	eng.Log.Command("%s %s", path, passthrough)
	if eng.Log.DryRun {
		return nil
	}
	cmd := exec.Command(path, passthrough...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	if err := cmd.Run(); err != nil {
		return ferr.Wrap(ferr.BadProg, path, err)
	}
	return nil
}
