package depres

import (
	"bufio"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/StinkyLord/flymake/internal/ferr"
	"github.com/StinkyLord/flymake/internal/manifest"
	"github.com/StinkyLord/flymake/internal/project"
	"github.com/StinkyLord/flymake/internal/semver"
)

// resolveGit materializes a git dependency into <root>/deps/<name>/
// (original §4.6), reusing an existing clone unless --all forces a
// re-clone, then pins it by sha, version range, or leaves it at HEAD.
func resolveGit(root, st *project.State, decl *manifest.DependencyDecl, opts Options) (*project.Dependency, error) {
	cloneDir := filepath.Join(root.DepsOutDir, decl.Name)
	gitDir := filepath.Join(cloneDir, ".git")

	reuse := dirExists(gitDir) && !opts.RebuildDeps
	if !reuse {
		if dirExists(cloneDir) {
			if err := os.RemoveAll(cloneDir); err != nil {
				return nil, ferr.Wrap(ferr.Clone, cloneDir, err)
			}
		}
		if err := os.MkdirAll(root.DepsOutDir, 0o755); err != nil {
			return nil, ferr.Wrap(ferr.Clone, root.DepsOutDir, err)
		}
		args := []string{"clone", decl.Git, cloneDir}
		if decl.Branch != "" {
			args = []string{"clone", "-b", decl.Branch, decl.Git, cloneDir}
		}
		if err := runGit(opts, root.AbsPath, args...); err != nil {
			return nil, ferr.Wrap(ferr.Clone, decl.Git, err)
		}
	}

	switch {
	case decl.Sha != "":
		if err := runGit(opts, cloneDir, "checkout", decl.Sha); err != nil {
			return nil, ferr.Wrap(ferr.Clone, decl.Sha, err)
		}
	case decl.Version != "":
		sha, version, err := pickVersionedCommit(opts, cloneDir, decl.Version)
		if err != nil {
			return nil, ferr.Wrap(ferr.Clone, decl.Name, err)
		}
		if err := runGit(opts, cloneDir, "checkout", sha); err != nil {
			return nil, ferr.Wrap(ferr.Clone, sha, err)
		}
		decl = &manifest.DependencyDecl{
			Name: decl.Name, Git: decl.Git, Version: version, Branch: decl.Branch, Line: decl.Line,
		}
	}

	subManifest, err := manifest.Load(cloneDir)
	if err != nil {
		return nil, err
	}
	if !hasLibraryFolder(subManifest) {
		return nil, ferr.Manifest(manifestPathOf(st), decl.Line, 1, "dependency \""+decl.Name+"\" project cannot be built as a library: "+cloneDir)
	}

	version := subManifest.Package.Version
	if version == "" {
		version = "*"
	}
	if decl.Version != "" {
		version = decl.Version
	}

	rel, _ := filepath.Rel(root.AbsPath, cloneDir)
	sub := project.NewSub(root, filepath.ToSlash(rel), cloneDir, subManifest)

	return &project.Dependency{
		Name:            decl.Name,
		RequestedRange:  decl.Version,
		ResolvedVersion: version,
		IncludeDir:      cloneDir,
		Sub:             sub,
	}, nil
}

// reGitLogVersion matches a semver token introduced by v/ver/version
// (case-insensitive) anywhere on a `git log --oneline` line (original
// §4.6).
var reGitLogVersion = regexp.MustCompile(`(?i)\b(?:v|ver|version)[:\s._-]*([0-9]+(?:\.[0-9]+){0,2})\b`)
var reHexSHA = regexp.MustCompile(`^[0-9a-f]{7,40}$`)

// pickVersionedCommit scans `git log --oneline` for the first line whose
// leading token is a hex SHA and whose message carries a semver token
// satisfying rangeExpr (original §4.6).
func pickVersionedCommit(opts Options, cloneDir, rangeExpr string) (sha, matchedVersion string, err error) {
	r, err := semver.ParseRange(rangeExpr)
	if err != nil {
		return "", "", err
	}

	cmd := exec.Command("git", "log", "--oneline")
	cmd.Dir = cloneDir
	out, err := cmd.StdoutPipe()
	if err != nil {
		return "", "", err
	}
	if opts.Log != nil {
		cmd.Stderr = os.Stderr
	}
	if err := cmd.Start(); err != nil {
		return "", "", err
	}

	scanner := bufio.NewScanner(out)
	for scanner.Scan() {
		line := scanner.Text()
		fields := strings.Fields(line)
		if len(fields) == 0 || !reHexSHA.MatchString(fields[0]) {
			continue
		}
		m := reGitLogVersion.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		v, err := semver.Parse(m[1])
		if err != nil {
			continue
		}
		if r.Matches(v) {
			sha = fields[0]
			matchedVersion = m[1]
			break
		}
	}
	_ = cmd.Wait()

	if sha == "" {
		return "", "", ferr.New(ferr.Clone, cloneDir, "version not found: no commit matching range %s", rangeExpr)
	}
	return sha, matchedVersion, nil
}

func runGit(opts Options, dir string, args ...string) error {
	if opts.Log != nil {
		opts.Log.Command("git %s", strings.Join(args, " "))
		if opts.Log.DryRun {
			return nil
		}
	}
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
