package gitops

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrNothingToCommit is returned when the given paths have no changes.
var ErrNothingToCommit = errors.New("nothing to commit")

// Repo is a project directory under git, with the identity used for commits.
type Repo struct {
	Dir         string
	AuthorName  string
	AuthorEmail string
}

// Init initializes a new git repository at dir.
func Init(dir string) error {
	cmd := exec.Command("git", "init", "--quiet")
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git init: %s: %w", out, err)
	}
	return nil
}

// IsRepo reports whether dir is the root of a git repository.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// CommitAll stages all files and creates a commit. Returns the short commit hash.
func (r Repo) CommitAll(message string) (string, error) {
	return r.Commit(message)
}

// Commit stages and commits only the given paths (relative to Dir); with no
// paths it commits everything. Returns the short commit hash.
func (r Repo) Commit(message string, paths ...string) (string, error) {
	addArgs := []string{"add", "-A", "--"}
	if len(paths) == 0 {
		addArgs = append(addArgs, ".")
	} else {
		addArgs = append(addArgs, paths...)
	}
	if out, err := r.git(addArgs...).CombinedOutput(); err != nil {
		return "", fmt.Errorf("git add: %s: %w", out, err)
	}

	diffArgs := []string{"diff", "--cached", "--quiet", "--"}
	diffArgs = append(diffArgs, paths...)
	if err := r.git(diffArgs...).Run(); err == nil {
		return "", ErrNothingToCommit
	}

	commitArgs := []string{"commit", "--quiet", "-m", message, "--author", r.author()}
	if len(paths) > 0 {
		commitArgs = append(commitArgs, "--")
		commitArgs = append(commitArgs, paths...)
	}
	if out, err := r.git(commitArgs...).CombinedOutput(); err != nil {
		return "", fmt.Errorf("git commit: %s: %w", out, err)
	}

	return r.Head()
}

// Head returns the short hash of HEAD.
func (r Repo) Head() (string, error) {
	out, err := r.git("rev-parse", "--short", "HEAD").Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

func (r Repo) author() string {
	return fmt.Sprintf("%s <%s>", r.AuthorName, r.AuthorEmail)
}

// git builds a git command in the repo. The committer identity follows the
// author so commits succeed on machines without a global git config.
func (r Repo) git(args ...string) *exec.Cmd {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(),
		"GIT_COMMITTER_NAME="+r.AuthorName,
		"GIT_COMMITTER_EMAIL="+r.AuthorEmail,
	)
	return cmd
}
