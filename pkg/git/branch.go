// Package git provides the git operations perch needs: cloning a
// project's repository into its workspace and reporting which branch a
// workspace has checked out.
package git

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

var (
	// ErrNotGitRepo indicates the directory is not a Git repository
	ErrNotGitRepo = errors.New("not a git repository")
)

// Detached is reported by DetectBranch when HEAD is not on a branch.
const Detached = "detached"

// DetectBranch returns the branch checked out in the repository at path.
//
// HEAD is read without resolving it, so a freshly initialized repository
// with no commits still reports its branch.
//
// Returns:
//   - Branch name (e.g., "main", "feature/notes")
//   - "detached" if HEAD points at a commit
//   - ErrNotGitRepo if path is not a repository
func DetectBranch(path string) (string, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return "", fmt.Errorf("%w: %s", ErrNotGitRepo, path)
		}
		return "", fmt.Errorf("open repository %s: %w", path, err)
	}

	head, err := repo.Reference(plumbing.HEAD, false)
	if err != nil {
		return "", fmt.Errorf("reading HEAD: %w", err)
	}

	if head.Type() == plumbing.SymbolicReference && head.Target().IsBranch() {
		return head.Target().Short(), nil
	}
	return Detached, nil
}

// IsMainBranch checks if the given branch name is a main branch.
func IsMainBranch(branch string) bool {
	return branch == "main" || branch == "master"
}
