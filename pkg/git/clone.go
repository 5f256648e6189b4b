package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"

	"github.com/fyrsmithlabs/perch/internal/process"
)

// ErrCloneFailed is wrapped by every CloneError.
var ErrCloneFailed = errors.New("clone failed")

// CloneError reports a failed clone together with the diagnostics the
// clone produced.
type CloneError struct {
	URL    string
	Dir    string
	Stderr string
	Err    error
}

func (e *CloneError) Error() string {
	msg := fmt.Sprintf("clone %s into %s: %v", e.URL, e.Dir, e.Err)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += "\n" + stderr
	}
	return msg
}

func (e *CloneError) Unwrap() []error {
	return []error{ErrCloneFailed, e.Err}
}

// Cloner clones url into root/dir.
type Cloner interface {
	Clone(ctx context.Context, url, root, dir string) error
}

// ExecCloner clones with the git binary, so the user's SSH agent,
// credential helpers and git config all apply.
type ExecCloner struct {
	Launcher process.Launcher
}

// Clone runs "git clone <url> <dir>" in root.
func (c *ExecCloner) Clone(ctx context.Context, url, root, dir string) error {
	cmd := process.Command{
		Name: "git",
		Args: []string{"clone", url, dir},
		Dir:  root,
	}
	if err := c.Launcher.Run(ctx, cmd); err != nil {
		cloneErr := &CloneError{URL: url, Dir: dir, Err: err}
		var subErr *process.SubprocessError
		if errors.As(err, &subErr) {
			// git never ran; that is not a clone failure.
			if !exited(subErr.Err) {
				return err
			}
			cloneErr.Stderr = subErr.Stderr
			cloneErr.Err = subErr.Err
		}
		return cloneErr
	}
	return nil
}

// exited reports whether err carries a process exit code, as
// *exec.ExitError does. Spawn failures do not.
func exited(err error) bool {
	var e interface{ ExitCode() int }
	return errors.As(err, &e)
}

// GoGitCloner clones in-process with go-git. SSH remotes authenticate
// through the running SSH agent.
type GoGitCloner struct{}

// Clone clones url into root/dir. Progress output is kept and returned
// as the error detail on failure.
func (GoGitCloner) Clone(ctx context.Context, url, root, dir string) error {
	var progress bytes.Buffer
	_, err := git.PlainCloneContext(ctx, filepath.Join(root, dir), false, &git.CloneOptions{
		URL:      url,
		Progress: &progress,
	})
	if err != nil {
		return &CloneError{URL: url, Dir: dir, Stderr: progress.String(), Err: err}
	}
	return nil
}
