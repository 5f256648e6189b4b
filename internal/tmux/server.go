// Package tmux drives the tmux sessions perch attaches to. Every project
// gets one session named "<prefix><project name>", created detached and
// then attached in the foreground.
package tmux

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fyrsmithlabs/perch/internal/process"
)

// DefaultPrefix is prepended to project names for their session names.
const DefaultPrefix = "perch-"

// SessionName returns the session name for a project. tmux treats "." and
// ":" as target separators, so they are replaced.
func SessionName(prefix, projectName string) string {
	return strings.NewReplacer(".", "_", ":", "_").Replace(prefix + projectName)
}

// Server targets one tmux server. With an empty socket path the user's
// default server is used.
type Server struct {
	socketPath string
	launcher   process.Launcher
}

// NewServer returns a Server running tmux through launcher.
func NewServer(socketPath string, launcher process.Launcher) *Server {
	return &Server{
		socketPath: socketPath,
		launcher:   launcher,
	}
}

// HasSession reports whether a session with the given name exists.
// A non-running server means no session. Any other failure (tmux
// missing, permission denied) is returned.
func (s *Server) HasSession(ctx context.Context, name string) (bool, error) {
	err := s.run(ctx, "", "has-session", "-t", "="+name)
	if err == nil {
		return true, nil
	}

	// has-session exits 1 both for a missing session and for no server.
	if isExitStatus(err) {
		return false, nil
	}
	return false, err
}

// NewSession creates a detached session rooted at dir running command.
func (s *Server) NewSession(ctx context.Context, name, dir string, command ...string) error {
	args := []string{"new-session", "-d", "-s", name, "-c", dir}
	args = append(args, command...)
	if err := s.run(ctx, dir, args...); err != nil {
		return fmt.Errorf("create session %q: %w", name, err)
	}
	return nil
}

// SplitWindow adds a pane of the given height below target's active pane.
func (s *Server) SplitWindow(ctx context.Context, target, dir string, lines int) error {
	args := []string{"split-window", "-t", target, "-l", strconv.Itoa(lines)}
	if dir != "" {
		args = append(args, "-c", dir)
	}
	if err := s.run(ctx, dir, args...); err != nil {
		return fmt.Errorf("split window in %q: %w", target, err)
	}
	return nil
}

// LastPane makes the previously active pane of target active again.
func (s *Server) LastPane(ctx context.Context, target string) error {
	if err := s.run(ctx, "", "last-pane", "-t", target); err != nil {
		return fmt.Errorf("select last pane in %q: %w", target, err)
	}
	return nil
}

// AttachCommand returns the command that attaches the terminal to name.
func (s *Server) AttachCommand(name string) process.Command {
	return process.Command{Name: "tmux", Args: s.args("attach-session", "-t", "="+name)}
}

// Attach hands the terminal to the session. It returns once the client
// detaches, or never if the launcher replaces the process.
func (s *Server) Attach(name string) error {
	if err := s.launcher.Foreground(s.AttachCommand(name)); err != nil {
		return fmt.Errorf("attach session %q: %w", name, err)
	}
	return nil
}

func (s *Server) run(ctx context.Context, dir string, args ...string) error {
	return s.launcher.Run(ctx, process.Command{Name: "tmux", Args: s.args(args...), Dir: dir})
}

func (s *Server) args(args ...string) []string {
	if s.socketPath == "" {
		return args
	}
	return append([]string{"-S", s.socketPath}, args...)
}

// exitStatus is implemented by errors carrying a process exit code.
type exitStatus interface {
	ExitCode() int
}

func isExitStatus(err error) bool {
	var e exitStatus
	return errors.As(err, &e) && e.ExitCode() > 0
}
