package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/fyrsmithlabs/perch/internal/logging"
)

// ErrSubprocess is wrapped by every SubprocessError.
var ErrSubprocess = errors.New("subprocess failed")

// Command is a program invocation.
type Command struct {
	Name string
	Args []string
	Dir  string   // working directory, empty for the current one
	Env  []string // extra KEY=VALUE pairs appended to the environment
}

// String renders the command line for logs and errors.
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// SubprocessError reports a program that failed to start or exited
// unsuccessfully.
type SubprocessError struct {
	Command Command
	Stderr  string
	Err     error
}

func (e *SubprocessError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Command, e.Err)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += " (" + stderr + ")"
	}
	return msg
}

func (e *SubprocessError) Unwrap() []error {
	return []error{ErrSubprocess, e.Err}
}

// Launcher runs external programs.
type Launcher interface {
	// Run starts cmd and waits for it. Standard error is captured into
	// the returned *SubprocessError on failure.
	Run(ctx context.Context, cmd Command) error

	// Start spawns cmd detached from perch and returns once it started.
	Start(cmd Command) error

	// Foreground hands the terminal to cmd. It does not return before cmd
	// has finished.
	Foreground(cmd Command) error
}

// ExecFunc matches unix.Exec.
type ExecFunc func(argv0 string, argv []string, envv []string) error

// OSLauncher implements Launcher with os/exec.
type OSLauncher struct {
	// SpawnForeground makes Foreground start and wait for the program
	// instead of replacing the current process.
	SpawnForeground bool

	// Stdin, Stdout and Stderr are used by Foreground in spawn mode.
	// Nil means the process's own streams.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	exec   ExecFunc
	logger *logging.Logger
}

// NewOSLauncher returns a launcher that replaces the process on
// Foreground.
func NewOSLauncher(logger *logging.Logger) *OSLauncher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &OSLauncher{
		exec:   unix.Exec,
		logger: logger.Named("process"),
	}
}

// Run starts cmd, waits for it and captures its standard error.
func (l *OSLauncher) Run(ctx context.Context, cmd Command) error {
	c := l.command(ctx, cmd)
	var stderr bytes.Buffer
	c.Stderr = &stderr

	l.logger.Trace(ctx, "running command", zap.String("command", cmd.String()), zap.String("dir", cmd.Dir))
	if err := c.Run(); err != nil {
		return &SubprocessError{Command: cmd, Stderr: stderr.String(), Err: err}
	}
	return nil
}

// Start spawns cmd in its own session so it outlives perch.
func (l *OSLauncher) Start(cmd Command) error {
	c := l.command(context.Background(), cmd)
	c.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	l.logger.Trace(context.Background(), "starting detached command", zap.String("command", cmd.String()))
	if err := c.Start(); err != nil {
		return &SubprocessError{Command: cmd, Err: err}
	}
	// Reap in the background; the result is of no interest.
	go func() { _ = c.Wait() }()
	return nil
}

// Foreground replaces the current process with cmd, or in spawn mode runs
// it attached to the terminal and waits.
func (l *OSLauncher) Foreground(cmd Command) error {
	ctx := context.Background()
	l.logger.Debug(ctx, "handing terminal to command", zap.String("command", cmd.String()))

	if l.SpawnForeground {
		c := l.command(ctx, cmd)
		c.Stdin, c.Stdout, c.Stderr = os.Stdin, os.Stdout, os.Stderr
		if l.Stdin != nil {
			c.Stdin = l.Stdin
		}
		if l.Stdout != nil {
			c.Stdout = l.Stdout
		}
		if l.Stderr != nil {
			c.Stderr = l.Stderr
		}
		if err := c.Run(); err != nil {
			return &SubprocessError{Command: cmd, Err: err}
		}
		return nil
	}

	binary, err := exec.LookPath(cmd.Name)
	if err != nil {
		return &SubprocessError{Command: cmd, Err: err}
	}
	if cmd.Dir != "" {
		if err := os.Chdir(cmd.Dir); err != nil {
			return &SubprocessError{Command: cmd, Err: err}
		}
	}

	argv := append([]string{cmd.Name}, cmd.Args...)
	env := append(os.Environ(), cmd.Env...)
	// Only returns on failure.
	if err := l.exec(binary, argv, env); err != nil {
		return &SubprocessError{Command: cmd, Err: err}
	}
	return nil
}

func (l *OSLauncher) command(ctx context.Context, cmd Command) *exec.Cmd {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}
	return c
}
