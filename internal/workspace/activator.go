package workspace

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/perch/internal/config"
	"github.com/fyrsmithlabs/perch/internal/logging"
	"github.com/fyrsmithlabs/perch/internal/notes"
	"github.com/fyrsmithlabs/perch/internal/process"
	"github.com/fyrsmithlabs/perch/internal/project"
	"github.com/fyrsmithlabs/perch/internal/registry"
	"github.com/fyrsmithlabs/perch/internal/tmux"
	"github.com/fyrsmithlabs/perch/pkg/git"
)

// Projects resolves project names. *registry.Store implements it.
type Projects interface {
	Get(ctx context.Context, name string) (project.Project, error)
}

// Sessions manages terminal multiplexer sessions. *tmux.Server
// implements it.
type Sessions interface {
	HasSession(ctx context.Context, name string) (bool, error)
	NewSession(ctx context.Context, name, dir string, command ...string) error
	SplitWindow(ctx context.Context, target, dir string, lines int) error
	LastPane(ctx context.Context, target string) error
	Attach(name string) error
}

// Activator runs workspace activation.
type Activator struct {
	cfg      *config.Config
	projects Projects
	cloner   git.Cloner
	sessions Sessions
	launcher process.Launcher
	logger   *logging.Logger
}

// NewActivator wires an Activator. All collaborators are required except
// logger.
func NewActivator(cfg *config.Config, projects Projects, cloner git.Cloner, sessions Sessions, launcher process.Launcher, logger *logging.Logger) *Activator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Activator{
		cfg:      cfg,
		projects: projects,
		cloner:   cloner,
		sessions: sessions,
		launcher: launcher,
		logger:   logger.Named("workspace"),
	}
}

// Open activates the named project and attaches to its session. With a
// process-replacing launcher it only returns on failure.
func (a *Activator) Open(ctx context.Context, name string) error {
	session, err := a.Prepare(ctx, name)
	if err != nil {
		return err
	}

	ctx = logging.WithStep(logging.WithProject(ctx, name), "attach")
	a.logger.Debug(ctx, "attaching", zap.String("session", session))
	return a.sessions.Attach(session)
}

// Prepare runs every activation step except attaching and returns the
// session name.
func (a *Activator) Prepare(ctx context.Context, name string) (string, error) {
	p, err := a.projects.Get(ctx, name)
	if err != nil {
		return "", err
	}
	ctx = logging.WithProject(ctx, p.Name)

	path, err := a.EnsureWorkspace(ctx, p)
	if err != nil {
		return "", err
	}

	notesPath, err := notes.Ensure(a.cfg.Paths.DataDir, p)
	if err != nil {
		return "", err
	}

	session := a.SessionName(p)
	if err := a.ensureSession(logging.WithStep(ctx, "session"), session, path, notesPath); err != nil {
		return "", err
	}
	return session, nil
}

// WorkspacePath returns <projects-root>/<dir> for p.
func (a *Activator) WorkspacePath(p project.Project) string {
	return filepath.Join(a.cfg.Paths.ProjectsRoot, p.Dir)
}

// SessionName returns the session name for p.
func (a *Activator) SessionName(p project.Project) string {
	return tmux.SessionName(a.cfg.Session.Prefix, p.Name)
}

// EnsureWorkspace clones p into its workspace path unless that path
// already exists, and returns the path.
func (a *Activator) EnsureWorkspace(ctx context.Context, p project.Project) (string, error) {
	ctx = logging.WithStep(ctx, "clone")
	path := a.WorkspacePath(p)

	_, err := os.Stat(path)
	if err == nil {
		a.logger.Debug(ctx, "workspace exists", zap.String("path", path))
		return path, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w: stat workspace %s: %v", registry.ErrIO, path, err)
	}

	root := a.cfg.Paths.ProjectsRoot
	if err := os.MkdirAll(root, 0o755); err != nil {
		return "", fmt.Errorf("%w: create projects root %s: %v", registry.ErrIO, root, err)
	}

	url := project.RemoteURL(p.Repo, a.cfg.Clone.SSHHost)
	a.logger.Info(ctx, "cloning", zap.String("url", url), zap.String("path", path))
	if err := a.cloner.Clone(ctx, url, root, p.Dir); err != nil {
		return "", err
	}
	return path, nil
}

func (a *Activator) ensureSession(ctx context.Context, session, path, notesPath string) error {
	exists, err := a.sessions.HasSession(ctx, session)
	if err != nil {
		return fmt.Errorf("%w: check session %q: %w", registry.ErrIO, session, err)
	}
	if exists {
		a.logger.Debug(ctx, "session exists", zap.String("session", session))
		return nil
	}

	editor := append(strings.Fields(a.cfg.Session.Editor), notesPath)
	if err := a.sessions.NewSession(ctx, session, path, editor...); err != nil {
		return fmt.Errorf("%w: %w", registry.ErrIO, err)
	}
	if err := a.sessions.SplitWindow(ctx, session, path, a.cfg.Session.PaneLines); err != nil {
		return fmt.Errorf("%w: %w", registry.ErrIO, err)
	}
	if err := a.sessions.LastPane(ctx, session); err != nil {
		return fmt.Errorf("%w: %w", registry.ErrIO, err)
	}

	a.logger.Info(ctx, "session created", zap.String("session", session), zap.String("path", path))
	return nil
}

// OpenLinks opens every link of p with the configured opener. A link that
// fails to open does not stop the others; all failures are returned
// together.
func (a *Activator) OpenLinks(ctx context.Context, p project.Project) error {
	ctx = logging.WithStep(logging.WithProject(ctx, p.Name), "links")

	var errs error
	for _, link := range p.Links {
		cmd := process.Command{Name: a.cfg.Links.Opener, Args: []string{link}}
		if err := a.launcher.Start(cmd); err != nil {
			a.logger.Warn(ctx, "failed to open link", zap.String("link", link), zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("open %s: %w", link, err))
			continue
		}
		a.logger.Debug(ctx, "opened link", zap.String("link", link))
	}
	return errs
}
