package registry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/fyrsmithlabs/perch/internal/logging"
	"github.com/fyrsmithlabs/perch/internal/project"
)

// Store wraps the registry file with load/mutate/save operations.
//
// Mutations hold an advisory lock on a sibling ".lock" file for the whole
// load+mutate+save cycle so concurrent invocations serialize instead of
// silently dropping each other's changes. The registry document itself is
// never locked or altered by locking.
type Store struct {
	path   string
	logger *logging.Logger
}

// NewStore returns a Store for the registry document at path.
func NewStore(path string, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Store{
		path:   path,
		logger: logger.Named("registry"),
	}
}

// Path returns the registry document path.
func (s *Store) Path() string {
	return s.path
}

// View loads the registry and passes it to fn. Nothing is saved.
func (s *Store) View(ctx context.Context, fn func([]project.Project) error) error {
	projects, err := Load(s.path)
	if err != nil {
		return err
	}
	s.logger.Debug(ctx, "registry loaded", zap.String("path", s.path), zap.Int("projects", len(projects)))
	return fn(projects)
}

// Update loads the registry under the lock and passes it to fn. If fn
// returns a non-nil slice the registry is replaced with it and saved once;
// returning nil leaves the file untouched.
func (s *Store) Update(ctx context.Context, fn func([]project.Project) ([]project.Project, error)) error {
	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock()

	projects, err := Load(s.path)
	if err != nil {
		return err
	}

	updated, err := fn(projects)
	if err != nil {
		return err
	}
	if updated == nil {
		return nil
	}

	if err := Save(updated, s.path); err != nil {
		return err
	}
	s.logger.Debug(ctx, "registry saved", zap.String("path", s.path), zap.Int("projects", len(updated)))
	return nil
}

// List returns every project in registry order.
func (s *Store) List(ctx context.Context) ([]project.Project, error) {
	var out []project.Project
	err := s.View(ctx, func(projects []project.Project) error {
		out = projects
		return nil
	})
	return out, err
}

// Get returns the first project named name.
func (s *Store) Get(ctx context.Context, name string) (project.Project, error) {
	var out project.Project
	err := s.View(ctx, func(projects []project.Project) error {
		i, err := FindPosition(projects, name)
		if err != nil {
			return err
		}
		out = projects[i]
		return nil
	})
	return out, err
}

// Add appends p. Names are not checked for uniqueness; lookups return the
// first match.
func (s *Store) Add(ctx context.Context, p project.Project) error {
	err := s.Update(ctx, func(projects []project.Project) ([]project.Project, error) {
		return append(projects, p), nil
	})
	if err == nil {
		s.logger.Info(ctx, "project added", zap.String("name", p.Name), zap.String("repo", p.Repo))
	}
	return err
}

// Remove deletes the first project named name, keeping the order of the
// remaining projects.
func (s *Store) Remove(ctx context.Context, name string) error {
	err := s.Update(ctx, func(projects []project.Project) ([]project.Project, error) {
		i, err := FindPosition(projects, name)
		if err != nil {
			return nil, err
		}
		out := make([]project.Project, 0, len(projects)-1)
		out = append(out, projects[:i]...)
		return append(out, projects[i+1:]...), nil
	})
	if err == nil {
		s.logger.Info(ctx, "project removed", zap.String("name", name))
	}
	return err
}

// Edit applies e in place to the first project named name and returns
// the edited record.
func (s *Store) Edit(ctx context.Context, name string, e project.Edit) (project.Project, error) {
	var edited project.Project
	err := s.Update(ctx, func(projects []project.Project) ([]project.Project, error) {
		i, err := FindPosition(projects, name)
		if err != nil {
			return nil, err
		}
		edited = projects[i].Apply(e)
		projects[i] = edited
		return projects, nil
	})
	if err == nil {
		s.logger.Info(ctx, "project edited", zap.String("name", name), zap.String("new_name", edited.Name))
	}
	return edited, err
}

// lock takes an exclusive flock on "<path>.lock", blocking until it is
// available.
func (s *Store) lock() (func(), error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: create %s: %v", ErrIO, filepath.Dir(s.path), err)
	}

	lockPath := s.path + ".lock"
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: open lock %s: %v", ErrIO, lockPath, err)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX); err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: lock %s: %v", ErrIO, lockPath, err)
	}

	return func() {
		_ = unix.Flock(int(f.Fd()), unix.LOCK_UN)
		f.Close()
	}, nil
}
