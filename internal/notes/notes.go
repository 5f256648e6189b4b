// Package notes manages the per-project notes file kept in the data
// directory at <data-dir>/<project-dir>/notes.md.
package notes

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fyrsmithlabs/perch/internal/project"
	"github.com/fyrsmithlabs/perch/internal/registry"
)

// FileName is the notes file inside a project's data directory.
const FileName = "notes.md"

// create opens a new notes file, failing if it exists. Replaced in tests.
var create = func(path string) (io.WriteCloser, error) {
	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
}

// Template returns the content a new notes file is seeded with.
func Template(name string) string {
	return fmt.Sprintf("# `%s` - Notes\n\n## TODO:\n- [ ] A task", name)
}

// Path returns where the notes file for p lives, without touching the
// filesystem.
func Path(dataDir string, p project.Project) string {
	return filepath.Join(dataDir, p.Dir, FileName)
}

// Ensure makes sure the notes file for p exists and returns its absolute
// path. An existing file is never modified.
func Ensure(dataDir string, p project.Project) (string, error) {
	path, err := filepath.Abs(Path(dataDir, p))
	if err != nil {
		return "", fmt.Errorf("%w: resolve notes path: %v", registry.ErrIO, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create notes directory %s: %v", registry.ErrIO, dir, err)
	}

	f, err := create(path)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return path, nil
		}
		return "", fmt.Errorf("%w: create notes file %s: %v", registry.ErrIO, path, err)
	}

	// Partial files are removed so the next call seeds again.
	if _, err := io.WriteString(f, Template(p.Name)); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("%w: write notes file %s: %v", registry.ErrIO, path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("%w: close notes file %s: %v", registry.ErrIO, path, err)
	}

	return path, nil
}
