// Package registry persists the project registry.
//
// The registry is a single JSON document holding an ordered array of
// project records:
//
//	~/.perch/
//	├── projects.json        ← registry document
//	├── projects.json.lock   ← advisory lock, never read
//	└── {dir}/notes.md       ← per-project notes
//
// The document is always read and written whole. Saves go through a
// temporary file in the same directory followed by a rename, so a failed
// save never leaves a truncated registry behind.
package registry

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/fyrsmithlabs/perch/internal/project"
)

// Errors for registry operations.
var (
	ErrDataCorrupt = errors.New("registry file corrupted")
	ErrIO          = errors.New("registry io error")
)

// FileName is the registry document name inside the data directory.
const FileName = "projects.json"

// Load reads the registry at path. A missing file is an empty registry.
func Load(path string) ([]project.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []project.Project{}, nil
		}
		return nil, fmt.Errorf("%w: read %s: %v", ErrIO, path, err)
	}

	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: %s is not valid UTF-8", ErrDataCorrupt, path)
	}

	var projects []project.Project
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&projects); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDataCorrupt, path, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: %s: trailing data after registry", ErrDataCorrupt, path)
	}
	if projects == nil {
		projects = []project.Project{}
	}

	return projects, nil
}

// Save writes projects to path atomically.
func Save(projects []project.Project, path string) error {
	if projects == nil {
		projects = []project.Project{}
	}

	data, err := json.MarshalIndent(projects, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal registry: %v", ErrIO, err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create %s: %v", ErrIO, dir, err)
	}

	// Write atomically
	tmpPath := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.NewString()))
	if err := writeSynced(tmpPath, data); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: write registry: %v", ErrIO, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: rename registry: %v", ErrIO, err)
	}

	return nil
}

// FindPosition returns the index of the first project named name.
func FindPosition(projects []project.Project, name string) (int, error) {
	for i, p := range projects {
		if p.Name == name {
			return i, nil
		}
	}
	return -1, project.NotFoundError(name)
}

func writeSynced(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
