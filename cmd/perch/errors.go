package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/fyrsmithlabs/perch/internal/process"
	"github.com/fyrsmithlabs/perch/internal/project"
	"github.com/fyrsmithlabs/perch/internal/registry"
	"github.com/fyrsmithlabs/perch/internal/search"
	"github.com/fyrsmithlabs/perch/pkg/git"
)

// errorKinds maps the error taxonomy to message prefixes. Order matters:
// a clone failure wraps a subprocess failure, and a failed session check or
// create wraps both an i/o and a subprocess failure.
var errorKinds = []struct {
	target error
	prefix string
}{
	{project.ErrNotFound, "not found"},
	{registry.ErrDataCorrupt, "corrupt registry"},
	{git.ErrCloneFailed, "clone failed"},
	{registry.ErrIO, "i/o error"},
	{process.ErrSubprocess, "command failed"},
}

// formatError renders err for stderr.
func formatError(err error) string {
	for _, k := range errorKinds {
		if errors.Is(err, k.target) {
			return fmt.Sprintf("perch: %s: %v", k.prefix, err)
		}
	}
	return fmt.Sprintf("perch: %v", err)
}

// withSuggestion appends the closest registered name to a not found error.
func withSuggestion(ctx context.Context, err error, name string) error {
	if !errors.Is(err, project.ErrNotFound) || app == nil {
		return err
	}
	projects, listErr := app.store.List(ctx)
	if listErr != nil {
		return err
	}
	if s, ok := search.Suggest(projects, name); ok && s != name {
		return fmt.Errorf("%w (did you mean %q?)", err, s)
	}
	return err
}
