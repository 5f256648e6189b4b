package workspace

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/perch/internal/logging"
	"github.com/fyrsmithlabs/perch/internal/process"
)

// OpenInPlaceCommand is the hidden subcommand a spawned terminal runs.
const OpenInPlaceCommand = "open-in-place"

// NeedsHandoff reports whether open should spawn a new terminal window
// instead of attaching in the current one. term is the caller's $TERM.
func (a *Activator) NeedsHandoff(term string) bool {
	t := a.cfg.Terminal
	return len(t.Command) > 0 && term != t.Term
}

// Handoff resolves and clones the project in the current process, so
// failures are reported here, then spawns the configured terminal running
// "<self> open-in-place <name>" and returns.
func (a *Activator) Handoff(ctx context.Context, name, self string) error {
	p, err := a.projects.Get(ctx, name)
	if err != nil {
		return err
	}
	ctx = logging.WithProject(ctx, p.Name)

	if _, err := a.EnsureWorkspace(ctx, p); err != nil {
		return err
	}

	t := a.cfg.Terminal
	args := append(append([]string{}, t.Command[1:]...), self, OpenInPlaceCommand, p.Name)
	cmd := process.Command{Name: t.Command[0], Args: args}

	a.logger.Debug(logging.WithStep(ctx, "handoff"), "spawning terminal", zap.String("command", cmd.String()))
	if err := a.launcher.Start(cmd); err != nil {
		return fmt.Errorf("launch terminal: %w", err)
	}
	return nil
}
