package workspace

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/perch/internal/process"
	"github.com/fyrsmithlabs/perch/internal/process/processtest"
	"github.com/fyrsmithlabs/perch/internal/project"
)

func TestNeedsHandoff(t *testing.T) {
	h := newHarness(t)
	assert.False(t, h.act.NeedsHandoff("xterm-256color"), "no terminal configured")

	h.cfg.Terminal.Command = []string{"alacritty", "--command"}
	h.cfg.Terminal.Term = "alacritty"
	assert.True(t, h.act.NeedsHandoff("xterm-256color"))
	assert.False(t, h.act.NeedsHandoff("alacritty"))
}

func TestHandoff_ClonesThenSpawnsTerminal(t *testing.T) {
	h := newHarness(t, demo)
	h.cfg.Terminal.Command = []string{"alacritty", "--command"}

	require.NoError(t, h.act.Handoff(context.Background(), "demo", "/usr/bin/perch"))

	assert.Len(t, h.cloner.calls, 1)
	assert.Equal(t, []string{"start alacritty --command /usr/bin/perch open-in-place demo"}, h.launcher.Names())
	assert.Empty(t, h.sessions.log, "the spawned terminal creates the session")
}

func TestHandoff_NotFound(t *testing.T) {
	h := newHarness(t)
	h.cfg.Terminal.Command = []string{"alacritty"}

	err := h.act.Handoff(context.Background(), "missing", "/usr/bin/perch")
	require.ErrorIs(t, err, project.ErrNotFound)
	assert.Empty(t, h.launcher.Calls())
}

func TestHandoff_TerminalFailure(t *testing.T) {
	h := newHarness(t, demo)
	h.cfg.Terminal.Command = []string{"alacritty"}
	h.launcher.Handler = func(processtest.Mode, process.Command) error {
		return &process.SubprocessError{Err: errors.New("not found")}
	}

	err := h.act.Handoff(context.Background(), "demo", "/usr/bin/perch")
	require.ErrorIs(t, err, process.ErrSubprocess)
}
