package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gogit "github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/perch/internal/notes"
	"github.com/fyrsmithlabs/perch/internal/process"
	"github.com/fyrsmithlabs/perch/internal/process/processtest"
	"github.com/fyrsmithlabs/perch/internal/project"
	"github.com/fyrsmithlabs/perch/internal/registry"
	"github.com/fyrsmithlabs/perch/pkg/git"
)

func TestLs_EmptyRegistry(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("ls")
	assert.Contains(t, out, "You don't have any projects")
	assert.Contains(t, out, "perch help add")
}

func TestAddAndLs_Picker(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, "Added perch\n", h.mustRun("add", "fyrsmithlabs/perch", "-t", "go", "-t", "cli"))
	h.mustRun("add", "me/site", "--name", "www", "--folder", "web/site", "--tags", "web,hugo")
	h.mustRun("add", "me/api")

	out := h.mustRun("ls", "--picker")
	assert.Equal(t, "perch - #go, #cli\nwww - #web, #hugo\napi - \n", out)

	projects, err := registry.Load(filepath.Join(h.data, registry.FileName))
	require.NoError(t, err)
	require.Len(t, projects, 3)
	assert.Equal(t, "web/site", projects[1].Dir)
	assert.Empty(t, projects[2].Tags)
}

func TestLs_Filters(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "me/api", "-t", "go")
	h.mustRun("add", "me/site", "-t", "web")
	h.mustRun("add", "fyrsmithlabs/perch", "-t", "go", "-t", "cli")

	assert.Equal(t, "perch - #go, #cli\n", h.mustRun("ls", "--picker", "--filter", "prch"))
	assert.Equal(t, "site - #web\n", h.mustRun("ls", "--picker", "--tag", "w*"))
	assert.Equal(t, "api - #go\nperch - #go, #cli\n", h.mustRun("ls", "--picker", "--tag", "go"))
	assert.Equal(t, "", h.mustRun("ls", "--picker", "--tag", "rust"))

	require.Error(t, h.run("ls", "--tag", "[unclosed"))
}

func TestLs_Long(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "me/api", "-t", "go", "-l", "https://api.example.com")
	h.mustRun("add", "me/site")

	_, err := gogit.PlainInit(filepath.Join(h.root, "api"), false)
	require.NoError(t, err)

	out := h.mustRun("ls")
	blocks := strings.Split(out, "\n\n")
	require.Len(t, blocks, 2)

	assert.Contains(t, blocks[0], "api\n")
	assert.Contains(t, blocks[0], "Repository: me/api")
	assert.Contains(t, blocks[0], "Folder: api")
	assert.Contains(t, blocks[0], "Tags: #go")
	assert.Contains(t, blocks[0], "Links: https://api.example.com")
	assert.Contains(t, blocks[0], "Branch: master")

	assert.Contains(t, blocks[1], "site\n")
	assert.NotContains(t, blocks[1], "Branch:")
	assert.NotContains(t, blocks[1], "Tags:")
}

func TestLs_CorruptRegistry(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, os.MkdirAll(h.data, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(h.data, registry.FileName), []byte("{not json"), 0o644))

	err := h.run("ls")
	require.ErrorIs(t, err, registry.ErrDataCorrupt)
	assert.True(t, strings.HasPrefix(formatError(err), "perch: corrupt registry: "))
}

func TestOpen_ClonesAndCreatesSession(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "me/api")
	h.missingSessions()

	h.mustRun("open", "api")

	workspace := filepath.Join(h.root, "api")
	notesPath := filepath.Join(h.data, "api", notes.FileName)
	assert.Equal(t, []string{
		"run git clone git@github.com:me/api api",
		"run tmux has-session -t =perch-api",
		"run tmux new-session -d -s perch-api -c " + workspace + " nvim " + notesPath,
		"run tmux split-window -t perch-api -l 4 -c " + workspace,
		"run tmux last-pane -t perch-api",
		"foreground tmux attach-session -t =perch-api",
	}, h.rec.Names())

	calls := h.rec.Calls()
	assert.Equal(t, h.root, calls[0].Command.Dir)

	content, err := os.ReadFile(notesPath)
	require.NoError(t, err)
	assert.Equal(t, notes.Template("api"), string(content))
}

func TestOpen_ExistingSessionOnlyAttaches(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "me/api")
	require.NoError(t, os.MkdirAll(filepath.Join(h.root, "api"), 0o755))

	h.mustRun("open", "api")

	assert.Equal(t, []string{
		"run tmux has-session -t =perch-api",
		"foreground tmux attach-session -t =perch-api",
	}, h.rec.Names())
}

func TestOpen_PickerDetach(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "me/api", "-t", "go")
	require.NoError(t, os.MkdirAll(filepath.Join(h.root, "api"), 0o755))

	out := h.mustRun("open", "--picker", "--detach", "api - #go")
	assert.Equal(t, "perch-api\n", out)
	assert.Equal(t, []string{"run tmux has-session -t =perch-api"}, h.rec.Names())
}

func TestOpen_Links(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "me/api", "-l", "https://a.example.com", "-l", "https://b.example.com")
	require.NoError(t, os.MkdirAll(filepath.Join(h.root, "api"), 0o755))

	h.mustRun("open", "--links", "--detach", "api")
	assert.Equal(t, []string{
		"start xdg-open https://a.example.com",
		"start xdg-open https://b.example.com",
		"run tmux has-session -t =perch-api",
	}, h.rec.Names())
}

func TestOpen_TerminalHandoff(t *testing.T) {
	h := newHarness(t)
	h.writeConfig(`
terminal:
  command: ["alacritty", "-e"]
  term: alacritty
`)
	h.mustRun("add", "me/api")
	require.NoError(t, os.MkdirAll(filepath.Join(h.root, "api"), 0o755))

	h.mustRun("open", "api")
	assert.Equal(t, []string{"start alacritty -e /usr/local/bin/perch open-in-place api"}, h.rec.Names())

	// Inside the configured terminal the session is attached in place.
	h.env["TERM"] = "alacritty"
	h.mustRun("open", "api")
	assert.Equal(t, "foreground tmux attach-session -t =perch-api", h.rec.Names()[2])
}

func TestOpenInPlace(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "me/api")
	require.NoError(t, os.MkdirAll(filepath.Join(h.root, "api"), 0o755))

	h.mustRun("open-in-place", "api")
	assert.Equal(t, []string{
		"run tmux has-session -t =perch-api",
		"foreground tmux attach-session -t =perch-api",
	}, h.rec.Names())
}

func TestOpen_CloneFailure(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "me/api")
	h.rec.Handler = func(_ processtest.Mode, cmd process.Command) error {
		if cmd.Name == "git" {
			return &process.SubprocessError{Command: cmd, Stderr: "Repository not found.", Err: exitCodeError(128)}
		}
		return nil
	}

	err := h.run("open", "api")
	require.ErrorIs(t, err, git.ErrCloneFailed)
	assert.True(t, strings.HasPrefix(formatError(err), "perch: clone failed: "))
	assert.Contains(t, err.Error(), "Repository not found.")
	assert.Equal(t, []string{"run git clone git@github.com:me/api api"}, h.rec.Names())

	_, statErr := os.Stat(filepath.Join(h.data, "api", notes.FileName))
	assert.True(t, os.IsNotExist(statErr), "notes must not be created after a failed clone")
}

func TestOpen_GitMissing(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "me/api")
	h.rec.Handler = func(_ processtest.Mode, cmd process.Command) error {
		return &process.SubprocessError{Command: cmd, Err: errors.New(`exec: "git": executable file not found in $PATH`)}
	}

	err := h.run("open", "api")
	require.ErrorIs(t, err, process.ErrSubprocess)
	assert.NotErrorIs(t, err, git.ErrCloneFailed)
	assert.True(t, strings.HasPrefix(formatError(err), "perch: command failed: "), formatError(err))
}

func TestOpen_SessionCheckFailure(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "me/api")
	require.NoError(t, os.MkdirAll(filepath.Join(h.root, "api"), 0o755))
	h.rec.Handler = func(_ processtest.Mode, cmd process.Command) error {
		if cmd.Name == "tmux" {
			return &process.SubprocessError{Command: cmd, Err: errors.New("permission denied")}
		}
		return nil
	}

	err := h.run("open", "api")
	require.ErrorIs(t, err, registry.ErrIO)
	assert.True(t, strings.HasPrefix(formatError(err), "perch: i/o error: "), formatError(err))
	assert.Equal(t, []string{"run tmux has-session -t =perch-api"}, h.rec.Names())
}

func TestNotFound_Suggestion(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "fyrsmithlabs/perch")

	for _, args := range [][]string{
		{"open", "prch"},
		{"rm", "prch"},
		{"edit", "prch", "--name", "x"},
		{"notes", "prch"},
		{"links", "prch"},
	} {
		err := h.run(args...)
		require.ErrorIs(t, err, project.ErrNotFound, "args %v", args)
		assert.Contains(t, err.Error(), `did you mean "perch"?`, "args %v", args)
	}
	assert.Empty(t, h.rec.Calls())
}

func TestEdit(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "fyrsmithlabs/perch", "-t", "go", "-t", "cli", "-l", "https://old.example.com")

	assert.Equal(t, "Updated roost\n", h.mustRun("edit", "perch", "--name", "roost", "-t", "tui", "-u", "cli",
		"--unlinks", "https://old.example.com", "--links", "https://new.example.com"))

	projects, err := registry.Load(filepath.Join(h.data, registry.FileName))
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, project.Project{
		Repo:  "fyrsmithlabs/perch",
		Name:  "roost",
		Dir:   "perch",
		Tags:  []string{"go", "tui"},
		Links: []string{"https://new.example.com"},
	}, projects[0])

	h.mustRun("edit", "roost", "--folder", "tools/perch", "--repo", "https://git.example.com/perch.git")
	projects, err = registry.Load(filepath.Join(h.data, registry.FileName))
	require.NoError(t, err)
	assert.Equal(t, "tools/perch", projects[0].Dir)
	assert.Equal(t, "https://git.example.com/perch.git", projects[0].Repo)
}

func TestRm(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "me/api")
	h.mustRun("add", "me/site")
	h.mustRun("add", "me/docs")

	assert.Equal(t, "Removed site\n", h.mustRun("rm", "site"))
	assert.Equal(t, "api - \ndocs - \n", h.mustRun("ls", "--picker"))
}

func TestNotes(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "me/api")
	path := filepath.Join(h.data, "api", notes.FileName)

	assert.Equal(t, path+"\n", h.mustRun("notes", "api"))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, notes.Template("api"), string(content))
	assert.Empty(t, h.clip)

	require.NoError(t, os.WriteFile(path, []byte("mine"), 0o644))
	h.mustRun("notes", "--copy", "api")
	assert.Equal(t, []string{path}, h.clip)

	content, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "mine", string(content))
}

func TestLinks_ReportsEveryFailure(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "me/api", "-l", "https://a.example.com", "-l", "https://b.example.com")
	h.rec.Handler = func(processtest.Mode, process.Command) error {
		return errors.New("no display")
	}

	err := h.run("links", "api")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "https://a.example.com")
	assert.Contains(t, err.Error(), "https://b.example.com")
	assert.Len(t, h.rec.Calls(), 2)
}

func TestInvalidLogLevel(t *testing.T) {
	h := newHarness(t)
	require.Error(t, h.run("--log-level", "loud", "ls"))
}

func TestFormatError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"not found", project.NotFoundError("api"), `perch: not found: project not found: "api"`},
		{"corrupt", fmt.Errorf("%w: /x: bad", registry.ErrDataCorrupt), "perch: corrupt registry: registry file corrupted: /x: bad"},
		{"io", fmt.Errorf("%w: disk full", registry.ErrIO), "perch: i/o error: registry io error: disk full"},
		{"clone before subprocess", &git.CloneError{URL: "u", Dir: "d", Err: process.ErrSubprocess}, "perch: clone failed: "},
		{"session failure", fmt.Errorf("%w: %w", registry.ErrIO, &process.SubprocessError{Command: process.Command{Name: "tmux"}, Err: errors.New("permission denied")}), "perch: i/o error: "},
		{"subprocess", &process.SubprocessError{Command: process.Command{Name: "tmux"}, Err: errors.New("boom")}, "perch: command failed: tmux: boom"},
		{"other", errors.New("boom"), "perch: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, strings.HasPrefix(formatError(tt.err), tt.want), "got %q", formatError(tt.err))
		})
	}
}
