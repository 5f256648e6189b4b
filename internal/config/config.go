// Package config provides configuration loading for perch.
//
// Configuration is built once at startup from defaults, an optional YAML
// file, PERCH_* environment variables and command line flags, then passed
// explicitly to the registry and the workspace activator.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/fyrsmithlabs/perch/internal/registry"
)

// Clone backends.
const (
	CloneBackendGit   = "git"
	CloneBackendGoGit = "go-git"
)

// Config holds the complete perch configuration.
type Config struct {
	Paths    PathsConfig    `koanf:"paths"`
	Session  SessionConfig  `koanf:"session"`
	Clone    CloneConfig    `koanf:"clone"`
	Terminal TerminalConfig `koanf:"terminal"`
	Links    LinksConfig    `koanf:"links"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// PathsConfig holds the filesystem roots.
type PathsConfig struct {
	// ProjectsRoot is where repositories are cloned (default: ~/Git).
	ProjectsRoot string `koanf:"projects_root"`

	// DataDir holds projects.json and per-project notes (default: ~/.perch).
	DataDir string `koanf:"data_dir"`
}

// SessionConfig holds tmux session settings.
type SessionConfig struct {
	Prefix    string `koanf:"prefix"`     // session name prefix (default: perch-)
	Editor    string `koanf:"editor"`     // editor opened on the notes file (default: nvim)
	PaneLines int    `koanf:"pane_lines"` // height of the secondary pane (default: 4)
	Socket    string `koanf:"socket"`     // tmux -S socket, empty for the user's default server
}

// CloneConfig holds clone settings.
type CloneConfig struct {
	Backend string `koanf:"backend"`  // git or go-git (default: git)
	SSHHost string `koanf:"ssh_host"` // host for owner/name shorthand (default: github.com)
}

// TerminalConfig controls handing `open` off to a new terminal window.
// When Command is empty perch always attaches in the current terminal.
type TerminalConfig struct {
	Command []string `koanf:"command"` // e.g. ["alacritty", "--command"]
	Term    string   `koanf:"term"`    // $TERM value meaning "already inside that terminal"
}

// LinksConfig holds the URL opener.
type LinksConfig struct {
	Opener string `koanf:"opener"` // default: xdg-open
}

// LoggingConfig holds log settings as strings so "trace" is accepted.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// RegistryPath returns the path of the registry document.
func (c *Config) RegistryPath() string {
	return filepath.Join(c.Paths.DataDir, registry.FileName)
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Paths.ProjectsRoot == "" {
		return fmt.Errorf("paths.projects_root is required")
	}
	if c.Paths.DataDir == "" {
		return fmt.Errorf("paths.data_dir is required")
	}
	if c.Session.Prefix == "" {
		return fmt.Errorf("session.prefix is required")
	}
	if c.Session.Editor == "" {
		return fmt.Errorf("session.editor is required")
	}
	if c.Session.PaneLines < 1 {
		return fmt.Errorf("session.pane_lines must be >= 1, got %d", c.Session.PaneLines)
	}
	switch c.Clone.Backend {
	case CloneBackendGit, CloneBackendGoGit:
	default:
		return fmt.Errorf("clone.backend must be %q or %q, got %q", CloneBackendGit, CloneBackendGoGit, c.Clone.Backend)
	}
	if c.Links.Opener == "" {
		return fmt.Errorf("links.opener is required")
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("logging.format must be 'json' or 'console', got %q", c.Logging.Format)
	}
	return nil
}
