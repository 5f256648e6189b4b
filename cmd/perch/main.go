// Perch is a personal workspace launcher.
//
// It keeps a registry of named projects (a git repository plus a local
// folder) and opens any of them as a tmux session: cloning the repository
// when the folder is missing, seeding a notes file, and starting the
// editor on it.
//
// Usage:
//
//	# Register a project and open it
//	perch add fyrsmithlabs/perch --tags go --tags cli
//	perch open perch
//
//	# List projects in picker format, for fzf or rofi
//	perch ls --picker | fzf | xargs -I{} perch open --picker {}
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/perch/internal/config"
	"github.com/fyrsmithlabs/perch/internal/logging"
	"github.com/fyrsmithlabs/perch/internal/process"
	"github.com/fyrsmithlabs/perch/internal/registry"
	"github.com/fyrsmithlabs/perch/internal/tmux"
	"github.com/fyrsmithlabs/perch/internal/workspace"
	"github.com/fyrsmithlabs/perch/pkg/git"
)

// Version information (set via ldflags during build)
var version = "dev"

var (
	// configPath is the YAML config file; empty uses the default location
	configPath string
	// projectsRoot overrides paths.projects_root
	projectsRoot string
	// dataDir overrides paths.data_dir
	dataDir string
	// logLevel overrides logging.level
	logLevel string
	// logFormat overrides logging.format
	logFormat string
)

// Process hooks, replaced in tests.
var (
	homeDir        = ""
	newLauncher    = func(logger *logging.Logger) process.Launcher { return process.NewOSLauncher(logger) }
	writeClipboard = clipboard.WriteAll
	executable     = os.Executable
	getenv         = os.Getenv
)

// app holds the collaborators built from configuration for one invocation.
var app *perchApp

type perchApp struct {
	cfg       *config.Config
	logger    *logging.Logger
	store     *registry.Store
	launcher  process.Launcher
	activator *workspace.Activator
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, formatError(err))
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "perch",
	Short: "Open project workspaces in tmux",
	Long: `perch keeps a registry of projects and opens each one as a tmux
session rooted at its working copy, cloning the repository on first use.

Configuration is read from ~/.config/perch/config.yaml, then PERCH_*
environment variables, then command line flags.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		app = a
		return nil
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		if app != nil {
			_ = app.logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&projectsRoot, "projects", "p", "", "root directory holding project working copies")
	rootCmd.PersistentFlags().StringVarP(&dataDir, "directory", "d", "", "data directory holding the registry and notes")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/perch/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: console or json")
}

// newApp loads configuration and wires the registry, launcher, tmux server
// and activator.
func newApp(cmd *cobra.Command) (*perchApp, error) {
	cfg, err := config.Load(config.Options{
		ConfigPath: configPath,
		Home:       homeDir,
		Overrides: config.Overrides{
			ProjectsRoot: projectsRoot,
			DataDir:      dataDir,
			LogLevel:     logLevel,
			LogFormat:    logFormat,
		},
	})
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg, cmd)
	if err != nil {
		return nil, err
	}

	if err := config.EnsureDataDir(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", registry.ErrIO, err)
	}

	store := registry.NewStore(cfg.RegistryPath(), logger)
	launcher := newLauncher(logger)
	sessions := tmux.NewServer(cfg.Session.Socket, launcher)

	var cloner git.Cloner = &git.ExecCloner{Launcher: launcher}
	if cfg.Clone.Backend == config.CloneBackendGoGit {
		cloner = git.GoGitCloner{}
	}

	logger.Debug(context.Background(), "configuration loaded")

	return &perchApp{
		cfg:       cfg,
		logger:    logger,
		store:     store,
		launcher:  launcher,
		activator: workspace.NewActivator(cfg, store, cloner, sessions, launcher, logger),
	}, nil
}

func newLogger(cfg *config.Config, cmd *cobra.Command) (*logging.Logger, error) {
	level, err := logging.LevelFromString(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	logCfg := logging.NewDefaultConfig()
	logCfg.Level = level
	logCfg.Format = cfg.Logging.Format
	return logging.NewLogger(logCfg, cmd.ErrOrStderr())
}
