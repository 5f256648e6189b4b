package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	maxConfigFileSize = 1024 * 1024 // 1MB

	envPrefix = "PERCH_"
)

// Overrides carries values from command line flags. Empty fields are
// ignored.
type Overrides struct {
	ProjectsRoot string
	DataDir      string
	LogLevel     string
	LogFormat    string
}

// Options controls where Load looks for its inputs.
type Options struct {
	// ConfigPath is the YAML file to load. Empty uses
	// ~/.config/perch/config.yaml. A missing file is not an error.
	ConfigPath string

	// Home is the user's home directory. Empty uses os.UserHomeDir.
	Home string

	Overrides Overrides
}

// Load builds the configuration.
//
// Configuration precedence (highest to lowest):
//  1. Flags (Overrides)
//  2. Environment variables (PERCH_PATHS_PROJECTS_ROOT, PERCH_SESSION_EDITOR, ...)
//  3. YAML config file (~/.config/perch/config.yaml)
//  4. Hardcoded defaults
//
// # Environment Variable Mapping
//
// The prefix is stripped and the remainder is split on the first
// underscore into section and field:
//
//	PERCH_PATHS_PROJECTS_ROOT -> paths.projects_root
//	PERCH_SESSION_PANE_LINES  -> session.pane_lines
//	PERCH_CLONE_BACKEND       -> clone.backend
//
// Paths starting with "~" are expanded against the home directory.
func Load(opts Options) (*Config, error) {
	k := koanf.New(".")

	home := opts.Home
	if home == "" {
		h, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		home = h
	}

	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = DefaultConfigPath(home)
	}
	configPath = expandHome(configPath, home)

	content, err := readConfigFile(configPath)
	if err != nil {
		return nil, err
	}
	if content != nil {
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyOverrides(&cfg, opts.Overrides)
	applyDefaults(&cfg, home)

	cfg.Paths.ProjectsRoot = expandHome(cfg.Paths.ProjectsRoot, home)
	cfg.Paths.DataDir = expandHome(cfg.Paths.DataDir, home)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// DefaultConfigPath returns ~/.config/perch/config.yaml for home.
func DefaultConfigPath(home string) string {
	return filepath.Join(home, ".config", "perch", "config.yaml")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir(cfg *Config) error {
	if err := os.MkdirAll(cfg.Paths.DataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory %s: %w", cfg.Paths.DataDir, err)
	}
	return nil
}

// envKey maps PERCH_SECTION_FIELD_NAME to section.field_name.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	section, field, ok := strings.Cut(lower, "_")
	if !ok {
		return lower
	}
	return section + "." + field
}

// readConfigFile returns nil content when the file does not exist.
func readConfigFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("config path %s is a directory", path)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}

func applyOverrides(cfg *Config, o Overrides) {
	if o.ProjectsRoot != "" {
		cfg.Paths.ProjectsRoot = o.ProjectsRoot
	}
	if o.DataDir != "" {
		cfg.Paths.DataDir = o.DataDir
	}
	if o.LogLevel != "" {
		cfg.Logging.Level = o.LogLevel
	}
	if o.LogFormat != "" {
		cfg.Logging.Format = o.LogFormat
	}
}

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config, home string) {
	if cfg.Paths.ProjectsRoot == "" {
		cfg.Paths.ProjectsRoot = filepath.Join(home, "Git")
	}
	if cfg.Paths.DataDir == "" {
		cfg.Paths.DataDir = filepath.Join(home, ".perch")
	}

	if cfg.Session.Prefix == "" {
		cfg.Session.Prefix = "perch-"
	}
	if cfg.Session.Editor == "" {
		cfg.Session.Editor = "nvim"
	}
	if cfg.Session.PaneLines == 0 {
		cfg.Session.PaneLines = 4
	}

	if cfg.Clone.Backend == "" {
		cfg.Clone.Backend = CloneBackendGit
	}
	if cfg.Clone.SSHHost == "" {
		cfg.Clone.SSHHost = "github.com"
	}

	if cfg.Links.Opener == "" {
		cfg.Links.Opener = "xdg-open"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "warn"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
	cfg.Logging.Level = strings.ToLower(cfg.Logging.Level)
	cfg.Logging.Format = strings.ToLower(cfg.Logging.Format)

	// PERCH_TERMINAL_COMMAND arrives as one string.
	if len(cfg.Terminal.Command) == 1 {
		cfg.Terminal.Command = strings.Fields(cfg.Terminal.Command[0])
	}
}

func expandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
