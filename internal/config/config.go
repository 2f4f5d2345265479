// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/openlauncher/openlauncher/internal/issue"
	"github.com/openlauncher/openlauncher/pkg/cueutil"
)

const (
	// AppName is the application name.
	AppName = "openlauncher"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"

	// TokenEnv overrides github.token when set.
	TokenEnv = "GITHUB_TOKEN"
)

// ErrConfigNotFound is returned when an explicitly named config file does
// not exist.
var ErrConfigNotFound = errors.New("config file not found")

var (
	//go:embed config_schema.cue
	configSchema []byte

	//nolint:gochecknoglobals // Test seam for os.LookupEnv.
	lookupEnv = os.LookupEnv
)

// LoadOptions defines explicit configuration loading inputs.
type LoadOptions struct {
	// ConfigFilePath forces loading from a specific config file when set.
	ConfigFilePath string
	// ConfigDirPath overrides the config directory lookup when set.
	ConfigDirPath string
}

// ConfigDir returns the openlauncher configuration directory using
// platform-specific conventions: Windows uses %APPDATA%, macOS uses
// ~/Library/Application Support, and others use $XDG_CONFIG_HOME
// (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// ResolvePath returns the config file the options select.
func ResolvePath(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		return opts.ConfigFilePath, nil
	}
	dir := opts.ConfigDirPath
	if dir == "" {
		var err error
		if dir, err = ConfigDir(); err != nil {
			return "", err
		}
	}
	return filepath.Join(dir, ConfigFileName+"."+ConfigFileExt), nil
}

// Load reads the config file selected by opts and merges it over the
// defaults. A missing file at the default location is not an error; a
// missing file named by ConfigFilePath is. The returned path is the file
// that was read, or "" when defaults were used.
func Load(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()
	defaults := DefaultConfig()
	v.SetDefault("pre_release_checked", defaults.PreReleaseChecked)
	v.SetDefault("selected_game", defaults.SelectedGame)
	v.SetDefault("install_root", defaults.InstallRoot)
	v.SetDefault("log.level", string(defaults.Log.Level))
	v.SetDefault("log.file", defaults.Log.File)
	v.SetDefault("self_update.check_interval", defaults.SelfUpdate.CheckInterval)
	v.SetDefault("github.token", defaults.GitHub.Token)

	path, err := ResolvePath(opts)
	if err != nil {
		return nil, "", err
	}

	resolved := ""
	switch _, statErr := os.Stat(path); {
	case statErr == nil:
		if err := loadCUEIntoViper(v, path); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithIssue(issue.ConfigLoadFailedId).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the values match the documented keys").
				Wrap(err).
				BuildError()
		}
		resolved = path
	case errors.Is(statErr, fs.ErrNotExist) && opts.ConfigFilePath == "":
	case errors.Is(statErr, fs.ErrNotExist):
		return nil, "", issue.NewErrorContext().
			WithOperation("load configuration").
			WithResource(path).
			WithIssue(issue.ConfigLoadFailedId).
			WithSuggestion("Verify the file path is correct").
			WithSuggestion("Run 'openlauncher config show' to see the default configuration").
			Wrap(fmt.Errorf("%w: %s", ErrConfigNotFound, path)).
			BuildError()
	default:
		return nil, "", issue.NewErrorContext().
			WithOperation("load configuration").
			WithResource(path).
			WithIssue(issue.ConfigLoadFailedId).
			WithSuggestion("Check that the file is readable").
			Wrap(statErr).
			BuildError()
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}

	return &cfg, resolved, nil
}

// loadCUEIntoViper validates the file against #Config and merges it into v.
// Fields are optional, so the document is decoded into a map instead of a
// struct and validated without requiring concrete values.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	schema, err := cueutil.CompileSchema(configSchema, "#Config")
	if err != nil {
		return fmt.Errorf("internal error: %w", err)
	}

	values, err := cueutil.Decode[map[string]any](schema, data,
		cueutil.WithFilename(path), cueutil.WithConcrete(false))
	if err != nil {
		return err
	}

	if err := v.MergeConfigMap(*values); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

// Save writes cfg as CUE to path, creating the directory if needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(GenerateCUE(cfg)), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Token returns the GitHub token, preferring $GITHUB_TOKEN.
func (c *Config) Token() string {
	if tok, ok := lookupEnv(TokenEnv); ok && tok != "" {
		return tok
	}
	return c.GitHub.Token
}

// GenerateCUE renders cfg as a config.cue document.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// OpenLauncher configuration\n\n")
	fmt.Fprintf(&sb, "pre_release_checked: %v\n", cfg.PreReleaseChecked)
	fmt.Fprintf(&sb, "selected_game: %d\n", cfg.SelectedGame)
	if cfg.InstallRoot != "" {
		fmt.Fprintf(&sb, "install_root: %q\n", cfg.InstallRoot)
	}

	sb.WriteString("\nlog: {\n")
	fmt.Fprintf(&sb, "\tlevel: %q\n", cfg.Log.Level)
	if cfg.Log.File != "" {
		fmt.Fprintf(&sb, "\tfile: %q\n", cfg.Log.File)
	}
	sb.WriteString("}\n")

	sb.WriteString("\nself_update: {\n")
	fmt.Fprintf(&sb, "\tcheck_interval: %q\n", cfg.SelfUpdate.CheckInterval)
	sb.WriteString("}\n")

	if cfg.GitHub.Token != "" {
		sb.WriteString("\ngithub: {\n")
		fmt.Fprintf(&sb, "\ttoken: %q\n", cfg.GitHub.Token)
		sb.WriteString("}\n")
	}

	return sb.String()
}
