// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// LogLevelDebug logs state transitions and requests.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo logs completed installs and updates.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn logs swallowed cleanup failures.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError logs failures only.
	LogLevelError LogLevel = "error"

	// DefaultCheckInterval is how often the launcher looks for its own updates.
	DefaultCheckInterval = 24 * time.Hour
)

var (
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// LogLevel is the minimum severity written to the log.
	LogLevel string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	// It wraps ErrInvalidLogLevel for errors.Is() compatibility.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// InvalidConfigError collects field-level validation errors.
	// It wraps ErrInvalidConfig for errors.Is() compatibility.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// LogConfig configures logging.
	LogConfig struct {
		Level LogLevel `json:"level" mapstructure:"level"`
		// File enables a size-rotated log file at this path.
		File string `json:"file,omitempty" mapstructure:"file"`
	}

	// SelfUpdateConfig configures automatic launcher update checks.
	SelfUpdateConfig struct {
		CheckInterval string `json:"check_interval" mapstructure:"check_interval"`
	}

	// GitHubConfig configures the release feed client.
	GitHubConfig struct {
		Token string `json:"token,omitempty" mapstructure:"token"`
	}

	// Config is the full set of launcher settings.
	Config struct {
		PreReleaseChecked bool             `json:"pre_release_checked" mapstructure:"pre_release_checked"`
		SelectedGame      int              `json:"selected_game" mapstructure:"selected_game"`
		InstallRoot       string           `json:"install_root,omitempty" mapstructure:"install_root"`
		Log               LogConfig        `json:"log" mapstructure:"log"`
		SelfUpdate        SelfUpdateConfig `json:"self_update" mapstructure:"self_update"`
		GitHub            GitHubConfig     `json:"github" mapstructure:"github"`
	}
)

// DefaultConfig returns the settings used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Log:        LogConfig{Level: LogLevelInfo},
		SelfUpdate: SelfUpdateConfig{CheckInterval: DefaultCheckInterval.String()},
	}
}

func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

// Validate returns nil for a known level.
func (l LogLevel) Validate() error {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return nil
	default:
		return &InvalidLogLevelError{Value: l}
	}
}

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string { return string(l) }

func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// Interval parses CheckInterval. An empty value yields DefaultCheckInterval.
func (s SelfUpdateConfig) Interval() (time.Duration, error) {
	if s.CheckInterval == "" {
		return DefaultCheckInterval, nil
	}
	d, err := time.ParseDuration(s.CheckInterval)
	if err != nil {
		return 0, fmt.Errorf("self_update.check_interval: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("self_update.check_interval: negative duration %s", d)
	}
	return d, nil
}

// Validate checks the constraints CUE does not express for values that
// were set programmatically.
func (c *Config) Validate() error {
	var errs []error
	if c.SelectedGame < 0 {
		errs = append(errs, fmt.Errorf("selected_game: must be >= 0, got %d", c.SelectedGame))
	}
	if err := c.Log.Level.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if _, err := c.SelfUpdate.Interval(); err != nil {
		errs = append(errs, err)
	}
	if strings.TrimSpace(c.InstallRoot) == "" && c.InstallRoot != "" {
		errs = append(errs, errors.New("install_root: must not be blank"))
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}
