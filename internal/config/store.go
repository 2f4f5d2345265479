// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/charmbracelet/log"
)

// ErrUnknownKey is returned by Store.Set for keys that do not exist.
var ErrUnknownKey = errors.New("unknown config key")

// Keys lists the settable keys in display order.
var Keys = []string{
	"pre_release_checked",
	"selected_game",
	"install_root",
	"log.level",
	"log.file",
	"self_update.check_interval",
	"github.token",
}

type (
	// Store holds the loaded settings and writes every change straight back
	// to disk.
	Store struct {
		mu     sync.Mutex
		path   string
		cfg    Config
		logger *log.Logger
	}

	// StoreOption configures a Store.
	StoreOption func(*Store)
)

// WithLogger sets the logger used for fallback warnings.
func WithLogger(l *log.Logger) StoreOption {
	return func(s *Store) {
		s.logger = l
	}
}

// Open loads settings for a Store. A missing file is created with the
// defaults. A file that cannot be parsed is left alone and the defaults are
// used, with a warning. Only a missing explicit ConfigFilePath is an error.
func Open(ctx context.Context, opts LoadOptions, storeOpts ...StoreOption) (*Store, error) {
	s := &Store{logger: log.New(io.Discard)}
	for _, opt := range storeOpts {
		opt(s)
	}

	path, err := ResolvePath(opts)
	if err != nil {
		return nil, err
	}
	s.path = path

	cfg, resolved, err := Load(ctx, opts)
	switch {
	case errors.Is(err, ErrConfigNotFound):
		return nil, err
	case err != nil:
		s.logger.Warn("using default settings", "path", path, "error", err)
		s.cfg = *DefaultConfig()
		return s, nil
	}
	s.cfg = *cfg

	if resolved == "" {
		if err := Save(path, &s.cfg); err != nil {
			s.logger.Warn("could not create config file", "path", path, "error", err)
		}
	}
	return s, nil
}

// Path returns the config file location.
func (s *Store) Path() string { return s.path }

// Config returns a copy of the current settings.
func (s *Store) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// PreReleaseChecked reports whether develop builds are listed.
func (s *Store) PreReleaseChecked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.PreReleaseChecked
}

// SetPreReleaseChecked persists the pre-release toggle.
func (s *Store) SetPreReleaseChecked(v bool) error {
	return s.update(func(c *Config) { c.PreReleaseChecked = v })
}

// SelectedGame returns the index of the selected game.
func (s *Store) SelectedGame() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.SelectedGame
}

// SetSelectedGame persists the selected game index.
func (s *Store) SetSelectedGame(i int) error {
	return s.update(func(c *Config) { c.SelectedGame = i })
}

// Set parses raw for key and persists it.
func (s *Store) Set(key, raw string) error {
	var apply func(*Config)
	switch key {
	case "pre_release_checked":
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		apply = func(c *Config) { c.PreReleaseChecked = b }
	case "selected_game":
		i, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		apply = func(c *Config) { c.SelectedGame = i }
	case "install_root":
		apply = func(c *Config) { c.InstallRoot = raw }
	case "log.level":
		apply = func(c *Config) { c.Log.Level = LogLevel(raw) }
	case "log.file":
		apply = func(c *Config) { c.Log.File = raw }
	case "self_update.check_interval":
		apply = func(c *Config) { c.SelfUpdate.CheckInterval = raw }
	case "github.token":
		apply = func(c *Config) { c.GitHub.Token = raw }
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return s.update(apply)
}

// update applies fn to a copy, validates it and writes it to disk before
// making it current.
func (s *Store) update(fn func(*Config)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cfg
	fn(&next)
	if err := next.Validate(); err != nil {
		return err
	}
	if err := Save(s.path, &next); err != nil {
		return err
	}
	s.cfg = next
	return nil
}
