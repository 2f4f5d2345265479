// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/openlauncher/openlauncher/internal/catalog"
	"github.com/openlauncher/openlauncher/internal/clock"
	"github.com/openlauncher/openlauncher/internal/config"
	"github.com/openlauncher/openlauncher/internal/download"
	"github.com/openlauncher/openlauncher/internal/game"
	"github.com/openlauncher/openlauncher/internal/github"
	"github.com/openlauncher/openlauncher/internal/install"
	"github.com/openlauncher/openlauncher/internal/logging"
	"github.com/openlauncher/openlauncher/internal/shell"
	"github.com/openlauncher/openlauncher/pkg/platform"
)

// selfRepository is where the launcher's own releases are published.
var selfRepository = catalog.Repository{Owner: "openlauncher", Name: "openlauncher"} //nolint:gochecknoglobals // Fixed release feed of the launcher itself.

// app is the wiring shared by every subcommand of one invocation.
type app struct {
	store   *config.Store
	games   *game.Registry
	client  *github.Client
	catalog *catalog.Catalog
	shell   *shell.OS
	host    platform.Host
	clock   clock.Clock
	logger  *log.Logger
	closer  io.Closer
}

// newApp loads settings and builds the clients. Settings problems other
// than a missing --config file only produce a warning.
func newApp(ctx context.Context, opts *rootOptions, stderr io.Writer) (*app, error) {
	bootLogger := log.NewWithOptions(stderr, log.Options{Level: log.WarnLevel})
	store, err := config.Open(ctx, config.LoadOptions{ConfigFilePath: opts.configPath}, config.WithLogger(bootLogger))
	if err != nil {
		return nil, err
	}
	cfg := store.Config()

	level := string(cfg.Log.Level)
	if opts.verbose {
		level = string(config.LogLevelDebug)
	}
	logger, closer, err := logging.New(logging.Options{Level: level, File: cfg.Log.File, Stderr: stderr})
	if err != nil {
		return nil, err
	}

	games, err := game.Builtin()
	if err != nil {
		_ = closer.Close()
		return nil, err
	}

	clientOpts := []github.ClientOption{github.WithUserAgent("openlauncher/" + Version)}
	if token := cfg.Token(); token != "" {
		clientOpts = append(clientOpts, github.WithToken(token))
	}
	if opts.apiURL != "" {
		clientOpts = append(clientOpts, github.WithBaseURL(opts.apiURL))
	}
	client := github.NewClient(clientOpts...)

	return &app{
		store:   store,
		games:   games,
		client:  client,
		catalog: catalog.New(client, catalog.WithLogger(logger)),
		shell:   shell.New(shell.WithLogger(logger)),
		host:    platform.DetectHost(),
		clock:   clock.Real{},
		logger:  logger,
		closer:  closer,
	}, nil
}

// Close flushes the log file.
func (a *app) Close() {
	if err := a.closer.Close(); err != nil {
		a.logger.Warn("closing log file", "error", err)
	}
}

// selectGame resolves the --game flag, falling back to the persisted
// selection and then to the first game.
func (a *app) selectGame(key string) (game.Game, int, error) {
	if key != "" {
		return a.games.Lookup(key)
	}
	i := a.store.SelectedGame()
	if i < 0 || i >= a.games.Len() {
		i = 0
	}
	g, err := a.games.At(i)
	return g, i, err
}

// engineFor builds the install engine of g.
func (a *app) engineFor(g game.Game) (*install.Engine, error) {
	root, err := g.InstallRoot(a.store.Config().InstallRoot)
	if err != nil {
		return nil, err
	}
	dl := download.New(a.client, download.WithLogger(a.logger))
	engine := install.New(a.shell, dl, root, g.Binary,
		install.WithLogger(a.logger.With("game", g.Name)),
		install.WithHost(a.host),
	)
	return engine, nil
}

// repair puts back whatever an interrupted install of g left behind. It
// runs before anything reads or replaces the binary directory.
func (a *app) repair(g game.Game, engine *install.Engine) {
	if err := engine.Recover(); err != nil {
		a.logger.Warn("could not repair interrupted install", "game", g.Name, "error", err)
	}
}

// selfTarget is the release feed the launcher updates itself from.
func selfTarget() catalog.Target {
	return catalog.Target{Name: "openlauncher", Release: selfRepository}
}

// selfDownloader downloads next to the running executable so the final
// rename does not cross filesystems.
func (a *app) selfDownloader(execPath string) download.Downloader {
	return download.New(a.client, download.WithTempDir(filepath.Dir(execPath)), download.WithLogger(a.logger))
}
