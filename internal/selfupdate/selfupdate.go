// SPDX-License-Identifier: MPL-2.0

package selfupdate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/openlauncher/openlauncher/internal/asset"
	"github.com/openlauncher/openlauncher/internal/catalog"
	"github.com/openlauncher/openlauncher/internal/download"
	"github.com/openlauncher/openlauncher/internal/progress"
	"github.com/openlauncher/openlauncher/internal/shell"
	"github.com/openlauncher/openlauncher/pkg/platform"
)

// BackupSuffix names the sibling the running executable is renamed to.
const BackupSuffix = ".backup"

var (
	// ErrStaleBackupUndeletable is returned when a backup left by an earlier
	// update cannot be removed. Continuing would lose the rollback copy.
	ErrStaleBackupUndeletable = errors.New("failed to delete stale launcher backup")

	// ErrSelfUpdateAborted is returned when the new executable could not be
	// moved into place. The original executable has been put back.
	ErrSelfUpdateAborted = errors.New("unable to move downloaded file to current launcher location")

	// ErrSelfUpdateLaunchFailed is returned when the launcher was replaced but
	// the new process could not be started.
	ErrSelfUpdateLaunchFailed = errors.New("launcher updated, but failed to start")

	//nolint:gochecknoglobals // Test seam for os.Exit.
	exitProcess = os.Exit

	//nolint:gochecknoglobals // Test seam for os.Executable().
	osExecutable = os.Executable

	//nolint:gochecknoglobals // Test seam for filepath.EvalSymlinks().
	evalSymlinks = filepath.EvalSymlinks
)

type (
	// BuildResolver lists the builds of a target.
	BuildResolver interface {
		ResolveBuilds(ctx context.Context, target catalog.Target, includePrerelease bool) ([]catalog.Build, error)
	}

	// Update is the outcome of an update check.
	Update struct {
		Available     bool
		LatestVersion string
		DownloadURI   string
		Asset         asset.Asset
		Notes         string
	}

	// Engine checks for and applies launcher updates.
	Engine struct {
		builds     BuildResolver
		target     catalog.Target
		downloader download.Downloader
		shell      shell.Shell
		host       platform.Host
		logger     *log.Logger
	}

	// Option configures an Engine.
	Option func(*Engine)
)

// WithLogger sets the engine's logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithHost overrides the detected host descriptor.
func WithHost(h platform.Host) Option {
	return func(e *Engine) {
		e.host = h
	}
}

// New creates an Engine that reads the launcher's own releases from target.
func New(builds BuildResolver, target catalog.Target, dl download.Downloader, sh shell.Shell, opts ...Option) *Engine {
	e := &Engine{
		builds:     builds,
		target:     target,
		downloader: dl,
		shell:      sh,
		host:       platform.DetectHost(),
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CheckForUpdate compares the newest release of the launcher against
// current. It returns nil when there are no releases or none of the newest
// release's assets fits this host. Tags that are not dotted numeric
// versions are not comparable and report Available=false.
func (e *Engine) CheckForUpdate(ctx context.Context, current string) (*Update, error) {
	builds, err := e.builds.ResolveBuilds(ctx, e.target, false)
	if err != nil {
		return nil, err
	}
	if len(builds) == 0 {
		return nil, nil
	}

	latest := builds[0]
	chosen, ok := asset.Select(e.host, latest.Assets, false)
	if !ok {
		e.logger.Debug("newest release has no asset for this host", "version", latest.Version, "host", e.host)
		return nil, nil
	}

	u := &Update{
		Available:     catalog.IsNewer(latest.Version, current),
		LatestVersion: latest.Version,
		DownloadURI:   chosen.URI,
		Asset:         chosen,
		Notes:         latest.Notes,
	}
	e.logger.Debug("update check", "current", current, "latest", latest.Version, "available", u.Available)
	return u, nil
}

// ApplyUpdate replaces the executable at processPath with the download at
// uri, starts it and exits the current process with status 0. It only
// returns on failure. Whenever the swap fails the original executable is
// back at processPath.
func (e *Engine) ApplyUpdate(ctx context.Context, processPath, uri string, sink progress.Sink) error {
	backup := processPath + BackupSuffix

	if e.shell.FileExists(backup) {
		if err := e.shell.DeleteFile(backup); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrStaleBackupUndeletable, backup, err)
		}
	}

	downloaded, err := e.downloader.Fetch(ctx, uri, sink)
	if err != nil {
		return err
	}
	// After a successful swap the download no longer exists at this path.
	defer func() { _ = e.shell.TryDeleteFile(downloaded) }()

	if err := e.shell.CopyMode(processPath, downloaded); err != nil {
		e.logger.Warn("could not copy permissions to new executable", "error", err)
	}

	// Renaming a running executable works on every supported platform, unlike
	// deleting or overwriting it.
	if err := e.shell.MoveFile(processPath, backup); err != nil {
		return fmt.Errorf("%w: %w", ErrSelfUpdateAborted, err)
	}
	if err := e.shell.MoveFile(downloaded, processPath); err != nil {
		if undoErr := e.shell.MoveFile(backup, processPath); undoErr != nil {
			return fmt.Errorf("%w: %w (restoring original also failed: %w)", ErrSelfUpdateAborted, err, undoErr)
		}
		return fmt.Errorf("%w: %w", ErrSelfUpdateAborted, err)
	}
	e.logger.Info("launcher replaced", "path", processPath)

	if err := e.shell.StartProcess(processPath); err != nil {
		return fmt.Errorf("%w: %w", ErrSelfUpdateLaunchFailed, err)
	}
	exitProcess(0)
	return nil
}

// ResolveExecPath returns the absolute, symlink-resolved path of the running
// executable.
func ResolveExecPath() (string, error) {
	p, err := osExecutable()
	if err != nil {
		return "", fmt.Errorf("determining executable path: %w", err)
	}

	resolved, err := evalSymlinks(p)
	if err != nil {
		return "", fmt.Errorf("resolving symlinks for %s: %w", p, err)
	}

	return resolved, nil
}
