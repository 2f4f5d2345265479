// SPDX-License-Identifier: MPL-2.0

package install

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/openlauncher/openlauncher/internal/asset"
	"github.com/openlauncher/openlauncher/internal/download"
	"github.com/openlauncher/openlauncher/internal/extract"
	"github.com/openlauncher/openlauncher/internal/progress"
	"github.com/openlauncher/openlauncher/internal/shell"
	"github.com/openlauncher/openlauncher/pkg/platform"
)

const (
	// BinDirName is the live binary directory under the install root.
	BinDirName = "bin"
	// MarkerFileName holds the installed version tag inside the binary directory.
	MarkerFileName = ".version"
	// BackupSuffix names the sibling the live directory is parked in.
	BackupSuffix = ".backup"
)

type (
	// Extractor materializes a downloaded file into a directory.
	Extractor interface {
		Extract(ctx context.Context, kind asset.Kind, src, dest string) error
	}

	// Engine installs, inspects and launches one target. It assumes a single
	// caller per install root; concurrent installs into the same directory
	// are not coordinated.
	Engine struct {
		shell      shell.Shell
		downloader download.Downloader
		extractor  Extractor
		host       platform.Host
		binaryName string
		binDir     string
		logger     *log.Logger
		observer   func(State)
	}

	// Option configures an Engine.
	Option func(*Engine)

	// operation is the per-call bookkeeping of one install.
	operation struct {
		state    State
		tempPath string
		logger   *log.Logger
		observer func(State)
	}
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

// WithExtractor replaces the default archive extractor.
func WithExtractor(x Extractor) Option {
	return func(e *Engine) {
		e.extractor = x
	}
}

// WithStateObserver registers fn to be called on every state change.
func WithStateObserver(fn func(State)) Option {
	return func(e *Engine) {
		e.observer = fn
	}
}

// New creates an Engine for the executable binaryName installed under
// installRoot/bin.
func New(sh shell.Shell, dl download.Downloader, installRoot, binaryName string, opts ...Option) *Engine {
	e := &Engine{
		shell:      sh,
		downloader: dl,
		host:       platform.DetectHost(),
		binaryName: binaryName,
		binDir:     filepath.Join(installRoot, BinDirName),
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.extractor == nil {
		e.extractor = extract.New(sh, binaryName, extract.WithHost(e.host), extract.WithLogger(e.logger))
	}
	return e
}

// BinDir returns the live binary directory.
func (e *Engine) BinDir() string { return e.binDir }

func (e *Engine) backupDir() string { return e.binDir + BackupSuffix }

func (e *Engine) markerPath() string { return filepath.Join(e.binDir, MarkerFileName) }

// ExecutablePath is the platform-specific executable inside the binary
// directory: <name>.exe on Windows, <name> elsewhere.
func (e *Engine) ExecutablePath() string {
	return filepath.Join(e.binDir, e.host.ExecutableName(e.binaryName))
}

// CurrentVersion returns the installed version tag. It reports false when
// the marker is missing, unreadable or empty.
func (e *Engine) CurrentVersion() (string, bool) {
	text, err := e.shell.ReadText(e.markerPath())
	if err != nil {
		return "", false
	}
	v := strings.TrimSpace(text)
	return v, v != ""
}

// CanLaunch reports whether the executable exists.
func (e *Engine) CanLaunch() bool {
	return e.shell.FileExists(e.ExecutablePath())
}

// Launch starts the installed executable detached from the launcher.
func (e *Engine) Launch() error {
	exe := e.ExecutablePath()
	if !e.CanLaunch() {
		return fmt.Errorf("%w: %s: %w", ErrLaunchFailed, exe, fs.ErrNotExist)
	}
	if err := e.shell.StartProcess(exe); err != nil {
		return fmt.Errorf("%w: %w", ErrLaunchFailed, err)
	}
	e.logger.Info("launched", "executable", exe)
	return nil
}

// Install downloads uri and installs it as version. Cancellation is honoured
// until the download completes; after that the install runs to a
// consistent end. On return the binary directory holds either the new
// version with its marker, the previous install untouched, or nothing if
// there was no previous install.
func (e *Engine) Install(ctx context.Context, version, uri string, sink progress.Sink) (err error) {
	sink = progress.OrDiscard(sink)
	op := &operation{
		state:    StateIdle,
		logger:   e.logger.With("op", uuid.New().String(), "version", version),
		observer: e.observer,
	}

	if err := e.Recover(); err != nil {
		return fmt.Errorf("%w: %w", ErrInstallFailed, err)
	}

	kind := asset.KindOf(assetFileName(uri))
	if kind == asset.KindUnknown {
		return fmt.Errorf("%w: %w: %s", ErrInstallFailed, extract.ErrUnsupportedFormat, assetFileName(uri))
	}

	if err := op.enter(StateDownloading); err != nil {
		return err
	}
	op.tempPath, err = e.downloader.Fetch(ctx, uri, sink)
	if err != nil {
		return op.fail(cancelled(err))
	}
	defer e.dropTemp(op)

	sink.Report(progress.Fraction(progress.StatusExtracting, 1))
	if ctxErr := ctx.Err(); ctxErr != nil {
		return op.fail(cancelled(ctxErr))
	}

	if err := op.enter(StateBackingUp); err != nil {
		return err
	}
	if e.shell.DirectoryExists(e.binDir) {
		if err := e.shell.MoveDirectory(e.binDir, e.backupDir()); err != nil {
			return op.fail(fmt.Errorf("%w: backing up %s: %w", ErrInstallFailed, e.binDir, err))
		}
	}

	// From here on the steps must run to completion, so cancellation is no
	// longer propagated.
	stepCtx := context.WithoutCancel(ctx)

	if err := op.enter(StateExtracting); err != nil {
		return e.restore(op, fmt.Errorf("%w: %w", ErrInstallFailed, err))
	}
	if err := e.extractor.Extract(stepCtx, kind, op.tempPath, e.binDir); err != nil {
		return e.restore(op, classifyExtract(err))
	}

	if err := op.enter(StateCommitting); err != nil {
		return e.restore(op, fmt.Errorf("%w: %w", ErrInstallFailed, err))
	}
	if err := e.shell.WriteText(e.markerPath(), version); err != nil {
		return e.restore(op, fmt.Errorf("%w: writing marker: %w", ErrInstallFailed, err))
	}

	// The marker makes the new version authoritative; a leftover backup is
	// removed by the next Recover.
	if err := e.shell.DeleteDirectory(e.backupDir()); err != nil {
		op.logger.Warn("failed to delete backup after commit", "dir", e.backupDir(), "error", err)
	}

	if err := op.enter(StateDone); err != nil {
		return err
	}
	op.logger.Info("installed", "dir", e.binDir)
	return nil
}

// Recover repairs a binary directory left behind by an interrupted install.
// A backup without a live directory is renamed back. When both exist, a
// live directory with a marker was committed and the backup is dropped;
// without a marker the live directory is partial and the backup replaces it.
func (e *Engine) Recover() error {
	backup := e.backupDir()
	if !e.shell.DirectoryExists(backup) {
		return nil
	}

	if e.shell.DirectoryExists(e.binDir) {
		if _, committed := e.CurrentVersion(); committed {
			e.logger.Warn("removing leftover backup of committed install", "dir", backup)
			return e.shell.DeleteDirectory(backup)
		}
		e.logger.Warn("discarding partial install", "dir", e.binDir)
		if err := e.shell.DeleteDirectory(e.binDir); err != nil {
			return err
		}
	}

	e.logger.Warn("restoring backup of interrupted install", "dir", backup)
	return e.shell.MoveDirectory(backup, e.binDir)
}

// restore undoes a failed extract or commit and returns the error the
// caller should see. cause is already mapped onto the error taxonomy.
func (e *Engine) restore(op *operation, cause error) error {
	if err := op.enter(StateRestoring); err != nil {
		return errors.Join(cause, err)
	}

	var restoreErr error
	if err := e.shell.DeleteDirectory(e.binDir); err != nil {
		restoreErr = err
	} else if e.shell.DirectoryExists(e.backupDir()) {
		restoreErr = e.shell.MoveDirectory(e.backupDir(), e.binDir)
	}

	if restoreErr != nil {
		op.logger.Error("restore failed, install directory is undefined", "dir", e.binDir, "error", restoreErr)
		return op.fail(&RestoreError{Cause: cause, RestoreErr: restoreErr})
	}
	op.logger.Debug("restored previous install", "cause", cause)
	return op.fail(cause)
}

// dropTemp removes the downloaded file. Failures are only logged.
func (e *Engine) dropTemp(op *operation) {
	if !e.shell.TryDeleteFile(op.tempPath) {
		op.logger.Warn("failed to delete temporary download", "path", op.tempPath)
	}
}

func (op *operation) enter(next State) error {
	if !op.state.CanTransition(next) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, op.state, next)
	}
	op.logger.Debug("install state", "from", op.state, "to", next)
	op.state = next
	if op.observer != nil {
		op.observer(next)
	}
	return nil
}

// fail moves the operation to StateFailed and returns err.
func (op *operation) fail(err error) error {
	if enterErr := op.enter(StateFailed); enterErr != nil {
		return errors.Join(err, enterErr)
	}
	return err
}

// classifyExtract maps an extraction failure onto the error taxonomy. Only
// extraction reports locked files as ErrExtractionAccessDenied.
func classifyExtract(err error) error {
	if extract.IsAccessDenied(err) {
		return fmt.Errorf("%w: %w", ErrExtractionAccessDenied, err)
	}
	return fmt.Errorf("%w: %w", ErrInstallFailed, err)
}

// cancelled tags context errors with ErrCancelled and passes others through.
func cancelled(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrCancelled, err)
	}
	return err
}

// assetFileName returns the last path element of uri, ignoring any query.
func assetFileName(uri string) string {
	if u, err := url.Parse(uri); err == nil && u.Path != "" {
		return path.Base(u.Path)
	}
	return filepath.Base(uri)
}
