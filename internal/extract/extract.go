// SPDX-License-Identifier: MPL-2.0

package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/openlauncher/openlauncher/internal/asset"
	"github.com/openlauncher/openlauncher/internal/shell"
	"github.com/openlauncher/openlauncher/pkg/platform"
)

// flattenSuffix names the sibling a wrapped tarball is parked in while its
// single inner folder is moved up.
const flattenSuffix = "-temp"

var (
	// ErrUnsupportedFormat is returned for any archive kind the extractor
	// does not know how to materialize.
	ErrUnsupportedFormat = errors.New("unsupported archive format")

	// ErrPermissionDenied is returned when an extracted executable cannot be
	// marked executable.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrExtractFailed is returned when the external tar exits non-zero.
	ErrExtractFailed = errors.New("extraction failed")

	// ErrUnsafePath is returned for archive entries that would land outside
	// the destination directory.
	ErrUnsafePath = errors.New("archive entry escapes destination")
)

type (
	// Extractor unpacks assets for one target binary.
	Extractor struct {
		shell      shell.Shell
		host       platform.Host
		binaryName string
		logger     *log.Logger
	}

	// Option configures an Extractor.
	Option func(*Extractor)
)

// WithHost overrides the detected host, which decides the AppImage file
// name and whether chmod runs.
func WithHost(h platform.Host) Option {
	return func(e *Extractor) {
		e.host = h
	}
}

// WithLogger sets the extractor's logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Extractor) {
		e.logger = l
	}
}

// New creates an Extractor. binaryName is the canonical executable name
// without any platform suffix, e.g. "openrct2".
func New(sh shell.Shell, binaryName string, opts ...Option) *Extractor {
	e := &Extractor{
		shell:      sh,
		host:       platform.DetectHost(),
		binaryName: binaryName,
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract materializes src into dest according to kind. dest is expected
// to be absent or empty.
func (e *Extractor) Extract(ctx context.Context, kind asset.Kind, src, dest string) error {
	e.logger.Debug("extracting", "kind", kind, "src", src, "dest", dest)

	switch kind {
	case asset.KindZip:
		return e.extractZip(src, dest)
	case asset.KindAppImage:
		return e.extractAppImage(ctx, src, dest)
	case asset.KindTarGz:
		return e.extractTarGz(ctx, src, dest)
	case asset.KindUnknown:
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(src))
}

// extractAppImage moves the image itself into dest under the binary name
// and marks it executable on non-Windows hosts.
func (e *Extractor) extractAppImage(ctx context.Context, src, dest string) error {
	if err := e.shell.CreateDirectory(dest); err != nil {
		return err
	}

	target := filepath.Join(dest, e.host.ExecutableName(e.binaryName))
	if err := e.shell.MoveFile(src, target); err != nil {
		return err
	}

	if e.host.Platform == platform.PlatformWindows {
		return nil
	}
	code, err := e.shell.RunProcess(ctx, "chmod", "+x", target)
	if err != nil {
		return fmt.Errorf("%w: chmod %s: %w", ErrPermissionDenied, target, err)
	}
	if code != 0 {
		return fmt.Errorf("%w: chmod %s exited with status %d", ErrPermissionDenied, target, code)
	}
	return nil
}

// extractTarGz runs the host tar into dest. When the archive holds exactly
// one top-level directory, that directory's contents replace dest.
func (e *Extractor) extractTarGz(ctx context.Context, src, dest string) error {
	if err := e.shell.CreateDirectory(dest); err != nil {
		return err
	}

	code, err := e.shell.RunProcess(ctx, "tar", "-C", dest, "-xf", src)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExtractFailed, err)
	}
	if code != 0 {
		return fmt.Errorf("%w: tar exited with status %d", ErrExtractFailed, code)
	}

	entries, err := e.shell.Entries(dest)
	if err != nil {
		return err
	}
	if len(entries) != 1 || !e.shell.DirectoryExists(entries[0]) {
		return nil
	}
	return e.flatten(dest, filepath.Base(entries[0]))
}

// flatten replaces dest with its only child directory inner.
func (e *Extractor) flatten(dest, inner string) error {
	temp := dest + flattenSuffix
	e.logger.Debug("flattening single top-level folder", "folder", inner)

	if err := e.shell.DeleteDirectory(temp); err != nil {
		return err
	}
	if err := e.shell.MoveDirectory(dest, temp); err != nil {
		return err
	}
	if err := e.shell.MoveDirectory(filepath.Join(temp, inner), dest); err != nil {
		return err
	}
	return e.shell.DeleteDirectory(temp)
}
