// SPDX-License-Identifier: MPL-2.0

// Package download streams release assets to temporary files while
// reporting progress and honouring cancellation between reads.
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/openlauncher/openlauncher/internal/progress"
)

// chunkSize is the read granularity; cancellation is observed between chunks.
const chunkSize = 4096

type (
	// AssetOpener starts a download and returns the body with its declared
	// length, or a negative length when unknown.
	AssetOpener interface {
		DownloadAsset(ctx context.Context, uri string) (io.ReadCloser, int64, error)
	}

	// Downloader fetches uri into a local temporary file and returns its
	// path. The caller owns the returned file.
	Downloader interface {
		Fetch(ctx context.Context, uri string, sink progress.Sink) (string, error)
	}

	// HTTPDownloader implements Downloader on top of an AssetOpener.
	HTTPDownloader struct {
		opener  AssetOpener
		tempDir string
		pattern string
		logger  *log.Logger
	}

	// Option configures an HTTPDownloader during construction.
	Option func(*HTTPDownloader)
)

var _ Downloader = (*HTTPDownloader)(nil)

// WithTempDir places downloads in dir instead of os.TempDir. Self-update
// uses the executable's directory so the final rename stays on one
// filesystem.
func WithTempDir(dir string) Option {
	return func(d *HTTPDownloader) {
		d.tempDir = dir
	}
}

// WithLogger sets the logger used for cleanup diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(d *HTTPDownloader) {
		d.logger = l
	}
}

// New creates an HTTPDownloader reading from opener.
func New(opener AssetOpener, opts ...Option) *HTTPDownloader {
	d := &HTTPDownloader{
		opener:  opener,
		pattern: "openlauncher-download-*",
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Fetch downloads uri to a temp file. It reports Downloading progress as a
// fraction of the declared length, or indeterminate when there is none, and
// a final full bar on success. On cancellation or any error the partial
// file is removed and ctx.Err() or the read error is returned.
func (d *HTTPDownloader) Fetch(ctx context.Context, uri string, sink progress.Sink) (_ string, err error) {
	sink = progress.OrDiscard(sink)
	sink.Report(progress.Fraction(progress.StatusDownloading, 0))

	if err := ctx.Err(); err != nil {
		return "", err
	}

	body, total, err := d.opener.DownloadAsset(ctx, uri)
	if err != nil {
		return "", err
	}
	defer func() { _ = body.Close() }() // read-only response body

	tmp, err := os.CreateTemp(d.tempDir, d.pattern)
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		if closeErr := tmp.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing temp file: %w", closeErr)
		}
		if err != nil {
			if rmErr := os.Remove(tmp.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				d.logger.Warn("failed to remove partial download", "path", tmp.Name(), "error", rmErr)
			}
		}
	}()

	if err := copyWithProgress(ctx, tmp, body, total, sink); err != nil {
		return "", err
	}

	sink.Report(progress.Fraction(progress.StatusDownloading, 1))
	d.logger.Debug("download complete", "path", tmp.Name(), "bytes", total)
	return tmp.Name(), nil
}

// copyWithProgress copies src to dst in chunkSize reads, checking ctx
// before each read.
func copyWithProgress(ctx context.Context, dst io.Writer, src io.Reader, total int64, sink progress.Sink) error {
	buf := make([]byte, chunkSize)
	var read int64
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, readErr := src.Read(buf)
		if n > 0 {
			if _, err := dst.Write(buf[:n]); err != nil {
				return fmt.Errorf("writing to temp file: %w", err)
			}
			read += int64(n)
			if total > 0 {
				sink.Report(progress.Fraction(progress.StatusDownloading, min(float64(read)/float64(total), 1)))
			} else {
				sink.Report(progress.Unknown(progress.StatusDownloading))
			}
		}
		if errors.Is(readErr, io.EOF) {
			return nil
		}
		if readErr != nil {
			return fmt.Errorf("reading response body: %w", readErr)
		}
	}
}
