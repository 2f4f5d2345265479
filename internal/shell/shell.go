// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/charmbracelet/log"
)

// Shell is the capability set the engines need from the host.
type Shell interface {
	CreateDirectory(path string) error
	DirectoryExists(path string) bool
	FileExists(path string) bool
	// Entries lists the full paths of the direct children of dir, sorted.
	Entries(dir string) ([]string, error)
	MoveDirectory(src, dst string) error
	MoveFile(src, dst string) error
	// DeleteDirectory removes path recursively. A missing path is not an error.
	DeleteDirectory(path string) error
	DeleteFile(path string) error
	// TryDeleteFile removes path and reports whether it is gone afterwards.
	// It never fails.
	TryDeleteFile(path string) bool
	WriteText(path, text string) error
	ReadText(path string) (string, error)
	// CreateFile opens path for writing with perm, creating missing parent
	// directories and truncating an existing file.
	CreateFile(path string, perm fs.FileMode) (io.WriteCloser, error)
	// CopyMode gives dst the permission bits of src.
	CopyMode(src, dst string) error
	// RunProcess runs name with args to completion and returns its exit
	// status. err is non-nil only when the process could not be run.
	RunProcess(ctx context.Context, name string, args ...string) (int, error)
	// StartProcess starts name detached from the current process.
	StartProcess(name string, args ...string) error
}

type (
	// OS is the Shell backed by the real filesystem.
	OS struct {
		logger *log.Logger
	}

	// Option configures an OS shell.
	Option func(*OS)
)

var _ Shell = (*OS)(nil)

// WithLogger sets the logger for process diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(o *OS) {
		o.logger = l
	}
}

// New creates an OS shell.
func New(opts ...Option) *OS {
	o := &OS{logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (*OS) CreateDirectory(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", path, err)
	}
	return nil
}

func (*OS) DirectoryExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (*OS) FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func (*OS) Entries(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	slices.Sort(paths)
	return paths, nil
}

// MoveDirectory renames src to dst. It is a single rename so a crash leaves
// exactly one of the two paths in place; cross-device moves fail.
func (*OS) MoveDirectory(src, dst string) error {
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving directory %s to %s: %w", src, dst, err)
	}
	return nil
}

// MoveFile renames src to dst, falling back to copy and delete when the
// two paths live on different filesystems, e.g. a download in the system
// temp directory moved into an install directory.
func (*OS) MoveFile(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !isCrossDevice(err) {
		return fmt.Errorf("moving file %s to %s: %w", src, dst, err)
	}
	if err := copyFile(src, dst); err != nil {
		return fmt.Errorf("moving file %s to %s: %w", src, dst, err)
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("removing %s after copy: %w", src, err)
	}
	return nil
}

func (*OS) DeleteDirectory(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("deleting directory %s: %w", path, err)
	}
	return nil
}

func (*OS) DeleteFile(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("deleting file %s: %w", path, err)
	}
	return nil
}

func (*OS) TryDeleteFile(path string) bool {
	err := os.Remove(path)
	return err == nil || errors.Is(err, fs.ErrNotExist)
}

func (*OS) WriteText(path, text string) error {
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func (*OS) ReadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

func (*OS) CreateFile(path string, perm fs.FileMode) (io.WriteCloser, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating directory %s: %w", filepath.Dir(path), err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	return f, nil
}

func (*OS) CopyMode(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("reading mode of %s: %w", src, err)
	}
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return fmt.Errorf("changing mode of %s: %w", dst, err)
	}
	return nil
}

// copyFile copies src to dst preserving the permission bits.
func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }() // read-only handle

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	_, err = io.Copy(out, in)
	return err
}
