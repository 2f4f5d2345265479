// SPDX-License-Identifier: MPL-2.0

package extract

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/klauspost/compress/zip"

	"github.com/openlauncher/openlauncher/pkg/platform"
)

// ErrEntryTooLarge is returned for a zip entry above the size cap. The
// entry is rejected rather than truncated.
var ErrEntryTooLarge = errors.New("archive entry too large")

// maxEntryBytes bounds a single decompressed zip entry (4 GB).
//
//nolint:gochecknoglobals // Test seam for the entry size cap.
var maxEntryBytes int64 = 4 << 30

// extractZip unpacks every entry of src under dest, overwriting existing
// files. Entries with absolute or parent-relative names are rejected, as
// are device names on a Windows host.
func (e *Extractor) extractZip(src, dest string) error {
	r, err := zip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("opening zip %s: %w", src, err)
	}
	defer func() { _ = r.Close() }() // read-only archive

	if err := e.shell.CreateDirectory(dest); err != nil {
		return err
	}

	for _, f := range r.File {
		if !filepath.IsLocal(filepath.FromSlash(f.Name)) {
			return fmt.Errorf("%w: %q", ErrUnsafePath, f.Name)
		}
		if e.host.Platform == platform.PlatformWindows && platform.HasReservedElement(f.Name) {
			return fmt.Errorf("%w: reserved name %q", ErrUnsafePath, f.Name)
		}
		target := filepath.Join(dest, filepath.FromSlash(f.Name))

		if f.FileInfo().IsDir() {
			if err := e.shell.CreateDirectory(target); err != nil {
				return err
			}
			continue
		}
		if err := e.writeZipEntry(f, target); err != nil {
			return err
		}
	}
	return nil
}

func (e *Extractor) writeZipEntry(f *zip.File, target string) (err error) {
	if f.UncompressedSize64 > uint64(maxEntryBytes) {
		return fmt.Errorf("%w: %s is %d bytes", ErrEntryTooLarge, f.Name, f.UncompressedSize64)
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("opening entry %s: %w", f.Name, err)
	}
	defer func() { _ = rc.Close() }() // read-only entry

	mode := f.Mode().Perm()
	if mode == 0 {
		mode = 0o644
	}
	out, err := e.shell.CreateFile(target, mode)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", target, closeErr)
		}
	}()

	// The header size can lie; one byte past the cap means the entry is
	// larger than declared.
	n, err := io.Copy(out, io.LimitReader(rc, maxEntryBytes+1))
	if err != nil {
		return fmt.Errorf("writing %s: %w", target, err)
	}
	if n > maxEntryBytes {
		return fmt.Errorf("%w: %s exceeds %d bytes", ErrEntryTooLarge, f.Name, maxEntryBytes)
	}
	return nil
}
