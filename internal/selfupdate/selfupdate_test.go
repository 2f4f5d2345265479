// SPDX-License-Identifier: MPL-2.0

package selfupdate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/openlauncher/openlauncher/internal/asset"
	"github.com/openlauncher/openlauncher/internal/catalog"
	"github.com/openlauncher/openlauncher/internal/progress"
	"github.com/openlauncher/openlauncher/internal/shell"
	"github.com/openlauncher/openlauncher/pkg/platform"
)

var (
	linuxHost = platform.HostFor("linux", "amd64")

	selfTarget = catalog.Target{
		Name:    "OpenLauncher",
		Release: catalog.Repository{Owner: "openlauncher", Name: "openlauncher"},
	}
)

type staticBuilds struct {
	builds []catalog.Build
	err    error
}

func (s staticBuilds) ResolveBuilds(context.Context, catalog.Target, bool) ([]catalog.Build, error) {
	return s.builds, s.err
}

// fileDownloader writes fixed content to a temp file in dir.
type fileDownloader struct {
	dir     string
	content []byte
	err     error
	path    string
}

func (f *fileDownloader) Fetch(_ context.Context, _ string, sink progress.Sink) (string, error) {
	sink.Report(progress.Fraction(progress.StatusDownloading, 0))
	if f.err != nil {
		return "", f.err
	}
	tmp, err := os.CreateTemp(f.dir, "openlauncher-download-*")
	if err != nil {
		return "", err
	}
	defer tmp.Close()
	if _, err := tmp.Write(f.content); err != nil {
		return "", err
	}
	f.path = tmp.Name()
	sink.Report(progress.Fraction(progress.StatusDownloading, 1))
	return f.path, nil
}

// swapShell fails selected moves and records started processes.
type swapShell struct {
	*shell.OS
	failMoveFrom map[string]error
	failDelete   error
	startErr     error
	started      []string
}

func (s *swapShell) MoveFile(src, dst string) error {
	if err, ok := s.failMoveFrom[src]; ok {
		return err
	}
	return s.OS.MoveFile(src, dst)
}

func (s *swapShell) DeleteFile(path string) error {
	if s.failDelete != nil {
		return s.failDelete
	}
	return s.OS.DeleteFile(path)
}

func (s *swapShell) StartProcess(name string, _ ...string) error {
	s.started = append(s.started, name)
	return s.startErr
}

// overrideExitProcess records exit codes instead of exiting.
func overrideExitProcess(t *testing.T) *[]int {
	t.Helper()

	var codes []int
	orig := exitProcess
	t.Cleanup(func() { exitProcess = orig })
	exitProcess = func(code int) { codes = append(codes, code) }
	return &codes
}

// overrideExecSeams makes ResolveExecPath see path. Cleanup is registered
// automatically.
func overrideExecSeams(t *testing.T, path string) {
	t.Helper()

	origExec := osExecutable
	origSymlinks := evalSymlinks
	t.Cleanup(func() {
		osExecutable = origExec
		evalSymlinks = origSymlinks
	})

	osExecutable = func() (string, error) { return path, nil }
	evalSymlinks = func(p string) (string, error) { return p, nil }
}

func launcherBuild(version string, names ...string) catalog.Build {
	b := catalog.Build{
		IsRelease:   true,
		Version:     version,
		PublishedAt: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, n := range names {
		b.Assets = append(b.Assets, asset.Asset{Name: n, URI: "https://example.com/" + n})
	}
	return b
}

func TestCheckForUpdate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		builds        []catalog.Build
		current       string
		wantNil       bool
		wantAvailable bool
		wantURI       string
	}{
		{
			name:          "newer release",
			builds:        []catalog.Build{launcherBuild("v1.1.0", "openlauncher-linux-x64", "openlauncher-windows-x64.exe")},
			current:       "1.0.0",
			wantAvailable: true,
			wantURI:       "https://example.com/openlauncher-linux-x64",
		},
		{
			name:    "same version",
			builds:  []catalog.Build{launcherBuild("v1.0.0", "openlauncher-linux-x64")},
			current: "1.0.0",
			wantURI: "https://example.com/openlauncher-linux-x64",
		},
		{
			name:    "older release",
			builds:  []catalog.Build{launcherBuild("v0.9.0", "openlauncher-linux-x64")},
			current: "1.0.0",
			wantURI: "https://example.com/openlauncher-linux-x64",
		},
		{
			name:    "development build cannot compare",
			builds:  []catalog.Build{launcherBuild("v1.1.0", "openlauncher-linux-x64")},
			current: "dev",
			wantURI: "https://example.com/openlauncher-linux-x64",
		},
		{
			name:    "no releases",
			current: "1.0.0",
			wantNil: true,
		},
		{
			name:    "no asset for host",
			builds:  []catalog.Build{launcherBuild("v1.1.0", "openlauncher-windows-x64.exe", "openlauncher-macos.zip")},
			current: "1.0.0",
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := New(staticBuilds{builds: tt.builds}, selfTarget, &fileDownloader{}, shell.New(), WithHost(linuxHost))
			u, err := e.CheckForUpdate(context.Background(), tt.current)
			if err != nil {
				t.Fatalf("CheckForUpdate() error = %v", err)
			}
			if tt.wantNil {
				if u != nil {
					t.Fatalf("CheckForUpdate() = %+v, want nil", u)
				}
				return
			}
			if u == nil {
				t.Fatal("CheckForUpdate() = nil")
			}
			if u.Available != tt.wantAvailable {
				t.Errorf("Available = %v, want %v", u.Available, tt.wantAvailable)
			}
			if u.DownloadURI != tt.wantURI {
				t.Errorf("DownloadURI = %q, want %q", u.DownloadURI, tt.wantURI)
			}
			if u.LatestVersion != tt.builds[0].Version {
				t.Errorf("LatestVersion = %q, want %q", u.LatestVersion, tt.builds[0].Version)
			}
		})
	}
}

func TestCheckForUpdate_SourceError(t *testing.T) {
	t.Parallel()

	cause := fmt.Errorf("%w: boom", catalog.ErrSourceUnavailable)
	e := New(staticBuilds{err: cause}, selfTarget, &fileDownloader{}, shell.New(), WithHost(linuxHost))

	if _, err := e.CheckForUpdate(context.Background(), "1.0.0"); !errors.Is(err, catalog.ErrSourceUnavailable) {
		t.Fatalf("CheckForUpdate() error = %v, want ErrSourceUnavailable", err)
	}
}

// updateFixture lays out a fake running launcher in a temp dir.
type updateFixture struct {
	exe string
	dl  *fileDownloader
	sh  *swapShell
}

func newUpdateFixture(t *testing.T) *updateFixture {
	t.Helper()

	dir := t.TempDir()
	exe := filepath.Join(dir, "openlauncher")
	if err := os.WriteFile(exe, []byte("old"), 0o755); err != nil {
		t.Fatal(err)
	}
	return &updateFixture{
		exe: exe,
		dl:  &fileDownloader{dir: t.TempDir(), content: []byte("new")},
		sh:  &swapShell{OS: shell.New(), failMoveFrom: map[string]error{}},
	}
}

func (f *updateFixture) engine() *Engine {
	return New(staticBuilds{}, selfTarget, f.dl, f.sh, WithHost(linuxHost))
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

func TestApplyUpdate_Success(t *testing.T) {
	// Not parallel: mutates package-level exitProcess.
	codes := overrideExitProcess(t)
	f := newUpdateFixture(t)
	if err := os.WriteFile(f.exe+BackupSuffix, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	var reports []progress.Report
	sink := progress.SinkFunc(func(r progress.Report) { reports = append(reports, r) })

	if err := f.engine().ApplyUpdate(context.Background(), f.exe, "https://example.com/openlauncher-linux-x64", sink); err != nil {
		t.Fatalf("ApplyUpdate() error = %v", err)
	}

	if got := readFile(t, f.exe); got != "new" {
		t.Errorf("executable = %q, want %q", got, "new")
	}
	if got := readFile(t, f.exe+BackupSuffix); got != "old" {
		t.Errorf("backup = %q, want %q", got, "old")
	}
	if len(f.sh.started) != 1 || f.sh.started[0] != f.exe {
		t.Errorf("started = %v, want [%s]", f.sh.started, f.exe)
	}
	if len(*codes) != 1 || (*codes)[0] != 0 {
		t.Errorf("exit codes = %v, want [0]", *codes)
	}
	if len(reports) == 0 {
		t.Error("no progress reported")
	}

	info, err := os.Stat(f.exe)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm()&0o100 == 0 {
		t.Errorf("new executable mode = %v, want owner-executable", info.Mode())
	}
}

func TestApplyUpdate_StaleBackupUndeletable(t *testing.T) {
	// Not parallel: mutates package-level exitProcess.
	codes := overrideExitProcess(t)
	f := newUpdateFixture(t)
	if err := os.WriteFile(f.exe+BackupSuffix, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}
	f.sh.failDelete = os.ErrPermission

	err := f.engine().ApplyUpdate(context.Background(), f.exe, "https://example.com/x", nil)
	if !errors.Is(err, ErrStaleBackupUndeletable) {
		t.Fatalf("ApplyUpdate() error = %v, want ErrStaleBackupUndeletable", err)
	}
	if f.dl.path != "" {
		t.Error("download started despite undeletable backup")
	}
	if got := readFile(t, f.exe); got != "old" {
		t.Errorf("executable = %q, want untouched", got)
	}
	if len(*codes) != 0 {
		t.Errorf("exit codes = %v, want none", *codes)
	}
}

func TestApplyUpdate_DownloadFailure(t *testing.T) {
	// Not parallel: mutates package-level exitProcess.
	codes := overrideExitProcess(t)
	f := newUpdateFixture(t)
	f.dl.err = errors.New("network down")

	if err := f.engine().ApplyUpdate(context.Background(), f.exe, "https://example.com/x", nil); err == nil {
		t.Fatal("ApplyUpdate() error = nil")
	}
	if got := readFile(t, f.exe); got != "old" {
		t.Errorf("executable = %q, want untouched", got)
	}
	if len(*codes) != 0 {
		t.Errorf("exit codes = %v, want none", *codes)
	}
}

func TestApplyUpdate_SwapFailureRestoresOriginal(t *testing.T) {
	// Not parallel: mutates package-level exitProcess.
	codes := overrideExitProcess(t)
	f := newUpdateFixture(t)
	sh := &failSecondMove{swapShell: f.sh}

	e := New(staticBuilds{}, selfTarget, f.dl, sh, WithHost(linuxHost))
	err := e.ApplyUpdate(context.Background(), f.exe, "https://example.com/x", nil)
	if !errors.Is(err, ErrSelfUpdateAborted) {
		t.Fatalf("ApplyUpdate() error = %v, want ErrSelfUpdateAborted", err)
	}
	if got := readFile(t, f.exe); got != "old" {
		t.Errorf("executable = %q, want original restored", got)
	}
	if _, err := os.Stat(f.exe + BackupSuffix); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("backup still present: %v", err)
	}
	if len(f.sh.started) != 0 {
		t.Errorf("started = %v, want none", f.sh.started)
	}
	if len(*codes) != 0 {
		t.Errorf("exit codes = %v, want none", *codes)
	}
}

// failSecondMove fails the move of the downloaded file into place.
type failSecondMove struct {
	*swapShell
	moves int
}

func (s *failSecondMove) MoveFile(src, dst string) error {
	s.moves++
	if s.moves == 2 {
		return os.ErrPermission
	}
	return s.swapShell.MoveFile(src, dst)
}

func TestApplyUpdate_BackupMoveFailure(t *testing.T) {
	// Not parallel: mutates package-level exitProcess.
	codes := overrideExitProcess(t)
	f := newUpdateFixture(t)
	f.sh.failMoveFrom[f.exe] = os.ErrPermission

	err := f.engine().ApplyUpdate(context.Background(), f.exe, "https://example.com/x", nil)
	if !errors.Is(err, ErrSelfUpdateAborted) {
		t.Fatalf("ApplyUpdate() error = %v, want ErrSelfUpdateAborted", err)
	}
	if got := readFile(t, f.exe); got != "old" {
		t.Errorf("executable = %q, want untouched", got)
	}
	if _, err := os.Stat(f.dl.path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("downloaded file not cleaned up: %v", err)
	}
	if len(*codes) != 0 {
		t.Errorf("exit codes = %v, want none", *codes)
	}
}

func TestApplyUpdate_LaunchFailure(t *testing.T) {
	// Not parallel: mutates package-level exitProcess.
	codes := overrideExitProcess(t)
	f := newUpdateFixture(t)
	f.sh.startErr = errors.New("exec format error")

	err := f.engine().ApplyUpdate(context.Background(), f.exe, "https://example.com/x", nil)
	if !errors.Is(err, ErrSelfUpdateLaunchFailed) {
		t.Fatalf("ApplyUpdate() error = %v, want ErrSelfUpdateLaunchFailed", err)
	}
	if got := readFile(t, f.exe); got != "new" {
		t.Errorf("executable = %q, want replaced", got)
	}
	if len(*codes) != 0 {
		t.Errorf("exit codes = %v, want none", *codes)
	}
}

func TestResolveExecPath(t *testing.T) {
	// Not parallel: mutates package-level osExecutable and evalSymlinks.
	overrideExecSeams(t, "/opt/openlauncher/openlauncher")

	got, err := ResolveExecPath()
	if err != nil {
		t.Fatalf("ResolveExecPath() error = %v", err)
	}
	if got != "/opt/openlauncher/openlauncher" {
		t.Errorf("ResolveExecPath() = %q", got)
	}
}

func TestResolveExecPath_Error(t *testing.T) {
	// Not parallel: mutates package-level osExecutable.
	orig := osExecutable
	t.Cleanup(func() { osExecutable = orig })
	osExecutable = func() (string, error) { return "", errors.New("no proc") }

	if _, err := ResolveExecPath(); err == nil {
		t.Fatal("ResolveExecPath() error = nil")
	}
}
