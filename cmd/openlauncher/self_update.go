// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/openlauncher/openlauncher/internal/catalog"
	"github.com/openlauncher/openlauncher/internal/progress"
	"github.com/openlauncher/openlauncher/internal/selfupdate"
)

const (
	selfUpdateCommandName = "self-update"

	// noticeTimeout bounds the automatic check run after other commands.
	noticeTimeout = 5 * time.Second
)

type (
	// updateChecker looks for a newer launcher.
	updateChecker interface {
		CheckForUpdate(ctx context.Context, current string) (*selfupdate.Update, error)
	}

	// updater is the part of selfupdate.Engine the command drives.
	updater interface {
		updateChecker
		ApplyUpdate(ctx context.Context, processPath, uri string, sink progress.Sink) error
	}

	// selfUpdateParams bundles the dependencies and flags of the self-update
	// command so runSelfUpdate can be tested without Cobra or GitHub.
	selfUpdateParams struct {
		stdin    io.Reader
		stdout   io.Writer
		updater  updater
		state    *selfupdate.StateStore
		sink     progress.Sink
		now      time.Time
		current  string
		execPath string
		method   selfupdate.InstallMethod
		check    bool // report availability without installing
		yes      bool // skip the confirmation prompt
	}

	// noticeParams bundles the inputs of the automatic update notice.
	noticeParams struct {
		stderr   io.Writer
		checker  updateChecker
		state    *selfupdate.StateStore
		now      time.Time
		interval time.Duration
		current  string
	}
)

func newSelfUpdateCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   selfUpdateCommandName,
		Short: "Update openlauncher to the latest release",
		Long: `Update openlauncher to the latest release.

The new executable is downloaded next to the current one, which is kept
as '<name>.backup' while the new one is moved into place. The updated
launcher is started and this process exits.

If openlauncher was installed with a package manager, the command prints
the package manager's upgrade command instead.`,
		Example: `  openlauncher self-update --check
  openlauncher self-update --yes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := opts.app
			execPath, err := selfupdate.ResolveExecPath()
			if err != nil {
				return fail(cmd, opts, "update openlauncher", err)
			}
			check, _ := cmd.Flags().GetBool("check")
			yes, _ := cmd.Flags().GetBool("yes")

			bar := progress.NewBar(cmd.ErrOrStderr())
			p := selfUpdateParams{
				stdin:    cmd.InOrStdin(),
				stdout:   cmd.OutOrStdout(),
				updater:  a.selfUpdater(execPath),
				state:    a.updateState(),
				sink:     bar,
				now:      a.clock.Now(),
				current:  Version,
				execPath: execPath,
				method:   selfupdate.DetectInstallMethod(execPath),
				check:    check,
				yes:      yes,
			}

			err = runSelfUpdate(cmd.Context(), p)
			bar.Done()
			if err != nil {
				return fail(cmd, opts, "update openlauncher", err)
			}
			return nil
		},
	}

	cmd.Flags().Bool("check", false, "check for an update without installing it")
	cmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")

	return cmd
}

// selfUpdater builds the engine that replaces the executable at execPath.
func (a *app) selfUpdater(execPath string) *selfupdate.Engine {
	return selfupdate.New(a.catalog, selfTarget(), a.selfDownloader(execPath), a.shell,
		selfupdate.WithLogger(a.logger),
		selfupdate.WithHost(a.host),
	)
}

// updateState keeps the check state next to the config file.
func (a *app) updateState() *selfupdate.StateStore {
	return selfupdate.NewStateStore(filepath.Dir(a.store.Path()))
}

// runSelfUpdate is the self-update flow:
//  1. A managed install only gets the package manager's upgrade command.
//  2. Check the launcher's release feed and remember the result.
//  3. Report when there is nothing newer, or when --check is set.
//  4. Confirm unless --yes, then download and swap the executable.
func runSelfUpdate(ctx context.Context, p selfUpdateParams) error {
	if p.method.IsManaged() {
		fmt.Fprintln(p.stdout, selfupdate.ManagedInstallMessage(p.method, p.execPath))
		return nil
	}

	upd, err := p.updater.CheckForUpdate(ctx, p.current)
	if err != nil {
		return err
	}
	rememberCheck(p.state, p.now, upd)

	if upd == nil {
		fmt.Fprintln(p.stdout, "No openlauncher release is available for this platform.")
		return nil
	}

	fmt.Fprintf(p.stdout, "Current version: %s\n", p.current)
	fmt.Fprintf(p.stdout, "Latest version:  %s\n", upd.LatestVersion)

	if !upd.Available {
		if _, ok := catalog.ParseVersion(p.current); !ok {
			fmt.Fprintln(p.stdout, "\nThis build's version cannot be compared with releases.")
			return nil
		}
		fmt.Fprintln(p.stdout, "\n"+SuccessStyle.Render("openlauncher is up to date."))
		return nil
	}

	if p.check {
		fmt.Fprintf(p.stdout, "\nAn update is available: %s → %s\n", p.current, upd.LatestVersion)
		fmt.Fprintln(p.stdout, "Run "+CmdStyle.Render("openlauncher self-update")+" to install.")
		return nil
	}

	if !p.yes {
		confirmed, err := confirm(ctx, p.stdin, p.stdout,
			fmt.Sprintf("Update openlauncher from %s to %s?", p.current, upd.LatestVersion))
		if err != nil {
			return fmt.Errorf("confirmation prompt: %w", err)
		}
		if !confirmed {
			return nil
		}
	}

	fmt.Fprintf(p.stdout, "\nDownloading %s...\n", upd.Asset.Name)
	// On success the updated launcher is started and this process exits.
	return p.updater.ApplyUpdate(ctx, p.execPath, upd.DownloadURI, p.sink)
}

// rememberCheck records a finished check. Failing to save only means the
// next automatic check runs early.
func rememberCheck(store *selfupdate.StateStore, now time.Time, upd *selfupdate.Update) {
	if store == nil {
		return
	}
	st := selfupdate.CheckState{LastCheck: now}
	if upd != nil {
		st.LatestVersion = upd.LatestVersion
	}
	_ = store.Save(st)
}

// notifyUpdate prints a one-line notice when a newer launcher exists,
// asking GitHub at most once per check interval. Failures are only logged.
func notifyUpdate(ctx context.Context, a *app, stderr io.Writer) {
	if _, ok := catalog.ParseVersion(Version); !ok {
		return
	}
	interval, err := a.store.Config().SelfUpdate.Interval()
	if err != nil {
		a.logger.Debug("update notice disabled", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, noticeTimeout)
	defer cancel()

	p := noticeParams{
		stderr:   stderr,
		checker:  a.selfUpdater(""),
		state:    a.updateState(),
		now:      a.clock.Now(),
		interval: interval,
		current:  Version,
	}
	if err := runUpdateNotice(ctx, p); err != nil {
		a.logger.Debug("update check failed", "error", err)
	}
}

func runUpdateNotice(ctx context.Context, p noticeParams) error {
	st, err := p.state.Load()
	if err != nil {
		// A damaged state file is replaced by the next save.
		st = selfupdate.CheckState{}
	}

	latest := st.LatestVersion
	if st.Due(p.now, p.interval) {
		upd, err := p.checker.CheckForUpdate(ctx, p.current)
		if err != nil {
			rememberCheck(p.state, p.now, &selfupdate.Update{LatestVersion: st.LatestVersion})
			return err
		}
		rememberCheck(p.state, p.now, upd)
		latest = ""
		if upd != nil {
			latest = upd.LatestVersion
		}
	}

	if latest != "" && catalog.IsNewer(latest, p.current) {
		fmt.Fprintln(p.stderr, WarningStyle.Render(
			fmt.Sprintf("openlauncher %s is available (you have %s). Run 'openlauncher self-update' to update.", latest, p.current)))
	}
	return nil
}
