// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/openlauncher/openlauncher/internal/game"
)

// unknownVersion is shown for an install that can be launched but has no
// version marker, e.g. one copied in by hand.
const unknownVersion = "(Unknown)"

type (
	// installation is the read-only view of install.Engine the status and
	// launch commands use.
	installation interface {
		CurrentVersion() (string, bool)
		CanLaunch() bool
		BinDir() string
		ExecutablePath() string
	}
)

func newStatusCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the installed version of the selected game",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := opts.app
			g, _, err := a.selectGame(opts.game)
			if err != nil {
				return fail(cmd, opts, "show status", err)
			}
			engine, err := a.engineFor(g)
			if err != nil {
				return fail(cmd, opts, "show status of "+g.Name, err)
			}
			runStatus(cmd.OutOrStdout(), g, engine)
			return nil
		},
	}
}

func runStatus(w io.Writer, g game.Game, inst installation) {
	fmt.Fprintln(w, TitleStyle.Render(g.Name))
	fmt.Fprintf(w, "  Version:   %s\n", versionLabel(inst))
	fmt.Fprintf(w, "  Folder:    %s\n", inst.BinDir())
	if inst.CanLaunch() {
		fmt.Fprintf(w, "  Launch:    %s\n", inst.ExecutablePath())
	}
}

// versionLabel is the installed version, "(Unknown)" for a launchable
// install without a marker, or "not installed".
func versionLabel(inst installation) string {
	if v, ok := inst.CurrentVersion(); ok {
		return SuccessStyle.Render(v)
	}
	if inst.CanLaunch() {
		return SuccessStyle.Render(unknownVersion)
	}
	return SubtitleStyle.Render("not installed")
}
