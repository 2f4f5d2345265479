// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/openlauncher/openlauncher/internal/game"
)

// launcher starts an installed game.
type launcher interface {
	CanLaunch() bool
	Launch() error
}

func newLaunchCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "launch",
		Short: "Start the installed build of the selected game",
		Long: `Start the installed build of the selected game.

The game runs detached; openlauncher exits right after starting it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := opts.app
			g, _, err := a.selectGame(opts.game)
			if err != nil {
				return fail(cmd, opts, "launch", err)
			}
			engine, err := a.engineFor(g)
			if err != nil {
				return fail(cmd, opts, "launch "+g.Name, err)
			}
			a.repair(g, engine)
			if err := runLaunch(cmd.OutOrStdout(), g, engine); err != nil {
				return fail(cmd, opts, "launch "+g.Name, err)
			}
			return nil
		},
	}
}

func runLaunch(w io.Writer, g game.Game, l launcher) error {
	if !l.CanLaunch() {
		return fmt.Errorf("%w: %s", errNotInstalled, g.Name)
	}
	if err := l.Launch(); err != nil {
		return err
	}
	fmt.Fprintf(w, "Started %s\n", g.Name)
	return nil
}
