// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newGamesCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "games",
		Short: "List the supported games",
		Long: `List the supported games with their installed version.

The selected game, marked with '*', is the one other commands act on
when --game is not given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := runGamesList(cmd.OutOrStdout(), opts.app); err != nil {
				return fail(cmd, opts, "list games", err)
			}
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "select <name|index>",
		Short: "Select the game other commands act on",
		Example: `  openlauncher games select openloco
  openlauncher games select 0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runGamesSelect(cmd.OutOrStdout(), opts.app, args[0]); err != nil {
				return fail(cmd, opts, "select game", err)
			}
			return nil
		},
	})

	return cmd
}

func runGamesList(w io.Writer, a *app) error {
	selected := a.store.SelectedGame()
	for i, g := range a.games.All() {
		engine, err := a.engineFor(g)
		if err != nil {
			return err
		}

		marker, name := " ", fmt.Sprintf("%-10s", g.Name)
		if i == selected {
			marker, name = "*", TitleStyle.Render(name)
		}

		fmt.Fprintf(w, "%s %d  %s %s\n", marker, i, name, versionLabel(engine))
	}
	return nil
}

func runGamesSelect(w io.Writer, a *app, key string) error {
	g, i, err := a.games.Lookup(key)
	if err != nil {
		return err
	}
	if err := a.store.SetSelectedGame(i); err != nil {
		return err
	}
	fmt.Fprintf(w, "Selected %s\n", TitleStyle.Render(g.Name))
	return nil
}
