// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openlauncher/openlauncher/internal/config"
)

// redacted replaces the GitHub token in displayed settings.
const redacted = "<redacted>"

func newConfigCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show and change openlauncher settings",
		Long: `Show and change openlauncher settings.

Settings are stored as CUE in the openlauncher config directory. Every
change is written back immediately.`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the current settings",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				runConfigShow(cmd.OutOrStdout(), opts.app.store)
				return nil
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the settings file location",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				fmt.Fprintln(cmd.OutOrStdout(), opts.app.store.Path())
				return nil
			},
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Change a setting",
			Long: `Change a setting.

Keys:
  ` + strings.Join(config.Keys, "\n  "),
			Example: `  openlauncher config set pre_release_checked true
  openlauncher config set install_root ~/Games
  openlauncher config set self_update.check_interval 12h`,
			Args:      cobra.ExactArgs(2),
			ValidArgs: config.Keys,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := opts.app.store.Set(args[0], args[1]); err != nil {
					return fail(cmd, opts, "set "+args[0], err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], displayValue(args[0], args[1]))
				return nil
			},
		},
	)

	return cmd
}

func runConfigShow(w io.Writer, store *config.Store) {
	cfg := store.Config()
	if cfg.GitHub.Token != "" {
		cfg.GitHub.Token = redacted
	}
	fmt.Fprintln(w, SubtitleStyle.Render("// "+store.Path()))
	fmt.Fprint(w, config.GenerateCUE(&cfg))
}

func displayValue(key, value string) string {
	if key == "github.token" && value != "" {
		return redacted
	}
	return value
}
