// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the openlauncher command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/openlauncher/openlauncher/pkg/types"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// annotationStandalone marks commands that run without settings or clients.
const annotationStandalone = "openlauncher/standalone"

// rootOptions holds the global flags and the wiring built from them before
// a subcommand runs.
type rootOptions struct {
	verbose    bool
	configPath string
	game       string
	apiURL     string

	app *app
}

// newRootCommand builds the command tree. Every call returns an independent
// tree so tests can run commands side by side.
func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "openlauncher",
		Short: "Install, update and launch OpenRCT2 and OpenLoco",
		Long: TitleStyle.Render("openlauncher") + SubtitleStyle.Render(" - install, update and launch open source game remakes") + `

openlauncher downloads game builds from their GitHub release feeds,
installs them next to your saves and keeps the previous build as a
backup until the new one is in place.

` + SubtitleStyle.Render("Examples:") + `
  openlauncher games                  List the supported games
  openlauncher builds --pre-release   Show release and develop builds
  openlauncher install                Install the newest build
  openlauncher install v0.4.12        Install a specific build
  openlauncher launch                 Start the installed game
  openlauncher self-update --check    Look for a newer launcher`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations[annotationStandalone] != "" {
				return nil
			}
			a, err := newApp(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return fail(cmd, opts, "start openlauncher", err)
			}
			opts.app = a
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if opts.app == nil {
				return
			}
			if cmd.Name() != selfUpdateCommandName {
				notifyUpdate(cmd.Context(), opts.app, cmd.ErrOrStderr())
			}
			opts.closeApp()
		},
	}

	flags := root.PersistentFlags()
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")
	flags.StringVar(&opts.configPath, "config", "", "config file (default is <config dir>/openlauncher/config.cue)")
	flags.StringVarP(&opts.game, "game", "g", "", "game to act on, by name or index (default is the selected game)")
	flags.StringVar(&opts.apiURL, "api-url", "", "GitHub API base URL")
	_ = flags.MarkHidden("api-url")

	root.AddCommand(
		newGamesCommand(opts),
		newBuildsCommand(opts),
		newInstallCommand(opts),
		newStatusCommand(opts),
		newLaunchCommand(opts),
		newSelfUpdateCommand(opts),
		newConfigCommand(opts),
		newIssueCommand(),
	)

	return root
}

// closeApp releases the app of this invocation, if any. Cobra skips the
// post-run hook when a command fails, so fail calls it too.
func (o *rootOptions) closeApp() {
	if o.app == nil {
		return
	}
	o.app.Close()
	o.app = nil
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the command line and exits with the code of the failure, if
// any. It is called by main.main().
func Execute() {
	if err := fang.Execute(
		context.Background(),
		newRootCommand(),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(int(processExitCode(err)))
	}
}

// processExitCode picks the status for a failed run. Codes outside what a
// process can report fall back to ExitFailure.
func processExitCode(err error) types.ExitCode {
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code.IsSuccess() || exitErr.Code.Validate() != nil {
		return types.ExitFailure
	}
	return exitErr.Code
}
