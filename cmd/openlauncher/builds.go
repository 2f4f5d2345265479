// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/openlauncher/openlauncher/internal/catalog"
	"github.com/openlauncher/openlauncher/internal/game"
	"github.com/openlauncher/openlauncher/internal/selfupdate"
	"github.com/openlauncher/openlauncher/pkg/platform"
)

// buildsParams bundles the inputs of the builds command so runBuilds can be
// tested against a fake resolver.
type buildsParams struct {
	stdout            io.Writer
	resolver          selfupdate.BuildResolver
	game              game.Game
	host              platform.Host
	now               time.Time
	installed         string
	includePrerelease bool
	notes             bool
}

func newBuildsCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "builds",
		Short: "List the builds available for the selected game",
		Long: `List the builds available for the selected game, newest first.

Only builds with a download for this platform are shown. Develop builds
are included with --pre-release; the choice is remembered for later
runs.`,
		Example: `  openlauncher builds
  openlauncher builds --pre-release
  openlauncher builds --game openloco --notes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := opts.app
			g, _, err := a.selectGame(opts.game)
			if err != nil {
				return fail(cmd, opts, "list builds", err)
			}
			includePrerelease, err := prereleaseChoice(cmd, a)
			if err != nil {
				return fail(cmd, opts, "list builds", err)
			}
			engine, err := a.engineFor(g)
			if err != nil {
				return fail(cmd, opts, "list builds", err)
			}
			installed, _ := engine.CurrentVersion()
			notes, _ := cmd.Flags().GetBool("notes")

			p := buildsParams{
				stdout:            cmd.OutOrStdout(),
				resolver:          a.catalog,
				game:              g,
				host:              a.host,
				now:               a.clock.Now(),
				installed:         installed,
				includePrerelease: includePrerelease,
				notes:             notes,
			}
			if err := runBuilds(cmd.Context(), p); err != nil {
				return fail(cmd, opts, "list builds of "+g.Name, err)
			}
			return nil
		},
	}

	cmd.Flags().Bool("pre-release", false, "include develop builds")
	cmd.Flags().Bool("notes", false, "show release notes")

	return cmd
}

// prereleaseChoice returns the --pre-release flag when it was given, and
// persists it, or the remembered choice otherwise.
func prereleaseChoice(cmd *cobra.Command, a *app) (bool, error) {
	if !cmd.Flags().Changed("pre-release") {
		return a.store.PreReleaseChecked(), nil
	}
	v, _ := cmd.Flags().GetBool("pre-release")
	if v != a.store.PreReleaseChecked() {
		if err := a.store.SetPreReleaseChecked(v); err != nil {
			return false, err
		}
	}
	return v, nil
}

func runBuilds(ctx context.Context, p buildsParams) error {
	builds, err := p.resolver.ResolveBuilds(ctx, p.game.Target(), p.includePrerelease)
	if err != nil {
		return err
	}

	shown := catalog.Installable(builds, p.host, p.includePrerelease)
	if len(shown) == 0 {
		fmt.Fprintf(p.stdout, "No %s builds available for %s\n", p.game.Name, p.host)
		return nil
	}

	for _, b := range shown {
		fmt.Fprintln(p.stdout, formatBuildLine(b, p.now, p.installed))
		if p.notes && strings.TrimSpace(b.Notes) != "" {
			rendered, err := glamour.Render(b.Notes, "dark")
			if err != nil {
				rendered = b.Notes
			}
			fmt.Fprintln(p.stdout, strings.TrimRight(rendered, "\n"))
		}
	}
	return nil
}

// formatBuildLine renders "<marker> <version> [pre-release] <age>".
func formatBuildLine(b catalog.Build, now time.Time, installed string) string {
	var line strings.Builder

	marker := " "
	if b.Version == installed {
		marker = SuccessStyle.Render("*")
	}
	line.WriteString(marker)
	line.WriteString(" ")
	line.WriteString(CmdStyle.Render(fmt.Sprintf("%-24s", b.Version)))

	if !b.IsRelease {
		line.WriteString(" ")
		line.WriteString(WarningStyle.Render("pre-release"))
	}
	if b.HasTimestamp() {
		line.WriteString(" ")
		line.WriteString(SubtitleStyle.Render(catalog.Age(now, b.PublishedAt)))
	}
	return line.String()
}
