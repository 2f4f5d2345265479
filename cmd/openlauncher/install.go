// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/openlauncher/openlauncher/internal/asset"
	"github.com/openlauncher/openlauncher/internal/catalog"
	"github.com/openlauncher/openlauncher/internal/game"
	"github.com/openlauncher/openlauncher/internal/progress"
	"github.com/openlauncher/openlauncher/internal/selfupdate"
	"github.com/openlauncher/openlauncher/pkg/platform"
)

type (
	// installer is the part of install.Engine the install command drives.
	installer interface {
		Install(ctx context.Context, version, uri string, sink progress.Sink) error
		CurrentVersion() (string, bool)
	}

	// installParams bundles the inputs of the install command.
	installParams struct {
		stdout            io.Writer
		resolver          selfupdate.BuildResolver
		engine            installer
		sink              progress.Sink
		game              game.Game
		host              platform.Host
		version           string // empty selects the newest build
		includePrerelease bool
		force             bool
	}
)

func newInstallCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install [version]",
		Short: "Install a build of the selected game",
		Long: `Install a build of the selected game.

Without a version the newest build is installed; develop builds are
considered when pre-release builds are enabled. The previous install is
kept as a backup until the new build is in place and is restored if the
install fails.`,
		Example: `  openlauncher install
  openlauncher install v0.4.12
  openlauncher install --game openloco --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := opts.app
			g, _, err := a.selectGame(opts.game)
			if err != nil {
				return fail(cmd, opts, "install", err)
			}
			engine, err := a.engineFor(g)
			if err != nil {
				return fail(cmd, opts, "install "+g.Name, err)
			}
			a.repair(g, engine)

			force, _ := cmd.Flags().GetBool("force")
			bar := progress.NewBar(cmd.ErrOrStderr())
			p := installParams{
				stdout:            cmd.OutOrStdout(),
				resolver:          a.catalog,
				engine:            engine,
				sink:              bar,
				game:              g,
				host:              a.host,
				includePrerelease: a.store.PreReleaseChecked(),
				force:             force,
			}
			if len(args) > 0 {
				p.version = args[0]
			}

			err = runInstall(cmd.Context(), p)
			bar.Done()
			if err != nil {
				return fail(cmd, opts, "install "+g.Name, err)
			}
			return nil
		},
	}

	cmd.Flags().BoolP("force", "f", false, "reinstall even if the build is already installed")

	return cmd
}

func runInstall(ctx context.Context, p installParams) error {
	// A named version may live in the develop feed.
	includeAll := p.includePrerelease || p.version != ""
	builds, err := p.resolver.ResolveBuilds(ctx, p.game.Target(), includeAll)
	if err != nil {
		return err
	}

	build, a, err := pickBuild(builds, p.host, p.version, includeAll)
	if err != nil {
		return err
	}

	if current, ok := p.engine.CurrentVersion(); ok && current == build.Version && !p.force {
		fmt.Fprintf(p.stdout, "%s %s is already installed\n", p.game.Name, CmdStyle.Render(build.Version))
		return nil
	}

	fmt.Fprintf(p.stdout, "Installing %s %s from %s\n", p.game.Name, CmdStyle.Render(build.Version), a.Name)
	if err := p.engine.Install(ctx, build.Version, a.URI, p.sink); err != nil {
		return err
	}
	fmt.Fprintln(p.stdout, SuccessStyle.Render(fmt.Sprintf("Installed %s %s", p.game.Name, build.Version)))
	return nil
}

// pickBuild returns the requested build, or the newest one with a portable
// download when version is empty, together with the asset to install.
// Installers and symbol bundles are never picked.
func pickBuild(builds []catalog.Build, host platform.Host, version string, includePrerelease bool) (catalog.Build, asset.Asset, error) {
	installable := catalog.Installable(builds, host, includePrerelease)
	if version == "" {
		for _, b := range installable {
			if a, ok := asset.Select(host, b.Assets, true); ok {
				return b, a, nil
			}
		}
		return catalog.Build{}, asset.Asset{}, fmt.Errorf("%w: %s", errNoInstallableBuild, host)
	}

	b, ok := catalog.Find(installable, version)
	if !ok {
		if _, listed := catalog.Find(builds, version); !listed {
			return catalog.Build{}, asset.Asset{}, fmt.Errorf("%w: %s", errBuildNotFound, version)
		}
	}
	if a, ok := asset.Select(host, b.Assets, true); ok {
		return b, a, nil
	}
	return catalog.Build{}, asset.Asset{}, fmt.Errorf("%w: %s has no download for %s", errNoInstallableBuild, version, host)
}
