// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openlauncher/openlauncher/internal/catalog"
	"github.com/openlauncher/openlauncher/internal/config"
	"github.com/openlauncher/openlauncher/internal/extract"
	"github.com/openlauncher/openlauncher/internal/game"
	"github.com/openlauncher/openlauncher/internal/github"
	"github.com/openlauncher/openlauncher/internal/install"
	"github.com/openlauncher/openlauncher/internal/issue"
	"github.com/openlauncher/openlauncher/internal/selfupdate"
	"github.com/openlauncher/openlauncher/pkg/types"
)

var (
	// errNoInstallableBuild is returned when no build has an asset for this host.
	errNoInstallableBuild = errors.New("no installable build for this platform")
	// errBuildNotFound is returned when a requested version is not in the feed.
	errBuildNotFound = errors.New("build not found")
	// errNotInstalled is returned by launch when there is nothing to start.
	errNotInstalled = errors.New("game is not installed")
)

// describe attaches an operation, suggestions and an issue page to err.
// Errors that already carry that context pass through unchanged.
func describe(operation string, err error) *issue.ActionableError {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae
	}

	b := issue.NewErrorContext().WithOperation(operation).Wrap(err)

	var (
		rateLimit *github.RateLimitError
		restore   *install.RestoreError
	)
	switch {
	case errors.Is(err, install.ErrCancelled), errors.Is(err, context.Canceled):
		// No page: the user asked for this.
	case errors.As(err, &restore):
		b.WithIssue(issue.RestoreFailedId).
			WithSuggestion("Reinstall the game; the install folder may be incomplete")
	case errors.As(err, &rateLimit):
		b.WithIssue(issue.RateLimitedId).
			WithSuggestions(
				"Wait until the limit resets and try again",
				"Set "+config.TokenEnv+" or github.token for a higher limit",
			)
	case errors.Is(err, catalog.ErrSourceUnavailable):
		b.WithIssue(issue.SourceUnavailableId).
			WithSuggestion("Check your network connection and try again")
	case errors.Is(err, install.ErrExtractionAccessDenied):
		b.WithIssue(issue.ExtractionAccessDeniedId).
			WithSuggestion("Close the game and try again")
	case errors.Is(err, extract.ErrUnsupportedFormat):
		b.WithIssue(issue.UnsupportedFormatId)
	case errors.Is(err, install.ErrInstallFailed):
		b.WithIssue(issue.InstallFailedId)
	case errors.Is(err, errNoInstallableBuild), errors.Is(err, errBuildNotFound):
		b.WithIssue(issue.NoInstallableBuildId).
			WithSuggestion("Run 'openlauncher builds --pre-release' to see every build")
	case errors.Is(err, errNotInstalled):
		b.WithIssue(issue.NotInstalledId).
			WithSuggestion("Run 'openlauncher install' first")
	case errors.Is(err, install.ErrLaunchFailed):
		b.WithIssue(issue.LaunchFailedId).
			WithSuggestion("Reinstall the game if the executable is missing or damaged")
	case errors.Is(err, selfupdate.ErrStaleBackupUndeletable),
		errors.Is(err, selfupdate.ErrSelfUpdateAborted),
		errors.Is(err, selfupdate.ErrSelfUpdateLaunchFailed):
		b.WithIssue(issue.SelfUpdateFailedId)
	case errors.Is(err, game.ErrUnknownGame):
		b.WithIssue(issue.UnknownGameId).
			WithSuggestion("Run 'openlauncher games' to list the supported games")
	case errors.Is(err, config.ErrConfigNotFound),
		errors.Is(err, config.ErrUnknownKey),
		errors.Is(err, config.ErrInvalidConfig):
		b.WithIssue(issue.ConfigLoadFailedId)
	}

	return b.Build()
}

// exitCodeFor maps an error to the process exit code.
func exitCodeFor(err error) types.ExitCode {
	var restore *install.RestoreError
	switch {
	case err == nil:
		return types.ExitOK
	case errors.Is(err, install.ErrCancelled), errors.Is(err, context.Canceled):
		return types.ExitCancelled
	case errors.As(err, &restore),
		errors.Is(err, catalog.ErrSourceUnavailable),
		errors.Is(err, selfupdate.ErrSelfUpdateLaunchFailed):
		return types.ExitUnexpected
	default:
		return types.ExitFailure
	}
}

// fail prints the suggestions of err, or in verbose mode the whole error
// chain and its issue page, and returns the ExitError the command should
// end with. The message itself is printed by the command runner. The app
// is closed on the way out.
func fail(cmd *cobra.Command, opts *rootOptions, operation string, err error) error {
	defer opts.closeApp()

	ae := describe(operation, err)
	stderr := cmd.ErrOrStderr()

	switch {
	case opts.verbose:
		fmt.Fprintln(stderr, VerboseStyle.Render(formatErrorForDisplay(ae, true)))
		printIssuePage(stderr, ae)
	case ae.HasSuggestions():
		for _, s := range ae.Suggestions {
			fmt.Fprintln(stderr, SubtitleStyle.Render("  • "+s))
		}
	}

	return &ExitError{Code: exitCodeFor(err), Err: ae}
}

// printIssuePage renders the page linked to ae, if any.
func printIssuePage(w io.Writer, ae *issue.ActionableError) {
	page := ae.Page()
	if page == nil {
		return
	}
	rendered, err := page.Render("dark")
	if err != nil {
		return
	}
	fmt.Fprintln(w, strings.TrimRight(rendered, "\n"))
}

// formatErrorForDisplay formats an error for user display. An
// ActionableError uses its Format method; verbose mode shows the chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
