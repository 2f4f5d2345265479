// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

const (
	SourceUnavailableId Id = iota + 1
	RateLimitedId
	NoInstallableBuildId
	UnsupportedFormatId
	ExtractionAccessDeniedId
	InstallFailedId
	RestoreFailedId
	NotInstalledId
	LaunchFailedId
	SelfUpdateFailedId
	ManagedInstallId
	ConfigLoadFailedId
	UnknownGameId
)

type (
	Id int

	MarkdownMsg string

	HttpLink string

	Issue struct {
		id       Id          // ID used to lookup the issue
		mdMsg    MarkdownMsg // Markdown text that will be rendered
		docLinks []HttpLink
		extLinks []HttpLink // external links that might be useful for the user
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the issue page with the glamour style at stylePath
// ("dark", "light", "notty" or a JSON style file).
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range append(i.DocLinks(), i.extLinks...) {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	sourceUnavailableIssue = &Issue{
		id: SourceUnavailableId,
		mdMsg: `
# Could not reach the release feed

The list of builds could not be downloaded. Nothing on disk was changed.

## Things you can try:
- Check your internet connection
- Retry in a minute; repeated failures pause requests for a short while
- Set a GitHub token if you are behind a shared address:
~~~
$ openlauncher config set github.token <token>
~~~`,
		extLinks: []HttpLink{"https://www.githubstatus.com"},
	}

	rateLimitedIssue = &Issue{
		id: RateLimitedId,
		mdMsg: `
# GitHub rate limit reached

Anonymous requests to GitHub are limited per hour.

## Things you can try:
- Wait until the reset time shown above
- Provide a personal access token through ` + "`GITHUB_TOKEN`" + ` or the config file`,
		docLinks: []HttpLink{"https://docs.github.com/rest/using-the-rest-api/rate-limits-for-the-rest-api"},
	}

	noInstallableBuildIssue = &Issue{
		id: NoInstallableBuildId,
		mdMsg: `
# No build for this machine

None of the published builds has a download for your operating system and CPU.

## Things you can try:
- Include development builds:
~~~
$ openlauncher builds --pre-release
~~~
- Build the game from source`,
	}

	unsupportedFormatIssue = &Issue{
		id: UnsupportedFormatId,
		mdMsg: `
# Unsupported download format

The launcher can unpack ` + "`.zip`" + `, ` + "`.tar.gz`" + ` and ` + "`.AppImage`" + ` files only.
The selected download is none of these, so nothing was installed.`,
	}

	extractionAccessDeniedIssue = &Issue{
		id: ExtractionAccessDeniedId,
		mdMsg: `
# Files are in use

The new version could not be unpacked because files in the install folder are locked.
The previous version has been restored.

## Things you can try:
- Close the game and any program that has its folder open
- Retry the install`,
	}

	installFailedIssue = &Issue{
		id: InstallFailedId,
		mdMsg: `
# Install failed

Unpacking the new version failed. The previous version has been restored and can still be launched.

## Things you can try:
- Retry; the download may have been damaged
- Run with ` + "`--verbose`" + ` for details`,
	}

	restoreFailedIssue = &Issue{
		id: RestoreFailedId,
		mdMsg: `
# Install failed and the previous version could not be restored

The install folder may be incomplete. A ` + "`bin.backup`" + ` folder next to it holds the previous version.

## Things you can try:
- Run the install again; leftover backups are repaired automatically
- Or rename ` + "`bin.backup`" + ` back to ` + "`bin`" + ` by hand`,
	}

	notInstalledIssue = &Issue{
		id: NotInstalledId,
		mdMsg: `
# Game not installed

There is no executable in the install folder yet.

## Things you can try:
~~~
$ openlauncher install
~~~`,
	}

	launchFailedIssue = &Issue{
		id: LaunchFailedId,
		mdMsg: `
# The game could not be started

## Things you can try:
- Reinstall the current version
- Check that the executable has execute permission`,
	}

	selfUpdateFailedIssue = &Issue{
		id: SelfUpdateFailedId,
		mdMsg: `
# Launcher update failed

The running launcher has been kept or put back in place.

## Things you can try:
- Make sure the launcher's folder is writable
- Remove a leftover ` + "`.backup`" + ` file next to the launcher executable
- Download the latest release by hand`,
		docLinks: []HttpLink{"https://github.com/openlauncher/openlauncher/releases"},
	}

	managedInstallIssue = &Issue{
		id: ManagedInstallId,
		mdMsg: `
# Installed by a package manager

This launcher was installed by a package manager, which owns the executable.
Upgrade it with the command shown above instead of ` + "`self-update`" + `.`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration

## Things you can try:
- Check the file for CUE syntax errors
- Print the effective configuration:
~~~
$ openlauncher config show
~~~
- Delete the file to start over with defaults`,
	}

	unknownGameIssue = &Issue{
		id: UnknownGameId,
		mdMsg: `
# Unknown game

## Things you can try:
~~~
$ openlauncher games
~~~`,
	}

	issues = map[Id]*Issue{
		sourceUnavailableIssue.Id():      sourceUnavailableIssue,
		rateLimitedIssue.Id():            rateLimitedIssue,
		noInstallableBuildIssue.Id():     noInstallableBuildIssue,
		unsupportedFormatIssue.Id():      unsupportedFormatIssue,
		extractionAccessDeniedIssue.Id(): extractionAccessDeniedIssue,
		installFailedIssue.Id():          installFailedIssue,
		restoreFailedIssue.Id():          restoreFailedIssue,
		notInstalledIssue.Id():           notInstalledIssue,
		launchFailedIssue.Id():           launchFailedIssue,
		selfUpdateFailedIssue.Id():       selfUpdateFailedIssue,
		managedInstallIssue.Id():         managedInstallIssue,
		configLoadFailedIssue.Id():       configLoadFailedIssue,
		unknownGameIssue.Id():            unknownGameIssue,
	}
)

// Values returns every issue ordered by Id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return cmp.Compare(a.id, b.id) })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
