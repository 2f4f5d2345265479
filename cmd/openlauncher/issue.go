// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openlauncher/openlauncher/internal/issue"
)

func newIssueCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "issue [id]",
		Short: "Explain a known problem",
		Long: `Explain a known problem.

Without an id, list the pages. Failing commands name the page that
applies when run with --verbose.`,
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{annotationStandalone: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				listIssues(cmd.OutOrStdout())
				return nil
			}
			return showIssue(cmd.OutOrStdout(), args[0])
		},
	}
}

func listIssues(w io.Writer) {
	for _, is := range issue.Values() {
		fmt.Fprintf(w, "%3d  %s\n", is.Id(), issueTitle(is))
	}
}

func showIssue(w io.Writer, arg string) error {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("issue id %q is not a number", arg)
	}
	is := issue.Get(issue.Id(id))
	if is == nil {
		return fmt.Errorf("no issue with id %d", id)
	}
	rendered, err := is.Render("dark")
	if err != nil {
		return err
	}
	fmt.Fprint(w, rendered)
	return nil
}

// issueTitle is the first markdown heading of the page.
func issueTitle(is *issue.Issue) string {
	for line := range strings.SplitSeq(string(is.MarkdownMsg()), "\n") {
		if title, ok := strings.CutPrefix(strings.TrimSpace(line), "# "); ok {
			return title
		}
	}
	return ""
}
