// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"strings"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

// TestScripts runs the offline CLI scenarios under testdata/script. The
// openlauncher command runs in-process against the script's stdio.
func TestScripts(t *testing.T) {
	t.Parallel()

	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
		Cmds: map[string]func(ts *testscript.TestScript, neg bool, args []string){
			"openlauncher": runScriptCommand,
		},
		ContinueOnError: true,
	})
}

func runScriptCommand(ts *testscript.TestScript, neg bool, args []string) {
	root := newRootCommand()
	root.SetOut(ts.Stdout())
	root.SetErr(ts.Stderr())
	root.SetIn(strings.NewReader(""))
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	switch {
	case err != nil && !neg:
		ts.Fatalf("openlauncher %s: %v", strings.Join(args, " "), err)
	case err == nil && neg:
		ts.Fatalf("openlauncher %s: unexpected success", strings.Join(args, " "))
	}
}
