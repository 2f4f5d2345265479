// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/openlauncher/openlauncher/pkg/platform"
)

//nolint:gochecknoglobals // Test seam for sandbox detection.
var detectSandbox = platform.DetectSandbox

// RunProcess runs name with args through the embedded shell interpreter and
// returns the exit status. Stderr of a failing command is logged.
func (o *OS) RunProcess(ctx context.Context, name string, args ...string) (int, error) {
	line, err := commandLine(name, args)
	if err != nil {
		return -1, err
	}

	prog, err := syntax.NewParser().Parse(strings.NewReader(line), name)
	if err != nil {
		return -1, fmt.Errorf("failed to parse command: %w", err)
	}

	dir, err := os.Getwd()
	if err != nil {
		return -1, fmt.Errorf("resolving working directory: %w", err)
	}

	var stdout, stderr bytes.Buffer
	runner, err := interp.New(
		interp.Dir(dir),
		interp.Env(expand.ListEnviron(os.Environ()...)),
		interp.StdIO(nil, &stdout, &stderr),
	)
	if err != nil {
		return -1, fmt.Errorf("failed to create interpreter: %w", err)
	}

	err = runner.Run(ctx, prog)
	if err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			o.logger.Debug("process exited non-zero", "command", line, "status", int(exitStatus), "stderr", strings.TrimSpace(stderr.String()))
			return int(exitStatus), nil
		}
		return -1, fmt.Errorf("running %s: %w", name, err)
	}

	o.logger.Debug("process finished", "command", line)
	return 0, nil
}

// StartProcess starts name as a detached process in its own working
// directory. Inside a Flatpak sandbox the command is forwarded to the host.
func (o *OS) StartProcess(name string, args ...string) error {
	bin, argv := detectSandbox().HostCommand(name, args)

	cmd := exec.Command(bin, argv...)
	cmd.Dir = filepath.Dir(name)
	setDetached(cmd)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", name, err)
	}
	o.logger.Debug("started process", "command", bin, "pid", cmd.Process.Pid)

	// The child outlives us; release its handle instead of waiting.
	return cmd.Process.Release()
}

// SetExecutable marks path executable with chmod. It is a no-op on Windows.
func (o *OS) SetExecutable(ctx context.Context, path string) error {
	if runtime.GOOS == platform.Windows {
		return nil
	}
	code, err := o.RunProcess(ctx, "chmod", "+x", path)
	if err != nil {
		return err
	}
	if code != 0 {
		return fmt.Errorf("chmod +x %s exited with status %d", path, code)
	}
	return nil
}

// commandLine quotes name and args into a single shell command line.
func commandLine(name string, args []string) (string, error) {
	parts := make([]string, 0, len(args)+1)
	for _, s := range append([]string{name}, args...) {
		q, err := syntax.Quote(s, syntax.LangBash)
		if err != nil {
			return "", fmt.Errorf("quoting %q: %w", s, err)
		}
		parts = append(parts, q)
	}
	return strings.Join(parts, " "), nil
}
