// ABOUTME: Default Runner backed by os/exec and local version parsing
// ABOUTME: Reads the installed version from the toolset binary's output
package updater

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
)

type execRunner struct{}

func (execRunner) Run(ctx context.Context, bin string, args ...string) ([]byte, error) {
	// Some toolset binaries report their version on stderr.
	return exec.CommandContext(ctx, bin, args...).CombinedOutput()
}

// readLocalVersion asks the installed executable for its version and
// takes the last whitespace-delimited token of the first output line:
// "fastboot version 35.0.2-12147458" reads as "35.0.2-12147458".
func readLocalVersion(ctx context.Context, r Runner, bin string) (string, error) {
	out, err := r.Run(ctx, bin, "--version")
	if err != nil {
		return "", &ExecError{Bin: bin, Err: err}
	}

	line := out
	if i := bytes.IndexByte(out, '\n'); i >= 0 {
		line = out[:i]
	}

	fields := strings.Fields(string(line))
	if len(fields) == 0 {
		return "", &ExecError{Bin: bin, Err: errors.New("no version token in output")}
	}

	return fields[len(fields)-1], nil
}
