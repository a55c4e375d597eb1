// ABOUTME: Entry point for the ptup CLI tool
// ABOUTME: Executes the root command and maps errors to exit codes
package main

import (
	"fmt"
	"os"

	"github.com/ptup/ptup/internal/commands"
	"github.com/ptup/ptup/internal/ui"
	"github.com/ptup/ptup/pkg/updater"
)

var version = "dev" // Injected at build time via -ldflags

func main() {
	commands.SetVersion(version)

	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.FormatError(err))
		os.Exit(updater.ExitCode(err))
	}
}
