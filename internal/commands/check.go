// ABOUTME: Check command shows whether a newer bundle is published
// ABOUTME: Read-only: resolves the remote version without installing
package commands

import (
	"fmt"

	"github.com/ptup/ptup/internal/config"
	"github.com/ptup/ptup/internal/ui"
	"github.com/ptup/ptup/pkg/updater"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Show whether a newer platform tools release is available",
	Long: `Compare the installed fastboot version against the bundle published
behind the latest-bundle link.

This is a read-only command that only checks for updates without applying them.`,
	Example: `  # Check what's outdated
  ptup check`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	w := updater.New(updater.Options{
		Dir: toolsDir,
		URL: config.DownloadURL(downloadURL),
	})

	status, err := w.Check(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(ui.RenderSection("Platform Tools"))
	if status.Decision == updater.UpgradeAvailable {
		fmt.Printf("  %s %s\n", ui.Warning(ui.SymbolWarning), ui.RenderVersionChange(status.LocalVersion, status.Artifact.Version()))
		fmt.Printf("    %s\n", ui.Muted(status.Artifact.Filename))
		fmt.Println()
		fmt.Printf("%s Run '%s' to install the update\n", ui.Muted(ui.SymbolArrow), ui.Bold("ptup"))
	} else {
		fmt.Printf("  %s %s %s\n", ui.Success(ui.SymbolSuccess), status.LocalVersion, ui.Muted("(up to date)"))
	}

	return nil
}
