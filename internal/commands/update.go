// ABOUTME: The default update run: resolve, confirm, download, install
// ABOUTME: Wires the updater workflow to terminal prompts and progress
package commands

import (
	"fmt"
	"os"

	"github.com/ptup/ptup/internal/config"
	"github.com/ptup/ptup/internal/ui"
	"github.com/ptup/ptup/pkg/updater"
	"github.com/spf13/cobra"
)

func runUpdate(cmd *cobra.Command, args []string) error {
	meter := ui.NewDownloadMeter(os.Stdout, "Downloading")

	w := updater.New(updater.Options{
		Dir:        toolsDir,
		URL:        config.DownloadURL(downloadURL),
		AssumeYes:  config.YesFlag,
		Confirm:    ui.ConfirmYesNo,
		OnStep:     stepAnnouncer(meter),
		OnNotice:   ui.PrintWarning,
		OnProgress: meter.Update,
	})

	result, err := w.Run(cmd.Context())
	meter.Finish()
	if err != nil {
		return err
	}

	switch result.Outcome {
	case updater.OutcomeUpToDate:
		ui.PrintSuccess(fmt.Sprintf("Already up to date (%s)", result.LocalVersion))
	case updater.OutcomeAborted:
		ui.PrintMuted("Update declined, nothing changed")
	case updater.OutcomeInstalled:
		ui.PrintSuccess("Updated platform tools " + ui.RenderVersionChange(result.LocalVersion, result.Artifact.Version()))
	}

	return nil
}

// stepAnnouncer prints one action line per workflow phase. The meter
// owns the current terminal line during the download, so every later
// phase clears it first.
func stepAnnouncer(meter *ui.DownloadMeter) func(updater.Step, string) {
	return func(step updater.Step, detail string) {
		meter.Finish()

		switch step {
		case updater.StepResolve:
			ui.PrintAction("Resolving latest version")
		case updater.StepDownload:
			ui.PrintAction("Downloading " + detail)
		case updater.StepExtract:
			ui.PrintAction("Extracting " + detail)
		case updater.StepInstall:
			ui.PrintAction("Installing into " + detail)
		}
	}
}
