// ABOUTME: Doctor command for diagnosing update preconditions offline
// ABOUTME: Checks the toolset directory, capabilities, and download link
package commands

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/ptup/ptup/internal/config"
	"github.com/ptup/ptup/internal/ui"
	"github.com/ptup/ptup/pkg/updater"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose common issues with the platform tools installation",
	Long: `Run diagnostics to identify problems an update run would hit.

Checks:
  - The fastboot binary exists and is executable
  - The installation directory is writable
  - Required capabilities (archive extractor, network client) are present
  - The download link is well-formed

No network requests are made.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	ui.PrintInfo("Running diagnostics...")

	issues := 0
	var recommendations []string

	// Toolset directory
	fmt.Println()
	fmt.Println(ui.RenderSection("Toolset"))
	bin := filepath.Join(toolsDir, updater.DefaultExecutable())
	if err := updater.CheckExecutable(bin); err != nil {
		fmt.Println(ui.Indent(ui.Error(ui.SymbolError)+" "+firstLine(err), 1))
		issues++
		recommendations = append(recommendations, "Run ptup inside the platform-tools directory or pass "+ui.Bold("--dir"))
	} else {
		fmt.Println(ui.Indent(ui.Success(ui.SymbolSuccess)+" "+bin, 1))
	}
	if err := updater.CheckWritable(toolsDir); err != nil {
		fmt.Println(ui.Indent(ui.Error(ui.SymbolError)+" "+firstLine(err), 1))
		issues++
		recommendations = append(recommendations, "Re-run with write access to "+toolsDir)
	} else {
		fmt.Println(ui.Indent(ui.Success(ui.SymbolSuccess)+" directory is writable", 1))
	}

	// Capabilities the update run depends on
	fmt.Println()
	fmt.Println(ui.RenderSection("Capabilities"))
	if err := updater.DefaultExtractor().Available(); err != nil {
		fmt.Println(ui.Indent(ui.Error(ui.SymbolError)+" archive extractor: "+firstLine(err), 1))
		issues++
	} else {
		fmt.Println(ui.Indent(ui.Success(ui.SymbolSuccess)+" archive extractor", 1))
	}
	if err := updater.NewHTTPFetcher(nil, nil).Available(); err != nil {
		fmt.Println(ui.Indent(ui.Error(ui.SymbolError)+" network client: "+firstLine(err), 1))
		issues++
	} else {
		fmt.Println(ui.Indent(ui.Success(ui.SymbolSuccess)+" network client", 1))
	}

	// Download link shape only; doctor never talks to the endpoint
	fmt.Println()
	fmt.Println(ui.RenderSection("Download Link"))
	link := config.DownloadURL(downloadURL)
	if err := checkDownloadLink(link); err != nil {
		fmt.Println(ui.Indent(ui.Error(ui.SymbolError)+" "+link+": "+firstLine(err), 1))
		issues++
		recommendations = append(recommendations, "Unset "+ui.Bold(config.EnvDownloadURL)+" or point it at a direct download link")
	} else {
		fmt.Println(ui.Indent(ui.Success(ui.SymbolSuccess)+" "+link, 1))
	}
	if os.Getenv(config.EnvDownloadURL) != "" {
		fmt.Println(ui.Indent(ui.Muted("set via $"+config.EnvDownloadURL), 2))
	}

	if len(recommendations) > 0 {
		fmt.Println()
		fmt.Println(ui.Indent(ui.Bold("Recommendations:"), 1))
		for _, rec := range recommendations {
			fmt.Println(ui.Indent(ui.Info(ui.SymbolArrow)+" "+rec, 1))
		}
	}

	fmt.Println()
	if issues > 0 {
		ui.PrintInfo(fmt.Sprintf("%d issue%s found.", issues, pluralS(issues)))
	} else {
		ui.PrintSuccess("No issues detected!")
	}

	return nil
}

// checkDownloadLink validates the link's shape without touching the network
func checkDownloadLink(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host")
	}
	return nil
}

func firstLine(err error) string {
	msg := err.Error()
	for i, r := range msg {
		if r == '\n' {
			return msg[:i]
		}
	}
	return msg
}

func pluralS(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
