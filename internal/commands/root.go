// ABOUTME: Root command and CLI initialization for ptup
// ABOUTME: Sets up cobra command structure and global flags
package commands

import (
	"github.com/ptup/ptup/internal/config"
	"github.com/ptup/ptup/internal/ui"
	"github.com/spf13/cobra"
)

var (
	toolsDir    string
	downloadURL string
)

var rootCmd = &cobra.Command{
	Use:   "ptup",
	Short: "Update the platform tools bundle in place",
	Long: `ptup keeps an installed platform-tools bundle current.

It reads the version of the fastboot binary in the target directory,
resolves the version published behind the latest-bundle link, and after
a confirmation prompt installs the newer bundle over the existing one.`,
	Example: `  # Update the bundle in the current directory
  ptup

  # Update a specific installation without prompting
  ptup --dir /opt/platform-tools --yes

  # Pull from a mirror instead of the default link
  ptup --url https://mirror.example.com/platform-tools-latest-linux.zip`,
	Args: cobra.NoArgs,
	RunE: runUpdate,
	// Errors print once in main, prefixed with the program name.
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version for the root command
func SetVersion(version string) {
	rootCmd.Version = version
}

func init() {
	// Set up custom help template with lipgloss styling
	ui.SetupHelpTemplate(rootCmd)

	// Global flags - the download link can also come from the environment
	rootCmd.PersistentFlags().StringVar(&toolsDir, "dir", ".", "platform-tools installation directory")
	rootCmd.PersistentFlags().StringVar(&downloadURL, "url", "", "latest-bundle link (overrides $"+config.EnvDownloadURL+")")
	rootCmd.PersistentFlags().BoolVarP(&config.YesFlag, "yes", "y", false, "Skip all prompts, use defaults")
}
