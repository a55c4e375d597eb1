// ABOUTME: Configuration resolution for the update workflow
// ABOUTME: Flag overrides beat SDK_PT_LATEST_DL_LINK, which beats the platform default
package config

import (
	"os"
	"strings"

	"github.com/ptup/ptup/pkg/updater"
)

// EnvDownloadURL overrides where the latest bundle is fetched from.
const EnvDownloadURL = "SDK_PT_LATEST_DL_LINK"

// YesFlag skips interactive confirmation prompts (set by --yes)
var YesFlag bool

// DownloadURL resolves the latest-bundle link. An explicit override (the
// --url flag) wins, then the environment, then the platform default.
func DownloadURL(override string) string {
	if override != "" {
		return override
	}
	if env := strings.TrimSpace(os.Getenv(EnvDownloadURL)); env != "" {
		return env
	}
	return updater.DefaultURL()
}
