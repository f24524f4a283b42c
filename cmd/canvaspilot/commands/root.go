// Package commands implements the CanvasPilot CLI commands using cobra.
package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root CLI command with all subcommands registered.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "canvaspilot",
		Short: "CanvasPilot - canvas assistant with Google Sheets sync",
		Long: `CanvasPilot is a conversational backend that keeps a visual canvas of
cards (projects, entities, notes, charts) in sync with Google Sheets.

Examples:
  canvaspilot serve
  canvaspilot chat "import my tracker sheet"
  canvaspilot sheets import 1AbC...
  canvaspilot sheets list 1AbC...`,
		Version: version,
	}

	rootCmd.AddCommand(
		newServeCmd(),
		newChatCmd(),
		newSheetsCmd(),
		newSetupCmd(),
	)

	// Global flags.
	rootCmd.PersistentFlags().StringP("config", "c", "", "path to the configuration file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	return rootCmd
}
