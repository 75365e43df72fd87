// retrograph is a command line companion for retrograph resource archives.
//
// Usage:
//
//	retrograph info <file>   - Summarize the contents of an archive
//	retrograph show <file>   - Preview an image or tilemap in the terminal
//
// Global flags:
//
//	--verbose   - Enable debug logging
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var flagVerbose bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "retrograph",
	Short: "Inspect and preview retrograph resource archives",
	Long: `retrograph works with the engine's resource archives: zip files
carrying a versioned manifest of palettes, images, and tilemaps.

Available commands:
  info     - Show archive version and asset summary
  show     - Render an image or tilemap as colored terminal blocks

Examples:
  retrograph info game.rgres
  retrograph show game.rgres --image 0
  retrograph show game.rgres --tilemap 1`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if flagVerbose {
			log.SetLevel(log.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(showCmd)
}
