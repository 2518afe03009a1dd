package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Both can be overridden in the build command via ldflags.
var (
	version   = "unknown"
	buildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("%s version: %s (built %s)\n", app, version, buildDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
